package providers

import (
	"context"
	"fmt"
	"net/url"

	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/fetcher"

	"github.com/google/go-github/v81/github"
)

// BranchProtection fetches the protection of repo's default branch. It returns
// (nil, nil) when the branch is unprotected (404).
func (s *Source) BranchProtection(ctx context.Context, repo models.Repository) (*models.ProtectionSettings, error) {
	branch := repo.Branch()
	resource := fmt.Sprintf("repos/%s/branches/%s/protection", repo.Slug(), url.PathEscape(branch))

	var protection *github.Protection
	err := s.f.Do(ctx, resource, func(ctx context.Context) (*github.Response, error) {
		var (
			resp *github.Response
			err  error
		)
		protection, resp, err = s.f.GitHub().Repositories.GetBranchProtection(ctx, repo.Owner, repo.Name, branch)
		return resp, err
	})
	if err != nil {
		if fetcher.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if protection == nil {
		return nil, nil
	}
	return ProtectionFromGitHub(branch, protection), nil
}

// ProtectionFromGitHub keeps the monitored fields of a protection payload. An
// absent sub-object leaves its setting off.
func ProtectionFromGitHub(branch string, p *github.Protection) *models.ProtectionSettings {
	out := &models.ProtectionSettings{Branch: branch}
	if reviews := p.GetRequiredPullRequestReviews(); reviews != nil {
		out.RequiredApprovingReviewCount = reviews.RequiredApprovingReviewCount
	}
	if sig := p.GetRequiredSignatures(); sig != nil {
		out.RequiredSignatures = sig.GetEnabled()
	}
	if admins := p.GetEnforceAdmins(); admins != nil {
		out.EnforceAdmins = admins.Enabled
	}
	if force := p.GetAllowForcePushes(); force != nil {
		out.BlockForcePushes = !force.Enabled
	}
	if del := p.GetAllowDeletions(); del != nil {
		out.BlockDeletions = !del.Enabled
	}
	if conv := p.GetRequiredConversationResolution(); conv != nil {
		out.RequiredConversationResolution = conv.Enabled
	}
	return out
}
