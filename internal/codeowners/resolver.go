package codeowners

import (
	"context"
	"fmt"

	"ghsecaudit/internal/data/models"
)

// ContentFetcher reads one file at a ref. found is false for a missing path or
// a directory; err is set only for failures that are not a plain absence.
type ContentFetcher interface {
	FileContent(ctx context.Context, repo models.Repository, path, ref string) (content []byte, found bool, err error)
}

// FallbackBranches are probed after the default branch, in order.
var FallbackBranches = []string{"main", "master"}

// Resolver locates and parses the CODEOWNERS file of a repository.
type Resolver struct {
	content ContentFetcher
}

func NewResolver(content ContentFetcher) *Resolver {
	return &Resolver{content: content}
}

// Branches returns the branches probed for repo: the default branch, then the
// fallbacks, without repeats.
func Branches(repo models.Repository) []string {
	out := make([]string, 0, 1+len(FallbackBranches))
	seen := make(map[string]struct{}, cap(out))
	for _, b := range append([]string{repo.Branch()}, FallbackBranches...) {
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}

// Resolve probes each branch, and on each branch each location in priority
// order. The first file found ends the search. An error other than absence
// aborts resolution.
func (r *Resolver) Resolve(ctx context.Context, repo models.Repository) (models.ReviewerFileStatus, error) {
	if r == nil || r.content == nil {
		return models.ReviewerFileStatus{}, fmt.Errorf("codeowners: nil resolver")
	}

	for _, branch := range Branches(repo) {
		for _, loc := range models.CodeownersLocations {
			if err := ctx.Err(); err != nil {
				return models.ReviewerFileStatus{}, err
			}

			content, found, err := r.content.FileContent(ctx, repo, loc.Path(), branch)
			if err != nil {
				return models.ReviewerFileStatus{}, err
			}
			if !found {
				continue
			}

			entries := Parse(content)
			return models.ReviewerFileStatus{
				Found:      true,
				Location:   loc,
				BranchUsed: branch,
				Valid:      len(entries) > 0,
				Path:       loc.Path(),
				Entries:    entries,
			}, nil
		}
	}
	return models.NotFoundReviewerFile(), nil
}
