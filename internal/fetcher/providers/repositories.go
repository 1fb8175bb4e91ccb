package providers

import (
	"context"
	"iter"

	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/fetcher"

	"github.com/google/go-github/v81/github"
)

// Repositories lists every repository owned by account, lazily and in API
// order. Pages are fetched as the sequence is consumed.
func (s *Source) Repositories(ctx context.Context, account models.Account) iter.Seq2[models.Repository, error] {
	var (
		resource string
		list     fetcher.ListFunc[*github.Repository]
	)
	if account.IsOrganization() {
		resource = "orgs/" + account.Login + "/repos"
		list = func(ctx context.Context, c fetcher.Cursor) ([]*github.Repository, *github.Response, error) {
			return s.f.GitHub().Repositories.ListByOrg(ctx, account.Login, &github.RepositoryListByOrgOptions{
				Type:        "all",
				ListOptions: github.ListOptions{Page: c.Page, PerPage: perPage},
			})
		}
	} else {
		resource = "users/" + account.Login + "/repos"
		list = func(ctx context.Context, c fetcher.Cursor) ([]*github.Repository, *github.Response, error) {
			return s.f.GitHub().Repositories.ListByUser(ctx, account.Login, &github.RepositoryListByUserOptions{
				Type:        "owner",
				ListOptions: github.ListOptions{Page: c.Page, PerPage: perPage},
			})
		}
	}

	return func(yield func(models.Repository, error) bool) {
		for repo, err := range fetcher.Paginate(ctx, s.f, resource, list) {
			if err != nil {
				yield(models.Repository{}, err)
				return
			}
			if !yield(RepositoryFromGitHub(repo, account.Login), nil) {
				return
			}
		}
	}
}

// RepositoryFromGitHub converts a go-github repository. fallbackOwner is used
// when the payload omits the owner object.
func RepositoryFromGitHub(repo *github.Repository, fallbackOwner string) models.Repository {
	owner := repo.GetOwner().GetLogin()
	if owner == "" {
		owner = fallbackOwner
	}
	out := models.Repository{
		ID:            repo.GetID(),
		Owner:         owner,
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		DefaultBranch: repo.GetDefaultBranch(),
		Archived:      repo.GetArchived(),
		Fork:          repo.GetFork(),
		Private:       repo.GetPrivate(),
		Visibility:    repo.GetVisibility(),
	}
	if len(repo.Topics) > 0 {
		out.Topics = append([]string(nil), repo.Topics...)
	}
	if out.FullName == "" && owner != "" {
		out.FullName = owner + "/" + out.Name
	}
	return out
}
