package providers

import (
	"context"
	"fmt"

	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/fetcher"

	"github.com/google/go-github/v81/github"
)

// FileContent fetches the decoded content of path at ref. found is false when
// the path does not exist or names a directory.
func (s *Source) FileContent(ctx context.Context, repo models.Repository, path, ref string) (content []byte, found bool, err error) {
	resource := fmt.Sprintf("repos/%s/contents/%s?ref=%s", repo.Slug(), path, ref)

	var (
		file *github.RepositoryContent
		dir  []*github.RepositoryContent
	)
	err = s.f.Do(ctx, resource, func(ctx context.Context) (*github.Response, error) {
		var (
			resp *github.Response
			err  error
		)
		file, dir, resp, err = s.f.GitHub().Repositories.GetContents(ctx, repo.Owner, repo.Name, path, &github.RepositoryContentGetOptions{Ref: ref})
		return resp, err
	})
	if err != nil {
		if fetcher.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if file == nil || dir != nil || file.GetType() == "dir" {
		return nil, false, nil
	}

	text, err := file.GetContent()
	if err != nil {
		return nil, false, fetcher.NewDecodeError(resource, err)
	}
	return []byte(text), true, nil
}
