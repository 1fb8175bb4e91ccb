package providers

import (
	"context"
	"errors"
	"fmt"

	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/fetcher"

	"github.com/google/go-github/v81/github"
)

// ErrAccountNotFound is returned when the audited login does not exist.
var ErrAccountNotFound = errors.New("account not found")

// Account looks up login and reports whether it is an organization or a user.
// Anything that is not an organization (bots included) is audited as a user.
func (s *Source) Account(ctx context.Context, login string) (models.Account, error) {
	var user *github.User
	resource := "users/" + login
	err := s.f.Do(ctx, resource, func(ctx context.Context) (*github.Response, error) {
		var (
			resp *github.Response
			err  error
		)
		user, resp, err = s.f.GitHub().Users.Get(ctx, login)
		return resp, err
	})
	if err != nil {
		if fetcher.IsNotFound(err) {
			return models.Account{}, fmt.Errorf("%w: %s: %w", ErrAccountNotFound, login, err)
		}
		return models.Account{}, err
	}

	account := models.Account{Login: login, Type: models.AccountUser}
	if l := user.GetLogin(); l != "" {
		account.Login = l
	}
	if user.GetType() == string(models.AccountOrganization) {
		account.Type = models.AccountOrganization
	}
	return account, nil
}
