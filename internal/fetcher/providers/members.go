package providers

import (
	"context"
	"strings"

	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/fetcher"

	"github.com/google/go-github/v81/github"
)

// Members lists the members of account. Organization owners are marked with
// RoleAdmin from a second, admin-only listing. A user account has exactly one
// member: the user, as admin.
func (s *Source) Members(ctx context.Context, account models.Account) ([]models.Member, error) {
	if !account.IsOrganization() {
		return []models.Member{{Login: account.Login, Role: models.RoleAdmin}}, nil
	}

	all, err := s.memberLogins(ctx, account.Login, "all")
	if err != nil {
		return nil, err
	}
	admins, err := s.memberLogins(ctx, account.Login, "admin")
	if err != nil {
		return nil, err
	}

	isAdmin := make(map[string]bool, len(admins))
	for _, login := range admins {
		isAdmin[strings.ToLower(login)] = true
	}

	members := make([]models.Member, 0, len(all))
	for _, login := range all {
		role := models.RoleMember
		if isAdmin[strings.ToLower(login)] {
			role = models.RoleAdmin
		}
		members = append(members, models.Member{Login: login, Role: role})
	}
	return members, nil
}

func (s *Source) memberLogins(ctx context.Context, org, role string) ([]string, error) {
	list := func(ctx context.Context, c fetcher.Cursor) ([]*github.User, *github.Response, error) {
		return s.f.GitHub().Organizations.ListMembers(ctx, org, &github.ListMembersOptions{
			Role:        role,
			ListOptions: github.ListOptions{Page: c.Page, PerPage: perPage},
		})
	}

	var logins []string
	for user, err := range fetcher.Paginate(ctx, s.f, "orgs/"+org+"/members?role="+role, list) {
		if err != nil {
			return nil, err
		}
		if login := user.GetLogin(); login != "" {
			logins = append(logins, login)
		}
	}
	return logins, nil
}
