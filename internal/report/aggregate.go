package report

import (
	"strings"

	"ghsecaudit/internal/codeowners"
	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/rules"
)

// Aggregate assembles the report from completed per-repository work. It does
// no I/O and copies its inputs.
//
// Code owners are the @login owners of valid reviewer files that match a
// known member, compared case-insensitively, deduplicated in order of first
// appearance and spelled as the member list spells them. Teams, emails and
// unknown logins are left out of the count but stay in each entry's raw
// ownership entries.
func Aggregate(account models.Account, members []models.Member, entries []RepositoryEntry) *AuditReport {
	s := Snapshot{
		Organization: account.Login,
		AccountType:  account.Type,
		Members:      append([]models.Member(nil), members...),
		CodeOwners:   []string{},
		Repositories: make([]RepositoryEntry, len(entries)),
		Findings:     []rules.Finding{},
	}
	if s.Members == nil {
		s.Members = []models.Member{}
	}

	known := make(map[string]string, len(members))
	for _, m := range members {
		key := strings.ToLower(m.Login)
		if _, dup := known[key]; !dup {
			known[key] = m.Login
		}
	}
	seenOwner := make(map[string]struct{})

	for i, e := range entries {
		e = cloneEntry(e)
		s.Repositories[i] = e

		if !e.Accessible() {
			s.Summary.AccessErrors++
			continue
		}

		if e.Reviewers.Found && e.Reviewers.Valid {
			s.Summary.ValidReviewerFiles++
			for _, oe := range e.Reviewers.Entries {
				for _, owner := range oe.Owners {
					login := codeowners.OwnerLogin(owner)
					if login == "" {
						continue
					}
					key := strings.ToLower(login)
					canonical, ok := known[key]
					if !ok {
						continue
					}
					if _, dup := seenOwner[key]; dup {
						continue
					}
					seenOwner[key] = struct{}{}
					s.CodeOwners = append(s.CodeOwners, canonical)
				}
			}
		}

		for _, f := range e.Findings {
			switch f.Status {
			case rules.StatusCorrect:
				s.Summary.Correct++
			case rules.StatusIncorrect:
				s.Summary.Incorrect++
			case rules.StatusMissing:
				s.Summary.Missing++
			}
		}
		s.Findings = append(s.Findings, e.Findings...)
	}

	s.Summary.TotalRepositories = len(s.Repositories)
	s.Summary.TotalMembers = len(s.Members)
	s.Summary.TotalCodeOwners = len(s.CodeOwners)

	return &AuditReport{s: s}
}
