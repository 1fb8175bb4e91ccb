package output

import (
	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/report"
	"ghsecaudit/internal/rules"
)

func fixtureReport() *report.AuditReport {
	account := models.Account{Login: "acme", Type: models.AccountOrganization}
	members := []models.Member{
		{Login: "alice", Role: models.RoleAdmin},
		{Login: "bob", Role: models.RoleMember},
	}
	entries := []report.RepositoryEntry{
		{
			Repository: models.Repository{Owner: "acme", Name: "api", FullName: "acme/api", DefaultBranch: "main"},
			Reviewers: models.ReviewerFileStatus{
				Found:      true,
				Valid:      true,
				Location:   models.LocationGitHub,
				BranchUsed: "main",
				Path:       ".github/CODEOWNERS",
				Entries:    []models.OwnershipEntry{{Line: 1, Pattern: "*", Owners: []string{"@alice"}}},
			},
			Findings: []rules.Finding{
				{Repository: "acme/api", Rule: rules.KindMinApprovals, Title: "Required approvals", CurrentValue: "2", ExpectedValue: "2", Status: rules.StatusCorrect},
				{Repository: "acme/api", Rule: rules.KindSignedCommits, Title: "Signed commits", CurrentValue: "Disabled", ExpectedValue: "Enabled", Status: rules.StatusIncorrect},
			},
		},
		{
			Repository: models.Repository{Owner: "acme", Name: "web", FullName: "acme/web", DefaultBranch: "main"},
			AccessError: &report.AccessError{
				Operation:  report.OperationBranchProtection,
				Resource:   "repos/acme/web/branches/main/protection",
				StatusCode: 500,
				Message:    "GitHub API request failed",
			},
		},
		{
			Repository: models.Repository{Owner: "acme", Name: "docs", FullName: "acme/docs", DefaultBranch: "trunk"},
			Reviewers:  models.NotFoundReviewerFile(),
			Findings: []rules.Finding{
				{Repository: "acme/docs", Rule: rules.KindMinApprovals, Title: "Required approvals", CurrentValue: "a|b <script>x</script>", ExpectedValue: "2", Status: rules.StatusMissing},
			},
		},
	}
	return report.Aggregate(account, members, entries)
}
