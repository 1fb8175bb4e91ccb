package rules

import "ghsecaudit/internal/data/models"

// Rule is one monitored branch-protection setting.
//
// Rules are pure: they read the decoded settings and never call GitHub.
type Rule interface {
	Kind() Kind
	ID() string
	Title() string
	Description() string

	// Expected is the compliant value as displayed in reports.
	Expected() string

	// Evaluate returns the displayed current value and whether it complies.
	Evaluate(settings models.ProtectionSettings) (current string, compliant bool)
}
