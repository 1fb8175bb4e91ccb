package checks

import (
	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/rules"
)

type DisallowDeletions struct{}

func (r *DisallowDeletions) Kind() rules.Kind {
	return rules.KindDisallowDeletions
}

func (r *DisallowDeletions) ID() string {
	return "protection-disallow-deletions"
}

func (r *DisallowDeletions) Title() string {
	return "Disallow Deletions"
}

func (r *DisallowDeletions) Description() string {
	return "Verifies that the default branch cannot be deleted by users with push access."
}

func (r *DisallowDeletions) Expected() string {
	return rules.ValueEnabled
}

func (r *DisallowDeletions) Evaluate(p models.ProtectionSettings) (string, bool) {
	enabled := p.BlockDeletions
	return rules.EnabledValue(enabled), enabled
}

func init() {
	rules.Register(&DisallowDeletions{})
}
