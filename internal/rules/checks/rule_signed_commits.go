package checks

import (
	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/rules"
)

type SignedCommits struct{}

func (r *SignedCommits) Kind() rules.Kind {
	return rules.KindSignedCommits
}

func (r *SignedCommits) ID() string {
	return "protection-signed-commits"
}

func (r *SignedCommits) Title() string {
	return "Signed Commits"
}

func (r *SignedCommits) Description() string {
	return "Verifies that the default branch only accepts commits with verified signatures."
}

func (r *SignedCommits) Expected() string {
	return rules.ValueEnabled
}

func (r *SignedCommits) Evaluate(p models.ProtectionSettings) (string, bool) {
	enabled := p.RequiredSignatures
	return rules.EnabledValue(enabled), enabled
}

func init() {
	rules.Register(&SignedCommits{})
}
