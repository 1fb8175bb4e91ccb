package checks

import (
	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/rules"
)

type EnforceAdmins struct{}

func (r *EnforceAdmins) Kind() rules.Kind {
	return rules.KindEnforceAdmins
}

func (r *EnforceAdmins) ID() string {
	return "protection-enforce-admins"
}

func (r *EnforceAdmins) Title() string {
	return "Enforce Admins"
}

func (r *EnforceAdmins) Description() string {
	return "Verifies that branch protection on the default branch also applies to repository administrators."
}

func (r *EnforceAdmins) Expected() string {
	return rules.ValueEnabled
}

func (r *EnforceAdmins) Evaluate(p models.ProtectionSettings) (string, bool) {
	enabled := p.EnforceAdmins
	return rules.EnabledValue(enabled), enabled
}

func init() {
	rules.Register(&EnforceAdmins{})
}
