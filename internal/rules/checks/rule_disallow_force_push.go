package checks

import (
	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/rules"
)

type DisallowForcePush struct{}

func (r *DisallowForcePush) Kind() rules.Kind {
	return rules.KindDisallowForcePush
}

func (r *DisallowForcePush) ID() string {
	return "protection-disallow-force-push"
}

func (r *DisallowForcePush) Title() string {
	return "Disallow Force Pushes"
}

func (r *DisallowForcePush) Description() string {
	return "Verifies that force pushes to the default branch are blocked. A protection payload without an allow_force_pushes setting does not count as blocking them."
}

func (r *DisallowForcePush) Expected() string {
	return rules.ValueEnabled
}

func (r *DisallowForcePush) Evaluate(p models.ProtectionSettings) (string, bool) {
	enabled := p.BlockForcePushes
	return rules.EnabledValue(enabled), enabled
}

func init() {
	rules.Register(&DisallowForcePush{})
}
