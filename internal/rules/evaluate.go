package rules

import "ghsecaudit/internal/data/models"

// Evaluate returns one finding per registered rule, in kind order.
//
// A nil settings means the branch has no protection: every rule is Missing with
// a current value of "not configured". Otherwise each rule is Correct or
// Incorrect; a setting absent from an otherwise present payload is evaluated
// as disabled.
func Evaluate(repository string, settings *models.ProtectionSettings) []Finding {
	registered := List()
	findings := make([]Finding, 0, len(registered))
	for _, r := range registered {
		f := Finding{
			Repository:    repository,
			Rule:          r.Kind(),
			Title:         r.Title(),
			ExpectedValue: r.Expected(),
		}
		if settings == nil {
			f.CurrentValue = ValueNotConfigured
			f.Status = StatusMissing
		} else {
			current, ok := r.Evaluate(*settings)
			f.CurrentValue = current
			f.Status = StatusIncorrect
			if ok {
				f.Status = StatusCorrect
			}
		}
		findings = append(findings, f)
	}
	return findings
}
