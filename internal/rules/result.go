package rules

type Status string

const (
	StatusCorrect   Status = "Correct"
	StatusIncorrect Status = "Incorrect"
	// StatusMissing means the branch has no protection at all, as opposed to a
	// setting that is present but non-compliant.
	StatusMissing Status = "Missing"
)

// Displayed values.
const (
	ValueEnabled       = "Enabled"
	ValueDisabled      = "Disabled"
	ValueNotConfigured = "not configured"
)

// Finding is one evaluated (repository, rule) pair.
type Finding struct {
	Repository    string `json:"repository" yaml:"repository"`
	Rule          Kind   `json:"rule" yaml:"rule"`
	Title         string `json:"title" yaml:"title"`
	CurrentValue  string `json:"current_value" yaml:"current_value"`
	ExpectedValue string `json:"expected_value" yaml:"expected_value"`
	Status        Status `json:"status" yaml:"status"`
}

func (f Finding) Compliant() bool {
	return f.Status == StatusCorrect
}

// EnabledValue renders a boolean setting.
func EnabledValue(enabled bool) string {
	if enabled {
		return ValueEnabled
	}
	return ValueDisabled
}
