package cli

import (
	"bytes"
	"strings"
	"testing"

	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/rules"
)

type mockRule struct {
	id          string
	title       string
	description string
	expected    string
}

func (m *mockRule) Kind() rules.Kind    { return rules.Kind(99) }
func (m *mockRule) ID() string          { return m.id }
func (m *mockRule) Title() string       { return m.title }
func (m *mockRule) Description() string { return m.description }
func (m *mockRule) Expected() string    { return m.expected }
func (m *mockRule) Evaluate(models.ProtectionSettings) (string, bool) {
	return "", false
}

func TestPrintRule(t *testing.T) {
	buf := new(bytes.Buffer)
	printRule(buf, &mockRule{
		id:          "simple-rule",
		title:       "Simple Rule",
		description: "A simple rule description",
		expected:    "Enabled",
	})
	output := buf.String()

	for _, exp := range []string{
		"----------------------------------------",
		"RULE: simple-rule",
		"Simple Rule",
		"A simple rule description",
		"Expected: Enabled",
	} {
		if !strings.Contains(output, exp) {
			t.Errorf("Expected output to contain %q, but it didn't.\nOutput:\n%s", exp, output)
		}
	}
}

func TestRulesListCmd(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		expectedOutput []string
		notExpected    []string
	}{
		{
			name: "Default Output",
			args: []string{"rules", "list"},
			expectedOutput: []string{
				"RULE: protection-min-approvals",
				"PR Approvals Required",
				"Expected: 2+",
				"RULE: protection-conversation-resolution",
			},
		},
		{
			name: "Quiet Output",
			args: []string{"rules", "list", "-q"},
			expectedOutput: []string{
				"protection-min-approvals\nprotection-signed-commits\nprotection-enforce-admins\nprotection-disallow-force-push\nprotection-disallow-deletions\nprotection-conversation-resolution\n",
			},
			notExpected: []string{
				"PR Approvals Required",
				"----------------------------------------",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, stderr, code := execute(t, tt.args...)
			if code != ExitOK {
				t.Fatalf("expected exit 0, got %d; stderr=%s", code, stderr)
			}
			for _, exp := range tt.expectedOutput {
				if !strings.Contains(output, exp) {
					t.Errorf("Expected output to contain %q, but it didn't.\nOutput:\n%s", exp, output)
				}
			}
			for _, notExp := range tt.notExpected {
				if strings.Contains(output, notExp) {
					t.Errorf("Expected output NOT to contain %q, but it did.\nOutput:\n%s", notExp, output)
				}
			}
		})
	}
}

func TestRulesShowCmd(t *testing.T) {
	output, _, code := execute(t, "rules", "show", "protection-enforce-admins")
	if code != ExitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	for _, exp := range []string{"RULE: protection-enforce-admins", "Enforce Admins", "Expected: Enabled"} {
		if !strings.Contains(output, exp) {
			t.Errorf("Expected output to contain %q, but it didn't.\nOutput:\n%s", exp, output)
		}
	}

	_, stderr, code := execute(t, "rules", "show", "non-existent-rule")
	if code == ExitOK {
		t.Fatalf("expected failure for unknown rule")
	}
	if !strings.Contains(stderr, "rule not found: non-existent-rule") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
}
