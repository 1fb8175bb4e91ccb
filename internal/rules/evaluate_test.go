package rules_test

import (
	"testing"

	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/rules"
	_ "ghsecaudit/internal/rules/checks"
)

func TestEvaluate_NoProtectionIsAllMissing(t *testing.T) {
	findings := rules.Evaluate("acme/api", nil)
	if len(findings) != len(rules.Kinds) {
		t.Fatalf("expected %d findings, got %d", len(rules.Kinds), len(findings))
	}
	for i, f := range findings {
		if f.Rule != rules.Kinds[i] {
			t.Errorf("findings[%d].Rule = %s, want %s", i, f.Rule, rules.Kinds[i])
		}
		if f.Status != rules.StatusMissing || f.CurrentValue != rules.ValueNotConfigured {
			t.Errorf("findings[%d] = %+v, want Missing/not configured", i, f)
		}
		if f.Repository != "acme/api" {
			t.Errorf("findings[%d].Repository = %q", i, f.Repository)
		}
	}
}

func TestEvaluate_FullyHardened(t *testing.T) {
	settings := &models.ProtectionSettings{
		Branch:                         "main",
		RequiredApprovingReviewCount:   2,
		RequiredSignatures:             true,
		EnforceAdmins:                  true,
		BlockForcePushes:               true,
		BlockDeletions:                 true,
		RequiredConversationResolution: true,
	}
	for _, f := range rules.Evaluate("acme/api", settings) {
		if f.Status != rules.StatusCorrect {
			t.Errorf("%s: status %s (current %q, expected %q)", f.Rule, f.Status, f.CurrentValue, f.ExpectedValue)
		}
	}
}

func TestEvaluate_EmptyPayloadIsIncorrectNotMissing(t *testing.T) {
	findings := rules.Evaluate("acme/api", &models.ProtectionSettings{Branch: "main"})

	want := []struct {
		current  string
		expected string
	}{
		{current: "0", expected: "2+"},
		{current: rules.ValueDisabled, expected: rules.ValueEnabled},
		{current: rules.ValueDisabled, expected: rules.ValueEnabled},
		{current: rules.ValueDisabled, expected: rules.ValueEnabled},
		{current: rules.ValueDisabled, expected: rules.ValueEnabled},
		{current: rules.ValueDisabled, expected: rules.ValueEnabled},
	}
	if len(findings) != len(want) {
		t.Fatalf("expected %d findings, got %d", len(want), len(findings))
	}
	for i, f := range findings {
		if f.Status != rules.StatusIncorrect {
			t.Errorf("findings[%d].Status = %s, want Incorrect", i, f.Status)
		}
		if f.CurrentValue != want[i].current || f.ExpectedValue != want[i].expected {
			t.Errorf("findings[%d] = %q/%q, want %q/%q", i, f.CurrentValue, f.ExpectedValue, want[i].current, want[i].expected)
		}
	}
}

func TestEvaluate_Titles(t *testing.T) {
	want := []string{
		"PR Approvals Required",
		"Signed Commits",
		"Enforce Admins",
		"Disallow Force Pushes",
		"Disallow Deletions",
		"Required Conversation Resolution",
	}
	findings := rules.Evaluate("acme/api", nil)
	for i, f := range findings {
		if f.Title != want[i] {
			t.Errorf("findings[%d].Title = %q, want %q", i, f.Title, want[i])
		}
	}
}
