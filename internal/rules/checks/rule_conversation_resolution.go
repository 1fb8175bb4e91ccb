package checks

import (
	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/rules"
)

type RequireConversationResolution struct{}

func (r *RequireConversationResolution) Kind() rules.Kind {
	return rules.KindRequireConversationResolution
}

func (r *RequireConversationResolution) ID() string {
	return "protection-conversation-resolution"
}

func (r *RequireConversationResolution) Title() string {
	return "Required Conversation Resolution"
}

func (r *RequireConversationResolution) Description() string {
	return "Verifies that all review conversations on a pull request must be resolved before it can be merged into the default branch."
}

func (r *RequireConversationResolution) Expected() string {
	return rules.ValueEnabled
}

func (r *RequireConversationResolution) Evaluate(p models.ProtectionSettings) (string, bool) {
	enabled := p.RequiredConversationResolution
	return rules.EnabledValue(enabled), enabled
}

func init() {
	rules.Register(&RequireConversationResolution{})
}
