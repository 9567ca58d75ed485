package domain

// Prompt task names used by the processing pipeline.
const (
	PromptCategorization   = "categorization"
	PromptActionExtraction = "actionExtraction"
	PromptAutoReply        = "autoReply"
)

// Prompt is a configured prompt template for one task.
type Prompt struct {
	Name   string `json:"name,omitempty"`
	Prompt string `json:"prompt"`
}

// PromptConfig maps a task name to its prompt template. Supplied
// per-request; an absent template means the step is skipped.
type PromptConfig map[string]Prompt

// Template returns the template text for a task, or "" when unset.
func (p PromptConfig) Template(task string) string {
	if p == nil {
		return ""
	}
	return p[task].Prompt
}
