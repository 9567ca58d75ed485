package domain

import "strings"

// Category is the classification outcome for an email.
type Category string

const (
	CategoryImportant     Category = "Important"
	CategoryNewsletter    Category = "Newsletter"
	CategorySpam          Category = "Spam"
	CategoryTodo          Category = "To-Do"
	CategoryUncategorized Category = "Uncategorized"
)

// categoryPriority is the fixed order used when parsing free-text model
// output. First containment match wins.
var categoryPriority = []Category{
	CategoryImportant,
	CategoryNewsletter,
	CategorySpam,
	CategoryTodo,
}

// ParseCategory maps free-text model output to a known category.
// Matching is case-insensitive substring containment; anything that does
// not match one of the four known names collapses to Uncategorized.
func ParseCategory(response string) Category {
	response = strings.TrimSpace(response)
	if response == "" {
		return CategoryUncategorized
	}

	lower := strings.ToLower(response)
	for _, cat := range categoryPriority {
		if strings.Contains(lower, strings.ToLower(string(cat))) {
			return cat
		}
	}

	return CategoryUncategorized
}

// ActionItem is a task extracted from an email. Deadline uses the "none"
// sentinel for absence; Priority is conventionally low/medium/high.
type ActionItem struct {
	Task     string `json:"task"`
	Deadline string `json:"deadline,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// HasDeadline reports whether the deadline carries a real value.
func (a ActionItem) HasDeadline() bool {
	return a.Deadline != "" && a.Deadline != "none"
}

// Email is an inbox record. It is created upstream and passed in
// read-mostly; processing only fills Category and ActionItems.
type Email struct {
	ID          string       `json:"id"`
	Sender      string       `json:"sender"`
	SenderName  string       `json:"senderName"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	Category    Category     `json:"category,omitempty"`
	ActionItems []ActionItem `json:"actionItems,omitempty"`
}

// EmailResult is the per-email outcome of batch processing.
type EmailResult struct {
	ID          string       `json:"id"`
	Category    Category     `json:"category"`
	ActionItems []ActionItem `json:"actionItems"`
	Error       string       `json:"error,omitempty"`
}

// BatchResult is the envelope for a batch processing run.
// Success holds iff Errors is empty; Processed counts results without a
// per-record error.
type BatchResult struct {
	Success   bool          `json:"success"`
	Processed int           `json:"processed"`
	Failed    int           `json:"failed"`
	Results   []EmailResult `json:"results"`
	Errors    []string      `json:"errors"`
	Warnings  []string      `json:"warnings,omitempty"`
}
