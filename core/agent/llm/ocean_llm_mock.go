package llm

import (
	"context"
	"regexp"
	"strings"

	"ocean_server/core/domain"
	"ocean_server/core/port/out"

	"github.com/goccy/go-json"
)

// MockGenerator is a deterministic, offline stand-in for the remote
// model. It is wired in whenever no API key is configured and never
// performs network I/O.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

var emailIDPattern = regexp.MustCompile(`Email ID:\s*(\S+)`)

// GenerateText answers categorization prompts with a category name
// derived from the embedded email section. Any other prompt yields
// "Uncategorized".
func (m *MockGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	promptLower := strings.ToLower(prompt)

	if !strings.Contains(promptLower, "categorize") && !strings.Contains(promptLower, "category") {
		return string(domain.CategoryUncategorized), nil
	}

	section := prompt
	if idx := strings.Index(promptLower, "email:"); idx >= 0 {
		section = prompt[idx:]
	}

	return string(mockCategorizeText(section)), nil
}

type mockCategoryRecord struct {
	EmailID  string          `json:"emailId"`
	Category domain.Category `json:"category"`
}

type mockActionRecord struct {
	EmailID     string              `json:"emailId"`
	ActionItems []domain.ActionItem `json:"actionItems"`
}

// GenerateJSON handles batch categorization and batch action-extraction
// prompts. Batch mode is detected by counting "Email ID:" delimiter
// markers; prompts with a single email fall back to the legacy
// item-list shape.
func (m *MockGenerator) GenerateJSON(_ context.Context, prompt string) ([]json.RawMessage, error) {
	promptLower := strings.ToLower(prompt)
	markers := strings.Count(prompt, "Email ID:")

	if strings.Contains(promptLower, "categorize") && markers > 1 {
		var records []json.RawMessage
		for _, section := range strings.Split(prompt, "---") {
			if !strings.Contains(section, "Email ID:") {
				continue
			}
			match := emailIDPattern.FindStringSubmatch(section)
			if match == nil {
				continue
			}
			raw, err := json.Marshal(mockCategoryRecord{
				EmailID:  match[1],
				Category: mockCategorizeSection(section),
			})
			if err != nil {
				continue
			}
			records = append(records, raw)
		}
		return records, nil
	}

	if strings.Contains(promptLower, "action") && strings.Contains(promptLower, "extract") && markers > 1 {
		var records []json.RawMessage
		for _, section := range strings.Split(prompt, "---") {
			if !strings.Contains(section, "Email ID:") {
				continue
			}
			match := emailIDPattern.FindStringSubmatch(section)
			if match == nil {
				continue
			}
			items := mockActionItems(strings.ToLower(section))
			if len(items) == 0 {
				continue
			}
			raw, err := json.Marshal(mockActionRecord{
				EmailID:     match[1],
				ActionItems: items,
			})
			if err != nil {
				continue
			}
			records = append(records, raw)
		}
		return records, nil
	}

	// Legacy single-email shape: the records are the action items
	// themselves, using a reduced heuristic.
	var records []json.RawMessage
	for _, item := range mockLegacyActionItems(promptLower) {
		raw, err := json.Marshal(item)
		if err != nil {
			continue
		}
		records = append(records, raw)
	}
	return records, nil
}

// subjectLine isolates the text between "subject:" and the next
// newline in an already-lowercased section.
func subjectLine(sectionLower string) (string, bool) {
	start := strings.Index(sectionLower, "subject:")
	if start < 0 {
		return "", false
	}
	rest := sectionLower[start:]
	if end := strings.Index(rest, "\n"); end > 0 {
		return rest[:end], true
	}
	return rest, true
}

// mockCategorizeText applies the categorization rules with first-match
// semantics, as the single-email text path does.
func mockCategorizeText(section string) domain.Category {
	sectionLower := strings.ToLower(section)

	if strings.Contains(sectionLower, "urgent") {
		if subject, ok := subjectLine(sectionLower); ok {
			if strings.Contains(subject, "urgent") || strings.Contains(subject, "ceo") {
				return domain.CategoryImportant
			}
		}
	}

	if strings.Contains(sectionLower, "sarah@company.com") {
		return domain.CategoryImportant
	}

	if strings.Contains(sectionLower, "newsletter") ||
		strings.Contains(sectionLower, "weekly") ||
		strings.Contains(sectionLower, "week in") {
		return domain.CategoryNewsletter
	}
	if subject, ok := subjectLine(sectionLower); ok && strings.Contains(subject, "update") {
		return domain.CategoryNewsletter
	}

	if strings.Contains(sectionLower, "sale") ||
		strings.Contains(sectionLower, "discount") ||
		strings.Contains(sectionLower, "limited") {
		return domain.CategorySpam
	}
	if strings.Contains(section, "70%") || strings.Contains(sectionLower, "off everything") {
		return domain.CategorySpam
	}

	return domain.CategoryTodo
}

// mockCategorizeSection applies the same rules to one batch section.
// Unlike the text path, later rules override earlier matches: an email
// satisfying several triggers keeps the last assignment.
func mockCategorizeSection(section string) domain.Category {
	sectionLower := strings.ToLower(section)
	category := domain.CategoryTodo

	if strings.Contains(sectionLower, "urgent") || strings.Contains(sectionLower, "ceo") {
		if subject, ok := subjectLine(sectionLower); ok {
			if strings.Contains(subject, "urgent") || strings.Contains(subject, "ceo") {
				category = domain.CategoryImportant
			}
		}
	}

	if strings.Contains(sectionLower, "sarah@company.com") {
		category = domain.CategoryImportant
	}

	if strings.Contains(sectionLower, "newsletter") ||
		strings.Contains(sectionLower, "weekly") ||
		strings.Contains(sectionLower, "week in") {
		category = domain.CategoryNewsletter
	}
	if subject, ok := subjectLine(sectionLower); ok && strings.Contains(subject, "update") {
		category = domain.CategoryNewsletter
	}

	if strings.Contains(sectionLower, "sale") ||
		strings.Contains(sectionLower, "discount") ||
		strings.Contains(sectionLower, "limited") {
		category = domain.CategorySpam
	}
	if strings.Contains(section, "70%") || strings.Contains(sectionLower, "off everything") {
		category = domain.CategorySpam
	}

	return category
}

// mockActionItems derives canned action items from a batch section.
func mockActionItems(sectionLower string) []domain.ActionItem {
	switch {
	case strings.Contains(sectionLower, "meeting"):
		return []domain.ActionItem{
			{Task: "Review agenda and prepare materials", Deadline: "none", Priority: "high"},
			{Task: "Confirm attendance", Deadline: "none", Priority: "medium"},
		}
	case strings.Contains(sectionLower, "review"), strings.Contains(sectionLower, "proposal"):
		return []domain.ActionItem{
			{Task: "Review document and provide feedback", Deadline: "none", Priority: "high"},
		}
	case strings.Contains(sectionLower, "update"), strings.Contains(sectionLower, "report"):
		return []domain.ActionItem{
			{Task: "Read update and acknowledge", Deadline: "none", Priority: "low"},
		}
	case strings.Contains(sectionLower, "urgent"), strings.Contains(sectionLower, "action required"):
		return []domain.ActionItem{
			{Task: "Take required action", Deadline: "none", Priority: "high"},
		}
	}
	return nil
}

// mockLegacyActionItems is the reduced heuristic for single-email
// prompts; it lacks the urgent branch of the batch path.
func mockLegacyActionItems(promptLower string) []domain.ActionItem {
	switch {
	case strings.Contains(promptLower, "meeting"):
		return []domain.ActionItem{
			{Task: "Review agenda and prepare materials", Deadline: "none", Priority: "high"},
			{Task: "Confirm attendance", Deadline: "none", Priority: "medium"},
		}
	case strings.Contains(promptLower, "review"), strings.Contains(promptLower, "proposal"):
		return []domain.ActionItem{
			{Task: "Review document and provide feedback", Deadline: "none", Priority: "high"},
		}
	case strings.Contains(promptLower, "update"), strings.Contains(promptLower, "report"):
		return []domain.ActionItem{
			{Task: "Read update and acknowledge", Deadline: "none", Priority: "low"},
		}
	}
	return nil
}

var _ out.TextGenerator = (*MockGenerator)(nil)
