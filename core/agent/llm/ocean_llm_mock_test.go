package llm

import (
	"context"
	"fmt"
	"testing"

	"ocean_server/core/domain"

	"github.com/goccy/go-json"
)

func textPrompt(sender, subject, body string) string {
	return fmt.Sprintf(
		"Categorize this email into one of: Important, Newsletter, Spam, To-Do, Uncategorized.\n\nEmail:\nSender: %s\nSubject: %s\nBody:\n%s",
		sender, subject, body,
	)
}

func batchSection(id, sender, subject, body string) string {
	return fmt.Sprintf("\n---\nEmail ID: %s\nSender: Someone <%s>\nSubject: %s\nBody:\n%s\n---\n", id, sender, subject, body)
}

func TestMockGenerateTextCategorization(t *testing.T) {
	tests := []struct {
		name     string
		sender   string
		subject  string
		body     string
		expected domain.Category
	}{
		{
			name:     "urgent subject",
			sender:   "ops@company.com",
			subject:  "URGENT: Server Down",
			body:     "The primary server is down. Please restart it immediately.",
			expected: domain.CategoryImportant,
		},
		{
			name:     "urgent only in body",
			sender:   "bob@company.com",
			subject:  "Heads up",
			body:     "This is urgent, please respond.",
			expected: domain.CategoryTodo,
		},
		{
			name:     "known sender",
			sender:   "sarah@company.com",
			subject:  "Question",
			body:     "Quick question about the roadmap.",
			expected: domain.CategoryImportant,
		},
		{
			name:     "weekly newsletter",
			sender:   "digest@news.io",
			subject:  "Weekly Newsletter #42",
			body:     "This week in tech.",
			expected: domain.CategoryNewsletter,
		},
		{
			name:     "update in subject",
			sender:   "hr@company.com",
			subject:  "Policy update",
			body:     "Please read the attached policy.",
			expected: domain.CategoryNewsletter,
		},
		{
			name:     "discount promo",
			sender:   "deals@shop.com",
			subject:  "70% off everything",
			body:     "Limited time only.",
			expected: domain.CategorySpam,
		},
		{
			name:     "plain request",
			sender:   "bob@company.com",
			subject:  "Lunch",
			body:     "Want to grab lunch tomorrow?",
			expected: domain.CategoryTodo,
		},
	}

	mock := NewMockGenerator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := mock.GenerateText(context.Background(), textPrompt(tt.sender, tt.subject, tt.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp != string(tt.expected) {
				t.Errorf("expected %q, got %q", tt.expected, resp)
			}
		})
	}
}

func TestMockGenerateTextNonCategorizationPrompt(t *testing.T) {
	mock := NewMockGenerator()
	resp, err := mock.GenerateText(context.Background(), "Summarize this email in one sentence.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != string(domain.CategoryUncategorized) {
		t.Errorf("expected %q, got %q", domain.CategoryUncategorized, resp)
	}
}

func TestMockGenerateJSONBatchCategorization(t *testing.T) {
	prompt := "Categorize each of the following emails.\n" +
		batchSection("e1", "ops@company.com", "URGENT: Server Down", "Please restart the server.") +
		batchSection("e2", "sarah@company.com", "Weekly Newsletter #42", "This week in engineering.") +
		batchSection("e3", "bob@company.com", "Lunch", "Want to grab lunch?")

	mock := NewMockGenerator()
	records, err := mock.GenerateJSON(context.Background(), prompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	got := map[string]domain.Category{}
	for _, raw := range records {
		var rec mockCategoryRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			t.Fatalf("bad record %s: %v", raw, err)
		}
		got[rec.EmailID] = rec.Category
	}

	expected := map[string]domain.Category{
		"e1": domain.CategoryImportant,
		// sarah@company.com matches first but the newsletter rule
		// runs later and wins.
		"e2": domain.CategoryNewsletter,
		"e3": domain.CategoryTodo,
	}
	for id, want := range expected {
		if got[id] != want {
			t.Errorf("email %s: expected %q, got %q", id, want, got[id])
		}
	}
}

func TestMockGenerateJSONBatchExtraction(t *testing.T) {
	prompt := "Extract action items from the following emails.\n" +
		batchSection("e1", "alice@company.com", "Team meeting", "Meeting on Friday at 10am.") +
		batchSection("e2", "bob@company.com", "Lunch", "Want to grab lunch?") +
		batchSection("e3", "ops@company.com", "Oncall", "Urgent fix needed tonight.")

	mock := NewMockGenerator()
	records, err := mock.GenerateJSON(context.Background(), prompt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	got := map[string][]domain.ActionItem{}
	for _, raw := range records {
		var rec mockActionRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			t.Fatalf("bad record %s: %v", raw, err)
		}
		got[rec.EmailID] = rec.ActionItems
	}

	if len(got["e1"]) != 2 {
		t.Errorf("expected 2 items for e1, got %d", len(got["e1"]))
	}
	if _, ok := got["e2"]; ok {
		t.Errorf("expected no record for e2")
	}
	if len(got["e3"]) != 1 || got["e3"][0].Task != "Take required action" {
		t.Errorf("unexpected items for e3: %+v", got["e3"])
	}
}

func TestMockGenerateJSONLegacyExtraction(t *testing.T) {
	mock := NewMockGenerator()

	t.Run("meeting keyword", func(t *testing.T) {
		records, err := mock.GenerateJSON(context.Background(),
			"Extract action items from this email.\n\nSubject: Team meeting\nBody: Friday at 10am.")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		var item domain.ActionItem
		if err := json.Unmarshal(records[0], &item); err != nil {
			t.Fatalf("bad record: %v", err)
		}
		if item.Task != "Review agenda and prepare materials" {
			t.Errorf("unexpected first task %q", item.Task)
		}
	})

	t.Run("urgent has no legacy branch", func(t *testing.T) {
		records, err := mock.GenerateJSON(context.Background(),
			"Extract action items from this email.\n\nSubject: Oncall\nBody: Urgent fix needed tonight.")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("expected no records, got %d", len(records))
		}
	})
}
