package email

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"ocean_server/core/agent/llm"
	"ocean_server/core/domain"
	"ocean_server/core/port/out"

	"github.com/goccy/go-json"
)

// scriptedGenerator replays canned JSON responses and records the
// prompts it was given.
type scriptedGenerator struct {
	prompts   []string
	responses [][]json.RawMessage
	errs      []error
}

func (g *scriptedGenerator) GenerateText(_ context.Context, _ string) (string, error) {
	return "", nil
}

func (g *scriptedGenerator) GenerateJSON(_ context.Context, prompt string) ([]json.RawMessage, error) {
	call := len(g.prompts)
	g.prompts = append(g.prompts, prompt)

	var resp []json.RawMessage
	if call < len(g.responses) {
		resp = g.responses[call]
	}
	var err error
	if call < len(g.errs) {
		err = g.errs[call]
	}
	return resp, err
}

func rawRecord(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	return raw
}

func testPrompts() domain.PromptConfig {
	return domain.PromptConfig{
		domain.PromptCategorization:   {Name: "Categorization", Prompt: "Categorize each email."},
		domain.PromptActionExtraction: {Name: "Action Extraction", Prompt: "Extract action items from each email."},
	}
}

func testEmails() []domain.Email {
	return []domain.Email{
		{ID: "e1", Sender: "ops@company.com", SenderName: "Ops", Subject: "URGENT: Server Down", Body: "Please restart the server."},
		{ID: "e2", Sender: "digest@news.io", SenderName: "Digest", Subject: "Weekly Newsletter #42", Body: "This week in engineering."},
		{ID: "e3", Sender: "bob@company.com", SenderName: "Bob", Subject: "Lunch", Body: "Want to grab lunch?"},
	}
}

func TestProcessBatchMakesTwoCalls(t *testing.T) {
	gen := &scriptedGenerator{
		responses: [][]json.RawMessage{
			{
				rawRecord(t, map[string]string{"emailId": "e1", "category": "Important"}),
				rawRecord(t, map[string]string{"emailId": "e2", "category": "Newsletter"}),
				rawRecord(t, map[string]string{"emailId": "e3", "category": "To-Do"}),
			},
			{
				rawRecord(t, map[string]any{
					"emailId": "e1",
					"actionItems": []map[string]string{
						{"task": "Restart the server", "deadline": "none", "priority": "high"},
					},
				}),
			},
		},
	}

	result := NewProcessor(gen).ProcessBatch(context.Background(), testEmails(), testPrompts())

	if len(gen.prompts) != 2 {
		t.Fatalf("expected 2 generator calls, got %d", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "Categorize each email.") {
		t.Errorf("categorization prompt missing template: %q", gen.prompts[0])
	}
	for _, id := range []string{"e1", "e2", "e3"} {
		if !strings.Contains(gen.prompts[0], "Email ID: "+id) {
			t.Errorf("categorization prompt missing %s", id)
		}
	}

	// Only the Important and To-Do emails reach extraction.
	if !strings.Contains(gen.prompts[1], "Email ID: e1") || !strings.Contains(gen.prompts[1], "Email ID: e3") {
		t.Errorf("extraction prompt missing actionable emails: %q", gen.prompts[1])
	}
	if strings.Contains(gen.prompts[1], "Email ID: e2") {
		t.Errorf("extraction prompt should not include newsletter email")
	}

	if !result.Success {
		t.Errorf("expected success, got errors: %v", result.Errors)
	}
	if result.Processed != 3 || result.Failed != 0 {
		t.Errorf("expected 3 processed / 0 failed, got %d / %d", result.Processed, result.Failed)
	}
	if len(result.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(result.Results))
	}
	for i, want := range []string{"e1", "e2", "e3"} {
		if result.Results[i].ID != want {
			t.Errorf("result %d: expected id %s, got %s", i, want, result.Results[i].ID)
		}
	}
	if result.Results[0].Category != domain.CategoryImportant {
		t.Errorf("e1: expected Important, got %s", result.Results[0].Category)
	}
	if len(result.Results[0].ActionItems) != 1 || result.Results[0].ActionItems[0].Task != "Restart the server" {
		t.Errorf("e1: unexpected action items %+v", result.Results[0].ActionItems)
	}
	if len(result.Results[1].ActionItems) != 0 {
		t.Errorf("e2: expected no action items, got %+v", result.Results[1].ActionItems)
	}
}

func TestProcessBatchNoActionableSkipsExtraction(t *testing.T) {
	gen := &scriptedGenerator{
		responses: [][]json.RawMessage{
			{
				rawRecord(t, map[string]string{"emailId": "e1", "category": "Newsletter"}),
				rawRecord(t, map[string]string{"emailId": "e2", "category": "Spam"}),
			},
		},
	}
	emails := []domain.Email{
		{ID: "e1", Subject: "Digest"},
		{ID: "e2", Subject: "Deal"},
	}

	result := NewProcessor(gen).ProcessBatch(context.Background(), emails, testPrompts())

	if len(gen.prompts) != 1 {
		t.Errorf("expected 1 generator call, got %d", len(gen.prompts))
	}
	if !result.Success || result.Processed != 2 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestProcessBatchMissingCategorizationPrompt(t *testing.T) {
	gen := &scriptedGenerator{}
	emails := testEmails()

	result := NewProcessor(gen).ProcessBatch(context.Background(), emails, domain.PromptConfig{
		domain.PromptActionExtraction: {Prompt: "Extract action items."},
	})

	if len(gen.prompts) != 0 {
		t.Errorf("expected no generator calls, got %d", len(gen.prompts))
	}
	if result.Success {
		t.Errorf("expected failure")
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "categorization prompt not found") {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Results) != len(emails) {
		t.Fatalf("expected %d fallback results, got %d", len(emails), len(result.Results))
	}
	for i, r := range result.Results {
		if r.ID != emails[i].ID {
			t.Errorf("result %d: expected id %s, got %s", i, emails[i].ID, r.ID)
		}
		if r.Category != domain.CategoryUncategorized || r.Error == "" {
			t.Errorf("result %d: expected uncategorized fallback with error, got %+v", i, r)
		}
	}
	if result.Processed != 0 || result.Failed != 1 {
		t.Errorf("expected 0 processed / 1 failed, got %d / %d", result.Processed, result.Failed)
	}
}

func TestProcessBatchMissingExtractionPrompt(t *testing.T) {
	gen := &scriptedGenerator{
		responses: [][]json.RawMessage{
			{rawRecord(t, map[string]string{"emailId": "e1", "category": "Important"})},
		},
	}
	emails := []domain.Email{{ID: "e1", Subject: "URGENT"}}

	result := NewProcessor(gen).ProcessBatch(context.Background(), emails, domain.PromptConfig{
		domain.PromptCategorization: {Prompt: "Categorize each email."},
	})

	if len(gen.prompts) != 1 {
		t.Errorf("expected 1 generator call, got %d", len(gen.prompts))
	}
	if !result.Success {
		t.Errorf("expected success, got errors: %v", result.Errors)
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "action extraction prompt not found") {
		t.Errorf("expected missing-template warning, got %v", result.Warnings)
	}
	if result.Results[0].Category != domain.CategoryImportant {
		t.Errorf("expected Important, got %s", result.Results[0].Category)
	}
}

func TestProcessBatchMalformedCategorization(t *testing.T) {
	gen := &scriptedGenerator{
		errs: []error{fmt.Errorf("%w: invalid character", out.ErrMalformedResponse)},
	}
	emails := testEmails()

	result := NewProcessor(gen).ProcessBatch(context.Background(), emails, testPrompts())

	// Every email degrades to Uncategorized, which leaves nothing for
	// the extraction phase.
	if len(gen.prompts) != 1 {
		t.Errorf("expected 1 generator call, got %d", len(gen.prompts))
	}
	if !result.Success {
		t.Errorf("decode failure should degrade, not fail: %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Errorf("expected a decode warning")
	}
	for _, r := range result.Results {
		if r.Category != domain.CategoryUncategorized {
			t.Errorf("%s: expected Uncategorized, got %s", r.ID, r.Category)
		}
	}
}

func TestProcessBatchMissingEmailDefaults(t *testing.T) {
	gen := &scriptedGenerator{
		responses: [][]json.RawMessage{
			{rawRecord(t, map[string]string{"emailId": "e1", "category": "Newsletter"})},
		},
	}
	emails := []domain.Email{
		{ID: "e1", Subject: "Digest"},
		{ID: "e2", Subject: "Other"},
	}

	result := NewProcessor(gen).ProcessBatch(context.Background(), emails, testPrompts())

	if result.Results[1].Category != domain.CategoryUncategorized {
		t.Errorf("e2: expected Uncategorized, got %s", result.Results[1].Category)
	}
}

func TestProcessBatchDiscardsInvalidActionItems(t *testing.T) {
	gen := &scriptedGenerator{
		responses: [][]json.RawMessage{
			{rawRecord(t, map[string]string{"emailId": "e1", "category": "To-Do"})},
			{rawRecord(t, map[string]any{
				"emailId": "e1",
				"actionItems": []any{
					map[string]string{"task": "Reply to Bob", "deadline": "none", "priority": "low"},
					map[string]string{"deadline": "2026-09-05", "priority": "high"},
					"not an object",
				},
			})},
		},
	}
	emails := []domain.Email{{ID: "e1", Subject: "Lunch"}}

	result := NewProcessor(gen).ProcessBatch(context.Background(), emails, testPrompts())

	items := result.Results[0].ActionItems
	if len(items) != 1 || items[0].Task != "Reply to Bob" {
		t.Errorf("expected only the well-formed item, got %+v", items)
	}
}

func TestProcessBatchWithMockGenerator(t *testing.T) {
	result := NewProcessor(llm.NewMockGenerator()).ProcessBatch(context.Background(), testEmails(), testPrompts())

	if !result.Success {
		t.Fatalf("expected success, got errors: %v", result.Errors)
	}
	byID := map[string]domain.EmailResult{}
	for _, r := range result.Results {
		byID[r.ID] = r
	}

	if byID["e1"].Category != domain.CategoryImportant {
		t.Errorf("e1: expected Important, got %s", byID["e1"].Category)
	}
	if byID["e2"].Category != domain.CategoryNewsletter {
		t.Errorf("e2: expected Newsletter, got %s", byID["e2"].Category)
	}
	if byID["e3"].Category != domain.CategoryTodo {
		t.Errorf("e3: expected To-Do, got %s", byID["e3"].Category)
	}

	if len(byID["e1"].ActionItems) != 1 || byID["e1"].ActionItems[0].Task != "Take required action" {
		t.Errorf("e1: unexpected action items %+v", byID["e1"].ActionItems)
	}
	if len(byID["e2"].ActionItems) != 0 {
		t.Errorf("e2: expected no action items, got %+v", byID["e2"].ActionItems)
	}
}
