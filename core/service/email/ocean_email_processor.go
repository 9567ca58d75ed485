// Package email implements the batch categorization and action
// extraction pipeline.
package email

import (
	"context"
	"fmt"
	"strings"

	"ocean_server/core/domain"
	"ocean_server/core/port/in"
	"ocean_server/core/port/out"
	"ocean_server/pkg/logger"

	"github.com/goccy/go-json"
)

// Processor runs the two-phase batch pipeline. The phase split bounds
// the remote-call count to two per batch regardless of inbox size: one
// categorization call for all emails, then at most one extraction call
// for the actionable subset.
type Processor struct {
	generator out.TextGenerator
}

func NewProcessor(generator out.TextGenerator) *Processor {
	return &Processor{generator: generator}
}

type categoryRecord struct {
	EmailID  string `json:"emailId"`
	Category string `json:"category"`
}

type actionRecord struct {
	EmailID     string            `json:"emailId"`
	ActionItems []json.RawMessage `json:"actionItems"`
}

// ProcessBatch categorizes every email and extracts action items from
// the Important/To-Do subset. The result id set always equals the input
// id set, even on total failure.
func (p *Processor) ProcessBatch(ctx context.Context, emails []domain.Email, prompts domain.PromptConfig) (result *domain.BatchResult) {
	result = &domain.BatchResult{
		Results: []domain.EmailResult{},
		Errors:  []string{},
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Batch processing failed: %v", r)
			p.failBatch(result, emails, fmt.Sprintf("%v", r))
		}
	}()

	// Prompt validation happens up front so that both missing-template
	// conditions surface the same way. Only a missing categorization
	// template makes the batch unprocessable; a missing extraction
	// template just disables phase 2.
	catTemplate := prompts.Template(domain.PromptCategorization)
	actionTemplate := prompts.Template(domain.PromptActionExtraction)

	if catTemplate == "" {
		logger.Error("Categorization prompt not found, aborting batch")
		p.failBatch(result, emails, "categorization prompt not found")
		return result
	}
	if actionTemplate == "" {
		logger.Warn("Action extraction prompt not found, action items will be skipped")
		result.Warnings = append(result.Warnings, "action extraction prompt not found, skipping action items")
	}

	// Phase 1: one call for every email.
	logger.Info("Starting batch categorization for %d emails", len(emails))

	categoryMap := make(map[string]domain.Category)
	records, err := p.generator.GenerateJSON(ctx, buildCategorizationPrompt(catTemplate, emails))
	if err != nil {
		logger.WithError(err).Warn("Categorization response could not be decoded")
		result.Warnings = append(result.Warnings, "categorization response could not be decoded, defaulting to Uncategorized")
	}
	for _, raw := range records {
		var rec categoryRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.EmailID == "" {
			continue
		}
		categoryMap[rec.EmailID] = domain.ParseCategory(rec.Category)
	}

	logger.Info("Batch categorization complete: %d emails categorized", len(categoryMap))

	for _, email := range emails {
		category, ok := categoryMap[email.ID]
		if !ok {
			category = domain.CategoryUncategorized
		}
		result.Results = append(result.Results, domain.EmailResult{
			ID:          email.ID,
			Category:    category,
			ActionItems: []domain.ActionItem{},
		})
	}

	// Phase 2: one call for the actionable subset only.
	var actionable []domain.Email
	for _, email := range emails {
		cat := categoryMap[email.ID]
		if cat == domain.CategoryImportant || cat == domain.CategoryTodo {
			actionable = append(actionable, email)
		}
	}

	if len(actionable) == 0 {
		logger.Info("No emails need action extraction")
	} else if actionTemplate != "" {
		logger.Info("Starting batch action extraction for %d emails", len(actionable))
		p.extractActions(ctx, actionTemplate, actionable, result)
	}

	p.finalize(result, len(emails))
	return result
}

func (p *Processor) extractActions(ctx context.Context, template string, emails []domain.Email, result *domain.BatchResult) {
	records, err := p.generator.GenerateJSON(ctx, buildExtractionPrompt(template, emails))
	if err != nil {
		logger.WithError(err).Warn("Action extraction response could not be decoded")
		result.Warnings = append(result.Warnings, "action extraction response could not be decoded, skipping action items")
		return
	}

	for _, raw := range records {
		var rec actionRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.EmailID == "" {
			continue
		}

		validated := validateActionItems(rec.ActionItems)
		for i := range result.Results {
			if result.Results[i].ID == rec.EmailID {
				result.Results[i].ActionItems = validated
				break
			}
		}
	}

	logger.Info("Batch action extraction complete")
}

// validateActionItems keeps only object-shaped items carrying a task
// field.
func validateActionItems(items []json.RawMessage) []domain.ActionItem {
	validated := []domain.ActionItem{}
	for _, raw := range items {
		var item struct {
			Task     *string `json:"task"`
			Deadline string  `json:"deadline"`
			Priority string  `json:"priority"`
		}
		if err := json.Unmarshal(raw, &item); err != nil || item.Task == nil {
			continue
		}
		validated = append(validated, domain.ActionItem{
			Task:     *item.Task,
			Deadline: item.Deadline,
			Priority: item.Priority,
		})
	}
	return validated
}

// failBatch records a batch-level error and, when no partial results
// exist yet, emits fallback records for every input email.
func (p *Processor) failBatch(result *domain.BatchResult, emails []domain.Email, msg string) {
	result.Errors = append(result.Errors, "Batch processing error: "+msg)

	if len(result.Results) == 0 {
		for _, email := range emails {
			result.Results = append(result.Results, domain.EmailResult{
				ID:          email.ID,
				Category:    domain.CategoryUncategorized,
				ActionItems: []domain.ActionItem{},
				Error:       msg,
			})
		}
	}

	p.finalize(result, len(emails))
}

func (p *Processor) finalize(result *domain.BatchResult, total int) {
	processed := 0
	for _, r := range result.Results {
		if r.Error == "" {
			processed++
		}
	}
	result.Processed = processed
	result.Failed = len(result.Errors)
	result.Success = len(result.Errors) == 0

	logger.Info("Batch processing summary: %d/%d emails processed successfully", processed, total)
}

func buildCategorizationPrompt(template string, emails []domain.Email) string {
	var sb strings.Builder
	sb.WriteString(template)
	sb.WriteString(`

IMPORTANT: You must categorize ALL of the following emails. Return a JSON array with one object per email.
Format: [{"emailId": "email-001", "category": "Important"}, {"emailId": "email-002", "category": "Newsletter"}, ...]

Valid categories: Important, Newsletter, Spam, To-Do, Uncategorized

Here are the emails to categorize:
`)
	for _, email := range emails {
		sb.WriteString(formatEmailSection(email))
	}
	return sb.String()
}

func buildExtractionPrompt(template string, emails []domain.Email) string {
	var sb strings.Builder
	sb.WriteString(template)
	sb.WriteString(`

IMPORTANT: Extract action items from ALL of the following emails. Return a JSON array with one object per email.
Format: [{"emailId": "email-001", "actionItems": [{"task": "...", "deadline": "...", "priority": "..."}]}, ...]

Here are the emails:
`)
	for _, email := range emails {
		sb.WriteString(formatEmailSection(email))
	}
	return sb.String()
}

func formatEmailSection(email domain.Email) string {
	id := email.ID
	if id == "" {
		id = "unknown"
	}
	senderName := email.SenderName
	if senderName == "" {
		senderName = "Unknown"
	}
	subject := email.Subject
	if subject == "" {
		subject = "No subject"
	}
	return fmt.Sprintf("\n---\nEmail ID: %s\nSender: %s <%s>\nSubject: %s\nBody:\n%s\n---\n",
		id, senderName, email.Sender, subject, email.Body)
}

var _ in.EmailProcessor = (*Processor)(nil)
