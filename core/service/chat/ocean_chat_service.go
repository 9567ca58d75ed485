// Package chat routes free-text user queries about an inbox to intent
// handlers.
package chat

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"ocean_server/core/domain"
	"ocean_server/core/port/in"
	"ocean_server/core/port/out"
	"ocean_server/pkg/logger"
)

// Service answers chat queries, optionally invoking the generation
// client and emitting reply drafts for external persistence.
type Service struct {
	generator out.TextGenerator
}

func NewService(generator out.TextGenerator) *Service {
	return &Service{generator: generator}
}

// ProcessQuery classifies the query and dispatches to the matching
// intent handler. Every handled branch reports success, including
// clarifying "no context" responses; failure is reserved for panics
// caught at this boundary.
func (s *Service) ProcessQuery(ctx context.Context, req *in.ChatRequest) (result *in.ChatResult) {
	result = &in.ChatResult{}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Chat query failed: %v", r)
			result.Error = fmt.Sprintf("%v", r)
			result.Response = "I encountered an error processing your request. Please try again."
			result.Success = false
			result.Draft = nil
		}
	}()

	queryLower := strings.ToLower(req.Query)

	switch DetectIntent(queryLower) {
	case IntentDraft:
		s.handleDraft(ctx, req, result)
	case IntentSummarize:
		s.handleSummarize(ctx, req, result)
	case IntentTasks:
		s.handleTasks(req, result)
	case IntentFilter:
		s.handleFilter(queryLower, req, result)
	default:
		s.handleGeneral(ctx, req, result)
	}

	return result
}

var subjectLabelPattern = regexp.MustCompile(`(?i)subject:`)

func (s *Service) handleDraft(ctx context.Context, req *in.ChatRequest, result *in.ChatResult) {
	if req.Email == nil {
		result.Response = "Please select an email first to draft a reply."
		result.Success = true
		return
	}

	draft := s.generateDraft(ctx, req.Email, req.Prompts, req.Query)
	result.Draft = &draft
	result.Response = fmt.Sprintf(
		"I've generated a draft reply:\n\n**Subject:** %s\n\n**Body:**\n%s\n\nYou can find this draft in the Drafts tab for editing.",
		draft.Subject, draft.Body)
	result.Success = true
}

func (s *Service) generateDraft(ctx context.Context, email *domain.Email, prompts domain.PromptConfig, instruction string) domain.Draft {
	template := prompts.Template(domain.PromptAutoReply)
	if template == "" {
		template = "Draft a professional and helpful reply to this email."
	}

	prompt := fmt.Sprintf(`%s

Original Email:
From: %s <%s>
Subject: %s

%s

Additional instruction: %s

Generate a reply with:
1. Subject line (start with "Re: " if replying)
2. Email body (professional tone, clear and concise)

Format your response as:
Subject: [subject line]

[email body]`,
		template, senderNameOr(email.SenderName), email.Sender, subjectOr(email.Subject), email.Body, instruction)

	now := time.Now()
	response, err := s.generator.GenerateText(ctx, prompt)
	if err != nil || response == "" {
		return domain.Draft{
			ID:              domain.NewDraftID(email.ID, now),
			OriginalEmailID: email.ID,
			To:              email.Sender,
			Subject:         "Re: " + subjectOr(email.Subject),
			Body:            "Failed to generate draft. Please try again.",
			CreatedAt:       now,
		}
	}

	subject := "Re: " + subjectOr(email.Subject)
	body := response

	// The model is asked to lead with a "Subject:" line; fall back to the
	// whole response as body when the label is missing.
	if strings.Contains(strings.ToLower(response), "subject:") {
		parts := strings.SplitN(response, "\n", 2)
		line := strings.TrimSpace(subjectLabelPattern.ReplaceAllString(parts[0], ""))
		if line != "" {
			subject = line
		}
		if len(parts) > 1 {
			body = strings.TrimSpace(parts[1])
		}
	}

	return domain.Draft{
		ID:              domain.NewDraftID(email.ID, now),
		OriginalEmailID: email.ID,
		To:              email.Sender,
		Subject:         subject,
		Body:            body,
		CreatedAt:       now,
		Metadata: domain.DraftMetadata{
			OriginalSender:  email.SenderName,
			OriginalSubject: email.Subject,
			Category:        categoryOr(email.Category),
		},
	}
}

func (s *Service) handleSummarize(ctx context.Context, req *in.ChatRequest, result *in.ChatResult) {
	if req.Email == nil {
		result.Response = "Please select an email first to summarize it."
		result.Success = true
		return
	}

	email := req.Email
	prompt := fmt.Sprintf(`Summarize this email in 2-3 sentences. Focus on the key points and any action items.

From: %s <%s>
Subject: %s

%s

Provide a brief, helpful summary:`,
		senderNameOr(email.SenderName), email.Sender, subjectOr(email.Subject), email.Body)

	response, err := s.generator.GenerateText(ctx, prompt)
	if err != nil || response == "" {
		response = "Unable to generate summary at this time."
	}

	result.Response = response
	result.Success = true
}

func (s *Service) handleTasks(req *in.ChatRequest, result *in.ChatResult) {
	switch {
	case req.Email != nil:
		items := req.Email.ActionItems
		if len(items) == 0 {
			result.Response = "No action items found in this email."
			break
		}
		lines := make([]string, 0, len(items))
		for _, item := range items {
			lines = append(lines, formatActionItem(item))
		}
		result.Response = "Here are the action items from this email:\n\n" + strings.Join(lines, "\n")

	case len(req.Emails) > 0:
		var lines []string
		for _, email := range req.Emails {
			for _, item := range email.ActionItems {
				lines = append(lines, fmt.Sprintf("• %s (from: %s)", item.Task, senderNameOr(email.SenderName)))
			}
		}
		if len(lines) == 0 {
			result.Response = "No action items found in your inbox."
			break
		}
		result.Response = fmt.Sprintf("Here are all action items from your inbox (%d total):\n\n%s",
			len(lines), strings.Join(lines, "\n"))

	default:
		result.Response = "No email context available. Please select an email or load your inbox."
	}

	result.Success = true
}

// formatActionItem renders one task bullet. The "none" deadline
// sentinel is suppressed; priority is uppercased in brackets.
func formatActionItem(item domain.ActionItem) string {
	line := "• " + item.Task
	if item.HasDeadline() {
		line += fmt.Sprintf(" (Deadline: %s)", item.Deadline)
	}
	if item.Priority != "" {
		line += fmt.Sprintf(" [%s]", strings.ToUpper(item.Priority))
	}
	return line
}

func (s *Service) handleFilter(queryLower string, req *in.ChatRequest, result *in.ChatResult) {
	if len(req.Emails) == 0 {
		result.Response = "No inbox data available."
		result.Success = true
		return
	}

	var category domain.Category
	switch {
	case strings.Contains(queryLower, "important"), strings.Contains(queryLower, "urgent"):
		category = domain.CategoryImportant
	case strings.Contains(queryLower, "spam"):
		category = domain.CategorySpam
	case strings.Contains(queryLower, "newsletter"):
		category = domain.CategoryNewsletter
	}

	var lines []string
	for _, email := range req.Emails {
		if email.Category != category {
			continue
		}
		lines = append(lines, fmt.Sprintf("• %s (from %s)", subjectOr(email.Subject), senderNameOr(email.SenderName)))
	}

	if len(lines) == 0 {
		result.Response = fmt.Sprintf("No %s emails found in your inbox.", category)
	} else {
		result.Response = fmt.Sprintf("Found %d %s email(s):\n\n%s", len(lines), category, strings.Join(lines, "\n"))
	}
	result.Success = true
}

func (s *Service) handleGeneral(ctx context.Context, req *in.ChatRequest, result *in.ChatResult) {
	var sb strings.Builder
	sb.WriteString("You are an email productivity assistant. Answer the user's question helpfully.\n\n")

	if req.Email != nil {
		sb.WriteString(fmt.Sprintf(`Selected Email:
From: %s
Subject: %s
Category: %s
Body: %s...

`,
			senderNameOr(req.Email.SenderName), subjectOr(req.Email.Subject),
			categoryOr(req.Email.Category), truncateText(req.Email.Body, 200)))
	}

	if len(req.Emails) > 0 {
		counts := make(map[domain.Category]int)
		for _, email := range req.Emails {
			counts[categoryOr(email.Category)]++
		}
		sb.WriteString(fmt.Sprintf("User has %d emails in their inbox.\n", len(req.Emails)))
		sb.WriteString(fmt.Sprintf("Categories breakdown: %v\n\n", counts))
	}

	sb.WriteString(fmt.Sprintf("User Question: %s\n\nProvide a helpful answer:", req.Query))

	response, err := s.generator.GenerateText(ctx, sb.String())
	if err != nil || response == "" {
		response = "I'm not sure how to help with that. Try asking about summarizing emails, viewing tasks, or drafting replies."
	}

	result.Response = response
	result.Success = true
}

func senderNameOr(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}

func subjectOr(subject string) string {
	if subject == "" {
		return "No subject"
	}
	return subject
}

func categoryOr(category domain.Category) domain.Category {
	if category == "" {
		return domain.CategoryUncategorized
	}
	return category
}

func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen]
}

var _ in.ChatService = (*Service)(nil)
