package in

import (
	"context"

	"ocean_server/core/domain"
)

// ChatRequest is a user query with optional email context.
type ChatRequest struct {
	Query   string              `json:"query"`
	Email   *domain.Email       `json:"email,omitempty"`
	Emails  []domain.Email      `json:"emails,omitempty"`
	Prompts domain.PromptConfig `json:"prompts,omitempty"`
}

// ChatResult is the outcome of a routed chat query. Draft is set only
// when a draft-generation intent produced one.
type ChatResult struct {
	Response string        `json:"response"`
	Draft    *domain.Draft `json:"draft,omitempty"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
}

// ChatService routes free-text queries about an inbox.
type ChatService interface {
	ProcessQuery(ctx context.Context, req *ChatRequest) *ChatResult
}
