package in

import (
	"context"

	"ocean_server/core/domain"
)

// EmailProcessor runs the batch categorization/extraction pipeline.
type EmailProcessor interface {
	// ProcessBatch categorizes every email and extracts action items from
	// the actionable subset, using at most two generation calls total.
	ProcessBatch(ctx context.Context, emails []domain.Email, prompts domain.PromptConfig) *domain.BatchResult
}
