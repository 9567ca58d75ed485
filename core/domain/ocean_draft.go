package domain

import (
	"fmt"
	"time"
)

// DraftMetadata carries context about the email a draft replies to.
type DraftMetadata struct {
	OriginalSender  string   `json:"originalSender,omitempty"`
	OriginalSubject string   `json:"originalSubject,omitempty"`
	Category        Category `json:"category,omitempty"`
}

// Draft is a generated reply artifact tied to an originating email.
// It is persisted by the draft store for later editing/sending.
type Draft struct {
	ID              string        `json:"id"`
	OriginalEmailID string        `json:"originalEmailId,omitempty"`
	To              string        `json:"to,omitempty"`
	Subject         string        `json:"subject"`
	Body            string        `json:"body"`
	CreatedAt       time.Time     `json:"createdAt"`
	Metadata        DraftMetadata `json:"metadata"`
}

// NewDraftID builds a time-based unique draft identifier.
func NewDraftID(emailID string, now time.Time) string {
	return fmt.Sprintf("draft-%s-%d", emailID, now.UnixMilli())
}
