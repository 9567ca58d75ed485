package chat

import "strings"

// IntentType classifies what the user is asking for.
type IntentType string

const (
	IntentDraft     IntentType = "draft"
	IntentSummarize IntentType = "summarize"
	IntentTasks     IntentType = "tasks"
	IntentFilter    IntentType = "filter"
	IntentGeneral   IntentType = "general"
)

var (
	draftKeywords     = []string{"draft", "reply", "respond", "write back", "compose", "generate reply"}
	summarizeKeywords = []string{"summarize", "summary", "tldr", "brief"}
	taskKeywords      = []string{"what tasks", "show tasks", "list tasks", "action items", "to-do", "need to do", "what do i need"}
	showKeywords      = []string{"show", "list", "get", "find", "display", "give me", "get me"}
	categoryKeywords  = []string{"urgent", "important", "spam", "newsletter"}
)

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// DetectIntent matches keywords against the lowercased query in a fixed
// priority order; the first matching intent wins. The filter intent
// needs both a show-style keyword and a category keyword at once.
func DetectIntent(queryLower string) IntentType {
	switch {
	case containsAny(queryLower, draftKeywords):
		return IntentDraft
	case containsAny(queryLower, summarizeKeywords):
		return IntentSummarize
	case containsAny(queryLower, taskKeywords):
		return IntentTasks
	case containsAny(queryLower, showKeywords) && containsAny(queryLower, categoryKeywords):
		return IntentFilter
	default:
		return IntentGeneral
	}
}
