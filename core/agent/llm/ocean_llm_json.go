package llm

import (
	"fmt"
	"strings"

	"ocean_server/core/port/out"

	"github.com/goccy/go-json"
)

// CleanResponse strips whitespace and triple-backtick code-fence markers
// (with or without a json language tag) from a model response.
func CleanResponse(resp string) string {
	resp = strings.TrimSpace(resp)
	resp = strings.ReplaceAll(resp, "```json", "")
	resp = strings.ReplaceAll(resp, "```", "")
	return strings.TrimSpace(resp)
}

// DecodeRecords parses a model response as a JSON array of records.
// Non-JSON text and non-array values are a defined decoding failure,
// not silently empty: callers can tell "zero items" from "could not
// parse".
func DecodeRecords(text string) ([]json.RawMessage, error) {
	cleaned := CleanResponse(text)

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", out.ErrMalformedResponse, err)
	}

	return records, nil
}
