package out

import (
	"context"
	"errors"

	"github.com/goccy/go-json"
)

// ErrMalformedResponse marks model output that could not be decoded as a
// JSON array. Distinct from a legitimately empty result.
var ErrMalformedResponse = errors.New("malformed model response")

// TextGenerator is the remote text-generation collaborator. The mock
// generator implements the same contract for offline operation.
type TextGenerator interface {
	// GenerateText returns a text completion for the prompt. Failures are
	// retried internally; after exhaustion the last error is returned.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// GenerateJSON returns the array-shaped records extracted from the
	// model's response. An absent completion yields (nil, nil); output
	// that is not a JSON array yields (nil, ErrMalformedResponse).
	GenerateJSON(ctx context.Context, prompt string) ([]json.RawMessage, error)
}
