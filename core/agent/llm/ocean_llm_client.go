// Package llm provides the text-generation client and its offline mock.
package llm

import (
	"context"
	"time"

	"ocean_server/core/port/out"
	"ocean_server/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultModel      = "gpt-4o-mini"
	DefaultMaxRetries = 3
)

// ClientConfig holds the explicit configuration for the remote client.
// Credentials are injected here, never read from the environment inside
// call paths.
type ClientConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	MaxRetries  int
}

// Client wraps the remote chat-completion API with retry-with-backoff
// and a circuit breaker.
type Client struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	maxRetries  int
	cb          *gobreaker.CircuitBreaker
}

// NewClient creates a remote generation client.
func NewClient(cfg ClientConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	cbSettings := gobreaker.Settings{
		Name:        "llm-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker %s: state changed from %s to %s", name, from.String(), to.String())
		},
	}

	return &Client{
		client:      openai.NewClient(cfg.APIKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: float32(temperature),
		maxRetries:  maxRetries,
		cb:          gobreaker.NewCircuitBreaker(cbSettings),
	}
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   c.maxTokens,
			Temperature: c.temperature,
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", nil
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// GenerateText returns a completion for the prompt, retrying failed
// calls with exponential backoff (1s, 2s, 4s, ... between attempts).
// The retry sleep is a plain blocking sleep. After exhausting retries
// the last error is returned.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		text, err := c.complete(ctx, prompt)
		if err == nil {
			return text, nil
		}

		lastErr = err
		logger.WithError(err).Warn("Generation attempt %d/%d failed", attempt+1, c.maxRetries)
	}

	logger.WithError(lastErr).Error("All generation attempts failed")
	return "", lastErr
}

// GenerateJSON extracts an array of records from the model's response.
// A failed or empty completion yields no records and no error (the
// failure is already logged and retried inside GenerateText); output
// that cannot be decoded as a JSON array yields ErrMalformedResponse.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) ([]json.RawMessage, error) {
	text, err := c.GenerateText(ctx, prompt)
	if err != nil || text == "" {
		return nil, nil
	}
	return DecodeRecords(text)
}

var _ out.TextGenerator = (*Client)(nil)
