// Package providers implements LLM client backends for the extraction engine.
package providers

import (
	"context"
	"time"
)

// Client is the interface for a single structured-generation backend.
type Client interface {
	// Generate sends one prompt and returns the model's response.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)

	// Name returns the client identifier (e.g. "gemini", "openai").
	Name() string
}

// GenerateRequest is a request for one model completion.
type GenerateRequest struct {
	// Model overrides the client default when set.
	Model string

	System string
	User   string

	// JSONMode asks the model to emit a single JSON value.
	JSONMode bool

	MaxOutputTokens int
	Temperature     float64

	// RequestID is generated when empty.
	RequestID string
}

// GenerateResult is the response from one model completion.
type GenerateResult struct {
	Content string

	PromptTokens     int
	CompletionTokens int

	Provider  string
	ModelUsed string
	RequestID string
	Latency   time.Duration
}
