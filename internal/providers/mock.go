package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is a Client for testing.
type MockClient struct {
	// Configurable behavior
	Latency    time.Duration
	ShouldFail bool
	FailAfter  int // fail after N requests (0 = never)

	// Responses are returned in order; the last one repeats.
	// When empty, ResponseText is returned.
	Responses    []string
	ResponseText string

	requestCount atomic.Int64
}

// NewMockClient creates a mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: `{"extractions": []}`,
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// RequestCount returns the number of Generate calls made.
func (c *MockClient) RequestCount() int {
	return int(c.requestCount.Load())
}

// Generate returns the next scripted response.
func (c *MockClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	count := c.requestCount.Add(1)

	if c.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Latency):
		}
	}

	if c.ShouldFail || (c.FailAfter > 0 && count > int64(c.FailAfter)) {
		return nil, fmt.Errorf("mock failure on request %d", count)
	}

	content := c.ResponseText
	if len(c.Responses) > 0 {
		idx := int(count - 1)
		if idx >= len(c.Responses) {
			idx = len(c.Responses) - 1
		}
		content = c.Responses[idx]
	}

	return &GenerateResult{
		Content:   content,
		Provider:  MockClientName,
		ModelUsed: req.Model,
		RequestID: fmt.Sprintf("mock-%d", count),
	}, nil
}
