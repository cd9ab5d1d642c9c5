package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
)

const (
	GeminiName         = "gemini"
	GeminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	GeminiDefaultModel = "gemini-2.5-flash"
)

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration
	RateLimit    float64 // requests per second
	MaxRetries   int
	RetryDelay   time.Duration
	HTTPClient   *http.Client // optional (tests)
}

// GeminiClient implements Client against the Gemini generateContent API.
type GeminiClient struct {
	apiKey       string
	baseURL      string
	defaultModel string
	maxRetries   int
	retryDelay   time.Duration
	client       *http.Client
	limiter      *RateLimiter
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = GeminiBaseURL
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = GeminiDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 2.0
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &GeminiClient{
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		defaultModel: cfg.DefaultModel,
		maxRetries:   cfg.MaxRetries,
		retryDelay:   cfg.RetryDelay,
		client:       client,
		limiter:      NewRateLimiter(cfg.RateLimit),
	}
}

// Name returns the client identifier.
func (c *GeminiClient) Name() string {
	return GeminiName
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	MaxOutputTokens  int      `json:"maxOutputTokens,omitempty"`
	ResponseMIMEType string   `json:"responseMimeType,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends one generateContent request.
func (c *GeminiClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	// Accept fully-qualified "models/<id>" identifiers without doubling
	// the path segment in the request URL.
	model = strings.TrimPrefix(model, "models/")

	body := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.User}}},
		},
	}
	if req.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	genCfg := &geminiGenerationConfig{MaxOutputTokens: req.MaxOutputTokens}
	if req.JSONMode {
		genCfg.ResponseMIMEType = "application/json"
	}
	if req.Temperature > 0 {
		t := req.Temperature
		genCfg.Temperature = &t
	}
	body.GenerationConfig = genCfg

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var gr geminiResponse
	err := retry.Do(
		func() error {
			return c.doRequest(ctx, model, &body, &gr)
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.MaxJitter(500*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}

	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var content string
	for _, p := range gr.Candidates[0].Content.Parts {
		content += p.Text
	}

	return &GenerateResult{
		Content:          content,
		PromptTokens:     gr.UsageMetadata.PromptTokenCount,
		CompletionTokens: gr.UsageMetadata.CandidatesTokenCount,
		Provider:         GeminiName,
		ModelUsed:        model,
		RequestID:        requestID,
		Latency:          time.Since(start),
	}, nil
}

func (c *GeminiClient) doRequest(ctx context.Context, model string, body *geminiRequest, out *geminiResponse) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("failed to marshal request: %w", err))
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := fmt.Errorf("gemini error (status %d): %s", resp.StatusCode, string(respBody))
		if retryableStatus(resp.StatusCode) {
			return apiErr
		}
		return retry.Unrecoverable(apiErr)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return retry.Unrecoverable(fmt.Errorf("failed to unmarshal response: %w", err))
	}
	if out.Error != nil {
		return retry.Unrecoverable(fmt.Errorf("gemini error: %s", out.Error.Message))
	}
	return nil
}

// retryableStatus returns true for status codes worth retrying.
func retryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests:
		return true
	default:
		return statusCode >= 500
	}
}
