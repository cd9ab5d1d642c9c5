package providers

import (
	"strings"
	"time"
)

// Options carries per-provider settings used when building a client.
type Options struct {
	APIKey     string
	BaseURL    string
	RateLimit  float64
	MaxRetries int
	Timeout    int // seconds
}

// ForModel returns the client backing the given model identifier.
// Model families map onto providers by prefix; unknown families default
// to Gemini, the bridge's primary backend.
func ForModel(modelID string, gemini, openAI Options) Client {
	if isOpenAIModel(modelID) {
		return NewOpenAIClient(OpenAIConfig{
			APIKey:       openAI.APIKey,
			BaseURL:      openAI.BaseURL,
			DefaultModel: modelID,
			RateLimit:    openAI.RateLimit,
			MaxRetries:   openAI.MaxRetries,
			Timeout:      secondsToDuration(openAI.Timeout),
		})
	}
	return NewGeminiClient(GeminiConfig{
		APIKey:       gemini.APIKey,
		BaseURL:      gemini.BaseURL,
		DefaultModel: modelID,
		RateLimit:    gemini.RateLimit,
		MaxRetries:   gemini.MaxRetries,
		Timeout:      secondsToDuration(gemini.Timeout),
	})
}

func secondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

func isOpenAIModel(modelID string) bool {
	id := strings.ToLower(strings.TrimSpace(modelID))
	id = strings.TrimPrefix(id, "models/")
	if strings.HasPrefix(id, "gpt-") || strings.HasPrefix(id, "chatgpt-") {
		return true
	}
	// The o-series reasoning family: "o" followed by a digit (o1, o3-mini, ...).
	return len(id) >= 2 && id[0] == 'o' && id[1] >= '0' && id[1] <= '9'
}
