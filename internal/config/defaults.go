package config

import "time"

// DefaultConfig returns the built-in configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: Limits{
			MaxFileSize:     50 << 20, // 50 MiB
			MaxDownloadSize: 25 << 20, // 25 MiB
			FetchTimeout:    30 * time.Second,
			RequestTimeout:  10 * time.Minute,
		},
		Providers: ProviderConfigs{
			Gemini: ProviderConfig{
				RateLimit:      2.0,
				MaxRetries:     3,
				TimeoutSeconds: 120,
			},
			OpenAI: ProviderConfig{
				RateLimit:      8.0,
				MaxRetries:     3,
				TimeoutSeconds: 120,
			},
		},
		Artifacts: Artifacts{
			Dir: "", // OS temp dir
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}
