package extract

import "os"

// apiKeyEnvVars is the environment fallback chain for credentials, in
// priority order.
var apiKeyEnvVars = []string{
	"LANGEXTRACT_API_KEY",
	"GEMINI_API_KEY",
	"OPENAI_API_KEY",
}

// ResolveAPIKey returns the explicit key when set, otherwise the first
// non-empty key from the environment chain, otherwise "".
func ResolveAPIKey(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range apiKeyEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
