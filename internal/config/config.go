package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/spf13/viper"

	"github.com/langbridge/langbridge/internal/home"
)

// Config holds all application settings.
type Config struct {
	Limits    Limits          `mapstructure:"limits"`
	Providers ProviderConfigs `mapstructure:"providers"`
	Artifacts Artifacts       `mapstructure:"artifacts"`
	Log       Log             `mapstructure:"log"`
}

// Limits makes resource ceilings explicit configuration rather than
// implicit absence. They apply to attacker-controlled input: local files
// and remote URL bodies.
type Limits struct {
	MaxFileSize     int64         `mapstructure:"max_file_size"`     // bytes
	MaxDownloadSize int64         `mapstructure:"max_download_size"` // bytes
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

// ProviderConfigs holds per-provider client settings.
type ProviderConfigs struct {
	Gemini ProviderConfig `mapstructure:"gemini"`
	OpenAI ProviderConfig `mapstructure:"openai"`
}

// ProviderConfig configures a single LLM provider client.
type ProviderConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	APIKey         string  `mapstructure:"api_key"` // supports ${ENV_VAR} references
	RateLimit      float64 `mapstructure:"rate_limit"`
	MaxRetries     int     `mapstructure:"max_retries"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// Artifacts configures where run artifacts (visualization files) are written.
type Artifacts struct {
	Dir string `mapstructure:"dir"` // empty means the OS temp directory
}

// Log configures the slog handler.
type Log struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text or json
}

// Load reads configuration from defaults, an optional config file, and
// LANGBRIDGE_-prefixed environment variables, in increasing precedence.
// cfgFile may be empty, in which case the standard search paths apply.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("limits", defaults.Limits)
	v.SetDefault("providers", defaults.Providers)
	v.SetDefault("artifacts", defaults.Artifacts)
	v.SetDefault("log", defaults.Log)

	v.SetEnvPrefix("LANGBRIDGE")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("langbridge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Config file is optional.
	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No ./langbridge.yaml; fall back to the home directory config.
		if h, herr := home.New(""); herr == nil && h.ConfigExists() {
			v.SetConfigFile(h.ConfigPath())
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", h.ConfigPath(), err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Providers.Gemini.APIKey = ResolveEnvVars(cfg.Providers.Gemini.APIKey)
	cfg.Providers.OpenAI.APIKey = ResolveEnvVars(cfg.Providers.OpenAI.APIKey)

	return &cfg, nil
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}
