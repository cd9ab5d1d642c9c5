package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/langbridge/langbridge/internal/cliout"
	"github.com/langbridge/langbridge/internal/config"
	"github.com/langbridge/langbridge/version"
)

var (
	cfgFile      string
	homeDir      string
	logLevel     string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "langbridge",
	Short: "Bridge between JSON extraction requests and LLM-powered extraction",
	Long: `Langbridge turns JSON extraction requests into structured extractions
backed by LLM providers.

A request names a model, a task description, and few-shot examples; the
input can be literal text, a local document (PDF, DOCX, XLSX, PPTX, HTML,
and more), or a URL. The result is a single JSON envelope on stdout, so
the binary slots into any pipeline that can speak JSON over stdio.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./langbridge.yaml or ~/.langbridge/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "langbridge home directory (default: ~/.langbridge)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn, or error (overrides config)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format for informational commands: yaml or json",
	)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// .env files are a convenience for local API keys; absence is fine.
		_ = godotenv.Load()
		cliout.SetFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the effective configuration for a command run.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// newLogger builds the process logger. It writes to stderr so envelope
// output on stdout stays parseable.
func newLogger(cfg config.Log) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
