package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/langbridge/langbridge/internal/config"
	"github.com/langbridge/langbridge/internal/docext"
	"github.com/langbridge/langbridge/internal/extract"
	"github.com/langbridge/langbridge/internal/fetch"
	"github.com/langbridge/langbridge/internal/home"
	"github.com/langbridge/langbridge/internal/providers"
	"github.com/langbridge/langbridge/internal/request"
	"github.com/langbridge/langbridge/internal/result"
	"github.com/langbridge/langbridge/internal/runner"
)

// errRunFailed signals a failure envelope was already printed; the only
// job left is the non-zero exit status.
var errRunFailed = errors.New("extraction run failed")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one extraction request read as JSON from stdin",
	Long: `Run one extraction request.

The request is read as a JSON object from stdin:

  {
    "inputText": "...",               // literal text or a URL
    "filePath": "/path/to/doc.pdf",   // takes precedence over inputText
    "promptDescription": "Extract people and their roles",
    "examples": [{"text": "...", "extractions": [...]}],
    "modelId": "gemini-2.5-flash",
    "apiKey": "...",                  // optional, env fallback applies
    "extractionPasses": 1,
    "maxWorkers": 5,
    "maxCharBuffer": 10000
  }

The result envelope is printed to stdout as a single JSON line. On
failure the envelope carries "success": false and the process exits 1.

Examples:
  echo "$REQUEST_JSON" | langbridge run
  langbridge run < request.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.Log)

		var outcome runner.Outcome
		req, err := request.DecodeInteractive(cmd.InOrStdin())
		if err != nil {
			logger.Error("request decoding failed", "error", err)
			outcome = runner.Failure(runner.ModeInteractive, runner.KindRequest,
				fmt.Errorf("invalid request: %w", err))
		} else {
			opts := pipelineOptions(cfg, logger, req, start)
			outcome = runner.Run(cmd.Context(), opts)
		}

		if err := result.Encode(cmd.OutOrStdout(), outcome.Envelope); err != nil {
			return err
		}
		if outcome.Failed {
			return errRunFailed
		}
		return nil
	},
}

// pipelineOptions wires the configured pipeline for one run.
func pipelineOptions(cfg *config.Config, logger *slog.Logger, req *request.Request, start time.Time) runner.Options {
	extractor := docext.New(cfg.Limits.MaxFileSize, logger)

	return runner.Options{
		Mode:      runner.ModeInteractive,
		Request:   req,
		Limits:    cfg.Limits,
		Extractor: extractor,
		Fetcher: fetch.New(fetch.Config{
			Timeout:         cfg.Limits.FetchTimeout,
			MaxDownloadSize: cfg.Limits.MaxDownloadSize,
			Extractor:       extractor,
			Logger:          logger,
		}),
		Engine: extract.New(extract.Config{
			Gemini: providerOptions(cfg.Providers.Gemini),
			OpenAI: providerOptions(cfg.Providers.OpenAI),
			Logger: logger,
		}),
		ArtifactsDir: artifactsDir(cfg),
		Logger:       logger,
		Start:        start,
	}
}

func providerOptions(pc config.ProviderConfig) providers.Options {
	return providers.Options{
		APIKey:     config.ResolveEnvVars(pc.APIKey),
		BaseURL:    pc.BaseURL,
		RateLimit:  pc.RateLimit,
		MaxRetries: pc.MaxRetries,
		Timeout:    pc.TimeoutSeconds,
	}
}

// artifactsDir picks where visualization files go: explicit config,
// then the home directory, then the OS temp dir (empty string).
func artifactsDir(cfg *config.Config) string {
	if cfg.Artifacts.Dir != "" {
		return cfg.Artifacts.Dir
	}
	h, err := home.New(homeDir)
	if err != nil {
		return ""
	}
	return h.ArtifactsPath()
}

func init() {
	rootCmd.AddCommand(runCmd)
}
