package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/langbridge/langbridge/internal/request"
	"github.com/langbridge/langbridge/internal/result"
	"github.com/langbridge/langbridge/internal/runner"
)

var runFilePath string

var runFileCmd = &cobra.Command{
	Use:   "run-file",
	Short: "Run one extraction request read from a JSON config file",
	Long: `Run one extraction request described by a JSON config file.

The file uses snake_case keys and carries the input as literal text;
file paths and URLs are not resolved in this mode:

  {
    "text": "...",
    "prompt_description": "Extract people and their roles",
    "examples": [{"text": "...", "extractions": [...]}],
    "model_id": "gemini-2.5-flash",
    "api_key": "...",                 // optional, env fallback applies
    "extraction_passes": 1,
    "max_workers": 5,
    "max_char_buffer": 10000
  }

The result envelope is printed to stdout as a single JSON line. This
mode always exits 0; callers must check the envelope's "success" field.

Examples:
  langbridge run-file --config request.json`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.Log)

		var outcome runner.Outcome
		data, err := os.ReadFile(runFilePath)
		if err != nil {
			logger.Error("config file unreadable", "path", runFilePath, "error", err)
			outcome = runner.Failure(runner.ModeConfigFile, runner.KindRequest,
				fmt.Errorf("failed to read config file: %w", err))
		} else if req, decodeErr := request.DecodeConfigFile(data); decodeErr != nil {
			logger.Error("request decoding failed", "error", decodeErr)
			outcome = runner.Failure(runner.ModeConfigFile, runner.KindRequest,
				fmt.Errorf("invalid config file: %w", decodeErr))
		} else {
			opts := pipelineOptions(cfg, logger, req, start)
			opts.Mode = runner.ModeConfigFile
			outcome = runner.Run(cmd.Context(), opts)
		}

		// Success and failure alike exit 0 in this mode.
		return result.Encode(cmd.OutOrStdout(), outcome.Envelope)
	},
}

func init() {
	runFileCmd.Flags().StringVar(&runFilePath, "config", "", "path to the request config file (required)")
	_ = runFileCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(runFileCmd)
}
