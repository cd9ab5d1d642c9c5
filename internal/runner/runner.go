// Package runner drives one extraction request end to end: resolve the
// input text, invoke the engine, and shape the outcome into the JSON
// envelope the caller prints. All failures are caught at this boundary.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/langbridge/langbridge/internal/config"
	"github.com/langbridge/langbridge/internal/docext"
	"github.com/langbridge/langbridge/internal/extract"
	"github.com/langbridge/langbridge/internal/fetch"
	"github.com/langbridge/langbridge/internal/request"
	"github.com/langbridge/langbridge/internal/result"
)

// Mode selects the envelope dialect and input-resolution behavior.
type Mode int

const (
	// ModeInteractive reads requests from stdin, resolves file and URL
	// inputs, and reports camelCase metadata.
	ModeInteractive Mode = iota
	// ModeConfigFile reads requests from a config file, treats input as
	// literal text, and reports snake_case metadata.
	ModeConfigFile
)

// sentinelPrompt short-circuits the engine: the caller only wants the
// resolved text of a file.
const sentinelPrompt = "Extract text content"

// Options carries everything Run needs.
type Options struct {
	Mode      Mode
	Request   *request.Request
	Limits    config.Limits
	Engine    *extract.Engine
	Extractor *docext.Extractor
	Fetcher   *fetch.Fetcher
	// ArtifactsDir receives visualization files (interactive mode).
	ArtifactsDir string
	Logger       *slog.Logger
	// Start anchors the reported processing time. Zero means now.
	Start time.Time
}

// Outcome is the terminal result of one run.
type Outcome struct {
	// Envelope is ready for result.Encode.
	Envelope any
	// Failed reports whether Envelope is a failure envelope.
	// Interactive mode maps it to exit status 1.
	Failed bool
}

// Run executes one request. It never returns an error: every failure,
// panics included, becomes a failure envelope in the Outcome.
func Run(ctx context.Context, opts Options) (outcome Outcome) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now()
	}

	defer func() {
		if r := recover(); r != nil {
			err := kindErr(KindInternal, fmt.Errorf("unexpected failure: %v", r))
			opts.Logger.Error("run panicked", "panic", r)
			outcome = failureOutcome(opts.Mode, err)
		}
	}()

	envelope, err := run(ctx, opts)
	if err != nil {
		opts.Logger.Error("run failed", "kind", string(KindOf(err)), "error", err)
		return failureOutcome(opts.Mode, err)
	}
	return Outcome{Envelope: envelope}
}

func run(ctx context.Context, opts Options) (any, error) {
	req := opts.Request
	if req == nil {
		return nil, kindErr(KindRequest, fmt.Errorf("no request to process"))
	}

	text, source, err := resolveInput(ctx, opts)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, kindErr(source.kind(), fmt.Errorf("resolved input text is empty"))
	}

	if opts.Mode == ModeInteractive && source == sourceFile && req.PromptDescription == sentinelPrompt {
		return result.NewSentinel(text, time.Since(opts.Start)), nil
	}

	// The credential is an engine concern: text-only requests above never
	// need one. Config-file mode lets the provider call fail downstream.
	apiKey := extract.ResolveAPIKey(req.APIKey)
	if opts.Mode == ModeInteractive && apiKey == "" {
		return nil, kindErr(KindCredential, fmt.Errorf(
			"no API key provided: set LANGEXTRACT_API_KEY, GEMINI_API_KEY, or OPENAI_API_KEY, or pass apiKey in the request"))
	}

	if opts.Limits.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Limits.RequestTimeout)
		defer cancel()
	}

	task := extract.Task{
		Text:              text,
		PromptDescription: req.PromptDescription,
		Examples:          engineExamples(req.Examples),
		ModelID:           req.ModelID,
		APIKey:            apiKey,
		Passes:            req.ExtractionPasses,
		MaxWorkers:        req.MaxWorkers,
		MaxCharBuffer:     req.MaxCharBuffer,
	}

	res, err := opts.Engine.Extract(ctx, task)
	if err != nil {
		return nil, kindErr(KindEngine, fmt.Errorf("extraction processing failed: %w", err))
	}

	wire := result.Wire(res.Extractions)
	if opts.Mode == ModeConfigFile {
		return result.NewConfig(wire), nil
	}

	visPath := ""
	if len(wire) > 0 {
		visPath, err = result.WriteVisualization(opts.ArtifactsDir, text, wire)
		if err != nil {
			// The extractions themselves are intact; report them without
			// the artifact.
			opts.Logger.Warn("visualization artifact not written", "error", err)
			visPath = ""
		}
	}
	return result.NewInteractive(wire, len([]rune(text)), time.Since(opts.Start), visPath), nil
}

// inputSource records where the resolved text came from.
type inputSource int

const (
	sourceLiteral inputSource = iota
	sourceFile
	sourceURL
)

func (s inputSource) kind() Kind {
	switch s {
	case sourceFile:
		return KindFile
	case sourceURL:
		return KindURL
	default:
		return KindRequest
	}
}

// resolveInput turns the request into text. Config-file mode treats the
// input as literal; interactive mode resolves file paths and URLs.
func resolveInput(ctx context.Context, opts Options) (string, inputSource, error) {
	req := opts.Request
	if opts.Mode == ModeConfigFile {
		return req.InputText, sourceLiteral, nil
	}

	switch {
	case req.FilePath != "" && fileExists(req.FilePath):
		text, err := opts.Extractor.ExtractFile(req.FilePath)
		if err != nil {
			return "", sourceFile, kindErr(KindFile, fmt.Errorf("File processing failed: %w", err))
		}
		return text, sourceFile, nil
	case fetch.IsURL(strings.TrimSpace(req.InputText)):
		text, err := opts.Fetcher.ExtractText(ctx, strings.TrimSpace(req.InputText))
		if err != nil {
			return "", sourceURL, kindErr(KindURL, fmt.Errorf("URL processing failed: %w", err))
		}
		return text, sourceURL, nil
	default:
		return req.InputText, sourceLiteral, nil
	}
}

// fileExists gates the file branch: a path that is not there falls
// through to URL or literal-text resolution.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func engineExamples(examples []request.Example) []extract.Example {
	out := make([]extract.Example, 0, len(examples))
	for _, ex := range examples {
		converted := extract.Example{Text: ex.Text}
		for _, e := range ex.Extractions {
			converted.Extractions = append(converted.Extractions, extract.ExampleExtraction{
				Class:      e.Class,
				Text:       e.Text,
				Attributes: e.Attributes,
			})
		}
		out = append(out, converted)
	}
	return out
}

// Failure builds a failure outcome for errors caught before the
// pipeline starts, such as request decoding.
func Failure(mode Mode, kind Kind, err error) Outcome {
	return failureOutcome(mode, kindErr(kind, err))
}

// failureOutcome shapes err into the mode's failure envelope.
func failureOutcome(mode Mode, err error) Outcome {
	if mode == ModeConfigFile {
		return Outcome{
			Envelope: result.ConfigFailure{Success: false, Error: err.Error()},
			Failed:   true,
		}
	}
	return Outcome{
		Envelope: result.InteractiveFailure{
			Success:   false,
			Error:     err.Error(),
			Type:      string(KindOf(err)),
			Traceback: string(debug.Stack()),
		},
		Failed: true,
	}
}
