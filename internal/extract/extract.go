// Package extract implements few-shot structured extraction over LLM backends.
//
// The engine exposes one entry point: give it text, a task description,
// examples, and a model identifier, and it returns labeled spans. Text is
// chunked to fit the model's character buffer, chunks are processed by a
// small worker pool, and the whole sweep can repeat for additional
// recall-oriented passes.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/langbridge/langbridge/internal/providers"
)

// Defaults for tuning knobs left unset on a Task.
const (
	DefaultPasses     = 1
	DefaultWorkers    = 5
	DefaultCharBuffer = 10000
)

// Task is one extraction request to the engine.
type Task struct {
	Text              string
	PromptDescription string
	Examples          []Example
	ModelID           string
	APIKey            string

	Passes        int
	MaxWorkers    int
	MaxCharBuffer int
}

// Example is a few-shot (text, extractions) pair.
type Example struct {
	Text        string
	Extractions []ExampleExtraction
}

// ExampleExtraction is one labeled span within an example.
type ExampleExtraction struct {
	Class      string
	Text       string
	Attributes map[string]any
}

// Extraction is a labeled span produced by the engine.
// Offsets are rune positions within the task text; nil when the span
// could not be located. Confidence is nil unless the model reported one.
type Extraction struct {
	Class      string
	Text       string
	Attributes map[string]any
	Start      *int
	End        *int
	Confidence *float64
}

// Result is the engine's output for one task.
type Result struct {
	Extractions []Extraction
}

// Engine runs extraction tasks against LLM provider backends.
type Engine struct {
	gemini providers.Options
	openAI providers.Options
	logger *slog.Logger

	// client overrides provider selection when set (tests).
	client providers.Client
}

// Config configures an Engine.
type Config struct {
	Gemini providers.Options
	OpenAI providers.Options
	Logger *slog.Logger
}

// New creates an Engine.
func New(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Engine{
		gemini: cfg.Gemini,
		openAI: cfg.OpenAI,
		logger: cfg.Logger,
	}
}

// NewWithClient creates an Engine bound to a fixed client.
func NewWithClient(client providers.Client, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{client: client, logger: logger}
}

// Extract runs one task and returns its extractions.
func (e *Engine) Extract(ctx context.Context, task Task) (*Result, error) {
	if task.Passes <= 0 {
		task.Passes = DefaultPasses
	}
	if task.MaxWorkers <= 0 {
		task.MaxWorkers = DefaultWorkers
	}
	if task.MaxCharBuffer <= 0 {
		task.MaxCharBuffer = DefaultCharBuffer
	}

	client := e.client
	if client == nil {
		gemini := e.gemini
		openAI := e.openAI
		// The resolved task credential wins over configured provider keys.
		if task.APIKey != "" {
			gemini.APIKey = task.APIKey
			openAI.APIKey = task.APIKey
		}
		client = providers.ForModel(task.ModelID, gemini, openAI)
	}

	chunks := splitText(task.Text, task.MaxCharBuffer)
	e.logger.Debug("extract.start",
		"model", task.ModelID,
		"chunks", len(chunks),
		"passes", task.Passes,
		"workers", task.MaxWorkers,
		"input_chars", len([]rune(task.Text)),
	)

	var merged []Extraction
	seen := make(map[string]struct{})

	for pass := 1; pass <= task.Passes; pass++ {
		passResults, err := e.runPass(ctx, client, task, chunks)
		if err != nil {
			return nil, err
		}
		for _, ext := range passResults {
			key := dedupeKey(ext)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, ext)
		}
	}

	e.logger.Debug("extract.done", "model", task.ModelID, "extractions", len(merged))
	return &Result{Extractions: merged}, nil
}

// runPass sweeps all chunks once, reassembling results in chunk order.
func (e *Engine) runPass(ctx context.Context, client providers.Client, task Task, chunks []chunk) ([]Extraction, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := task.MaxWorkers
	if workers > len(chunks) {
		workers = len(chunks)
	}

	jobs := make(chan int)
	perChunk := make([][]Extraction, len(chunks))
	errs := make(chan error, workers)
	done := make(chan struct{}, workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for idx := range jobs {
				exts, err := e.extractChunk(ctx, client, task, chunks[idx])
				if err != nil {
					errs <- err
					cancel()
					return
				}
				perChunk[idx] = exts
			}
		}()
	}

feed:
	for i := range chunks {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	for w := 0; w < workers; w++ {
		<-done
	}

	select {
	case err := <-errs:
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []Extraction
	for _, exts := range perChunk {
		all = append(all, exts...)
	}
	return all, nil
}

// extractChunk runs one model call for one chunk and aligns offsets.
func (e *Engine) extractChunk(ctx context.Context, client providers.Client, task Task, ch chunk) ([]Extraction, error) {
	req := &providers.GenerateRequest{
		Model:    task.ModelID,
		System:   buildSystemPrompt(task.PromptDescription),
		User:     buildUserPrompt(task.Examples, ch.text),
		JSONMode: true,
	}

	result, err := client.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	e.logger.Debug("extract.call",
		"request_id", result.RequestID,
		"provider", result.Provider,
		"model", result.ModelUsed,
		"latency_ms", result.Latency.Milliseconds(),
		"prompt_tokens", result.PromptTokens,
		"completion_tokens", result.CompletionTokens,
	)

	raws, err := parseResponse(result.Content)
	if err != nil {
		return nil, fmt.Errorf("model returned unusable output: %w", err)
	}

	return alignExtractions(raws, ch), nil
}

func dedupeKey(ext Extraction) string {
	start := "-"
	if ext.Start != nil {
		start = strconv.Itoa(*ext.Start)
	}
	return ext.Class + "\x00" + ext.Text + "\x00" + start
}
