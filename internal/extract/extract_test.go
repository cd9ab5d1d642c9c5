package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/langbridge/langbridge/internal/providers"
)

func TestExtractSingleChunk(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseText = `{"extractions": [{"extraction_class": "person", "extraction_text": "Ada", "attributes": {"role": "pioneer"}}]}`
	engine := NewWithClient(mock, nil)

	result, err := engine.Extract(context.Background(), Task{
		Text:              "Ada wrote the first program.",
		PromptDescription: "Extract people",
		ModelID:           "gemini-2.5-flash",
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(result.Extractions) != 1 {
		t.Fatalf("expected 1 extraction, got %d", len(result.Extractions))
	}

	ext := result.Extractions[0]
	if ext.Class != "person" || ext.Text != "Ada" {
		t.Errorf("unexpected extraction: %+v", ext)
	}
	if ext.Start == nil || *ext.Start != 0 {
		t.Errorf("start = %v, want 0", ext.Start)
	}
	if ext.End == nil || *ext.End != 3 {
		t.Errorf("end = %v, want 3", ext.End)
	}
	if mock.RequestCount() != 1 {
		t.Errorf("request count = %d, want 1", mock.RequestCount())
	}
}

func TestExtractChunkedOffsetsAbsolute(t *testing.T) {
	// Force two chunks and have the mock report the same span for each;
	// offsets must be absolute, not chunk-relative.
	text := strings.Repeat("a", 40) + " target " + strings.Repeat("b", 40) + " target " + strings.Repeat("c", 20)
	mock := providers.NewMockClient()
	mock.ResponseText = `{"extractions": [{"extraction_class": "hit", "extraction_text": "target"}]}`
	engine := NewWithClient(mock, nil)

	result, err := engine.Extract(context.Background(), Task{
		Text:          text,
		ModelID:       "gemini-2.5-flash",
		MaxCharBuffer: 60,
		MaxWorkers:    1,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(result.Extractions) != 2 {
		t.Fatalf("expected 2 extractions, got %d", len(result.Extractions))
	}

	runes := []rune(text)
	for i, ext := range result.Extractions {
		if ext.Start == nil || ext.End == nil {
			t.Fatalf("extraction %d missing offsets", i)
		}
		got := string(runes[*ext.Start:*ext.End])
		if got != "target" {
			t.Errorf("extraction %d offsets [%d,%d) point at %q", i, *ext.Start, *ext.End, got)
		}
	}
	if *result.Extractions[0].Start == *result.Extractions[1].Start {
		t.Error("both extractions report the same absolute start")
	}
}

func TestExtractMultiPassDedupes(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseText = `{"extractions": [{"extraction_class": "person", "extraction_text": "Ada"}]}`
	engine := NewWithClient(mock, nil)

	result, err := engine.Extract(context.Background(), Task{
		Text:    "Ada",
		ModelID: "gemini-2.5-flash",
		Passes:  3,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(result.Extractions) != 1 {
		t.Errorf("duplicate extractions across passes should merge to 1, got %d", len(result.Extractions))
	}
	if mock.RequestCount() != 3 {
		t.Errorf("request count = %d, want 3 (one per pass)", mock.RequestCount())
	}
}

func TestExtractSecondPassAddsNewSpans(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Responses = []string{
		`{"extractions": [{"extraction_class": "person", "extraction_text": "Ada"}]}`,
		`{"extractions": [{"extraction_class": "person", "extraction_text": "Ada"}, {"extraction_class": "person", "extraction_text": "Grace"}]}`,
	}
	engine := NewWithClient(mock, nil)

	result, err := engine.Extract(context.Background(), Task{
		Text:    "Ada and Grace",
		ModelID: "gemini-2.5-flash",
		Passes:  2,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(result.Extractions) != 2 {
		t.Fatalf("expected 2 extractions after merge, got %d", len(result.Extractions))
	}
	if result.Extractions[1].Text != "Grace" {
		t.Errorf("second extraction = %q, want Grace", result.Extractions[1].Text)
	}
}

func TestExtractPropagatesModelFailure(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ShouldFail = true
	engine := NewWithClient(mock, nil)

	_, err := engine.Extract(context.Background(), Task{
		Text:    "anything",
		ModelID: "gemini-2.5-flash",
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "model call failed") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExtractRejectsUnusableOutput(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseText = "I cannot help with that."
	engine := NewWithClient(mock, nil)

	_, err := engine.Extract(context.Background(), Task{
		Text:    "anything",
		ModelID: "gemini-2.5-flash",
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "unusable output") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExtractCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := providers.NewMockClient()
	engine := NewWithClient(mock, nil)

	_, err := engine.Extract(ctx, Task{Text: "anything", ModelID: "gemini-2.5-flash"})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if !errors.Is(err, context.Canceled) && !strings.Contains(err.Error(), "cancel") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestResolveAPIKey(t *testing.T) {
	clear := func(t *testing.T) {
		for _, name := range apiKeyEnvVars {
			t.Setenv(name, "")
		}
	}

	t.Run("explicit wins", func(t *testing.T) {
		clear(t)
		t.Setenv("GEMINI_API_KEY", "env-key")
		if got := ResolveAPIKey("explicit"); got != "explicit" {
			t.Errorf("got %q, want explicit", got)
		}
	})

	t.Run("chain order", func(t *testing.T) {
		clear(t)
		t.Setenv("GEMINI_API_KEY", "gemini")
		t.Setenv("OPENAI_API_KEY", "openai")
		if got := ResolveAPIKey(""); got != "gemini" {
			t.Errorf("got %q, want gemini", got)
		}

		t.Setenv("LANGEXTRACT_API_KEY", "lx")
		if got := ResolveAPIKey(""); got != "lx" {
			t.Errorf("got %q, want lx", got)
		}
	})

	t.Run("empty chain", func(t *testing.T) {
		clear(t)
		if got := ResolveAPIKey(""); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})
}
