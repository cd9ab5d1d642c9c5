// Package result shapes extraction output into the JSON envelopes the
// runner prints on stdout.
package result

import (
	"encoding/json"
	"io"
	"time"

	"github.com/langbridge/langbridge/internal/extract"
)

// ConfidencePolicy controls how missing confidence values affect the
// reported average.
type ConfidencePolicy int

const (
	// PolicySkipMissing averages only extractions that report a
	// confidence. No reported values means 0.
	PolicySkipMissing ConfidencePolicy = iota
	// PolicyDefaultOne substitutes 1.0 for missing values before
	// averaging. No extractions at all means 0.
	PolicyDefaultOne
)

// WireExtraction is the stdout shape of one extraction. Both envelope
// dialects share it. Unlocated spans and unreported confidences encode
// as null.
type WireExtraction struct {
	Class      string         `json:"extraction_class"`
	Text       string         `json:"extraction_text"`
	Attributes map[string]any `json:"attributes"`
	Start      *int           `json:"position_start"`
	End        *int           `json:"position_end"`
	Confidence *float64       `json:"confidence"`
}

// InteractiveMetadata is the camelCase metadata block of the
// interactive-mode success envelope.
type InteractiveMetadata struct {
	TotalExtractions  int     `json:"totalExtractions"`
	UniqueClasses     int     `json:"uniqueClasses"`
	ProcessingTime    float64 `json:"processingTime"`
	InputLength       int     `json:"inputLength"`
	AverageConfidence float64 `json:"averageConfidence"`
}

// InteractiveEnvelope is the interactive-mode success envelope.
type InteractiveEnvelope struct {
	Success           bool                `json:"success"`
	Extractions       []WireExtraction    `json:"extractions"`
	Metadata          InteractiveMetadata `json:"metadata"`
	VisualizationFile string              `json:"visualization_file,omitempty"`
}

// ConfigMetadata is the snake_case metadata block of the config-file
// success envelope.
type ConfigMetadata struct {
	TotalExtractions  int     `json:"total_extractions"`
	UniqueClasses     int     `json:"unique_classes"`
	AverageConfidence float64 `json:"average_confidence"`
}

// ConfigEnvelope is the config-file-mode success envelope.
type ConfigEnvelope struct {
	Success     bool             `json:"success"`
	Extractions []WireExtraction `json:"extractions"`
	Metadata    ConfigMetadata   `json:"metadata"`
}

// SentinelEnvelope is emitted when a plain text-extraction prompt
// short-circuits the engine: the resolved text is the whole answer.
type SentinelEnvelope struct {
	Success       bool             `json:"success"`
	ExtractedText string           `json:"extractedText"`
	Metadata      SentinelMetadata `json:"metadata"`
}

// SentinelMetadata accompanies a SentinelEnvelope.
type SentinelMetadata struct {
	InputLength    int     `json:"inputLength"`
	ProcessingTime float64 `json:"processingTime"`
}

// InteractiveFailure is the interactive-mode failure envelope.
type InteractiveFailure struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Type      string `json:"type"`
	Traceback string `json:"traceback"`
}

// ConfigFailure is the config-file-mode failure envelope.
type ConfigFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Wire converts engine extractions to their stdout shape. The result is
// never nil so empty sets encode as [].
func Wire(exts []extract.Extraction) []WireExtraction {
	wire := make([]WireExtraction, 0, len(exts))
	for _, e := range exts {
		attrs := e.Attributes
		if attrs == nil {
			attrs = map[string]any{}
		}
		wire = append(wire, WireExtraction{
			Class:      e.Class,
			Text:       e.Text,
			Attributes: attrs,
			Start:      e.Start,
			End:        e.End,
			Confidence: e.Confidence,
		})
	}
	return wire
}

// AverageConfidence computes the mean confidence under the given policy.
func AverageConfidence(exts []WireExtraction, policy ConfidencePolicy) float64 {
	if len(exts) == 0 {
		return 0
	}
	switch policy {
	case PolicyDefaultOne:
		sum := 0.0
		for _, e := range exts {
			if e.Confidence != nil {
				sum += *e.Confidence
			} else {
				sum += 1.0
			}
		}
		return sum / float64(len(exts))
	default:
		sum := 0.0
		n := 0
		for _, e := range exts {
			if e.Confidence != nil {
				sum += *e.Confidence
				n++
			}
		}
		if n == 0 {
			return 0
		}
		return sum / float64(n)
	}
}

// UniqueClasses counts distinct extraction class names.
func UniqueClasses(exts []WireExtraction) int {
	seen := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		seen[e.Class] = struct{}{}
	}
	return len(seen)
}

// NewInteractive builds the interactive-mode success envelope.
func NewInteractive(exts []WireExtraction, inputLength int, elapsed time.Duration, visualizationFile string) InteractiveEnvelope {
	return InteractiveEnvelope{
		Success:     true,
		Extractions: exts,
		Metadata: InteractiveMetadata{
			TotalExtractions:  len(exts),
			UniqueClasses:     UniqueClasses(exts),
			ProcessingTime:    float64(elapsed.Milliseconds()),
			InputLength:       inputLength,
			AverageConfidence: AverageConfidence(exts, PolicySkipMissing),
		},
		VisualizationFile: visualizationFile,
	}
}

// NewConfig builds the config-file-mode success envelope.
func NewConfig(exts []WireExtraction) ConfigEnvelope {
	return ConfigEnvelope{
		Success:     true,
		Extractions: exts,
		Metadata: ConfigMetadata{
			TotalExtractions:  len(exts),
			UniqueClasses:     UniqueClasses(exts),
			AverageConfidence: AverageConfidence(exts, PolicyDefaultOne),
		},
	}
}

// NewSentinel builds the text-extraction short-circuit envelope.
func NewSentinel(text string, elapsed time.Duration) SentinelEnvelope {
	return SentinelEnvelope{
		Success:       true,
		ExtractedText: text,
		Metadata: SentinelMetadata{
			InputLength:    len([]rune(text)),
			ProcessingTime: float64(elapsed.Milliseconds()),
		},
	}
}

// Encode writes an envelope as a single JSON line. Go marshals map keys
// in sorted order, so identical envelopes encode identically.
func Encode(w io.Writer, envelope any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(envelope)
}
