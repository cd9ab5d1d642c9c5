// Package request decodes and validates extraction requests.
//
// The same logical record arrives in two wire dialects: the interactive
// runner reads camelCase JSON from stdin, the config-file runner reads
// snake_case JSON from a file. Both decode into Request.
package request

import (
	"encoding/json"
	"fmt"
	"io"
)

// Defaults applied after decoding when the request leaves a knob unset.
const (
	DefaultPasses     = 1
	DefaultWorkers    = 5
	DefaultCharBuffer = 10000
)

// Request is an immutable extraction request.
type Request struct {
	InputText         string
	FilePath          string
	PromptDescription string
	Examples          []Example
	ModelID           string
	APIKey            string
	ExtractionPasses  int
	MaxWorkers        int
	MaxCharBuffer     int
}

// Example is a few-shot (text, extractions) pair that teaches the model
// the desired output shape.
type Example struct {
	Text        string              `json:"text"`
	Extractions []ExampleExtraction `json:"extractions"`
}

// ExampleExtraction is one labeled span within an example.
type ExampleExtraction struct {
	Class      string         `json:"extraction_class"`
	Text       string         `json:"extraction_text"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// interactiveWire is the camelCase stdin dialect.
type interactiveWire struct {
	InputText         *string   `json:"inputText"`
	FilePath          string    `json:"filePath"`
	PromptDescription *string   `json:"promptDescription"`
	Examples          []Example `json:"examples"`
	ModelID           *string   `json:"modelId"`
	APIKey            string    `json:"apiKey"`
	ExtractionPasses  int       `json:"extractionPasses"`
	MaxWorkers        int       `json:"maxWorkers"`
	MaxCharBuffer     int       `json:"maxCharBuffer"`
}

// configFileWire is the snake_case config-file dialect.
type configFileWire struct {
	Text              *string   `json:"text"`
	PromptDescription *string   `json:"prompt_description"`
	Examples          []Example `json:"examples"`
	ModelID           *string   `json:"model_id"`
	APIKey            string    `json:"api_key"`
	ExtractionPasses  int       `json:"extraction_passes"`
	MaxWorkers        int       `json:"max_workers"`
}

// DecodeInteractive reads one interactive-dialect request.
// Required keys: inputText, promptDescription, examples, modelId.
func DecodeInteractive(r io.Reader) (*Request, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read request: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid request JSON: %w", err)
	}
	for _, field := range []string{"inputText", "promptDescription", "examples", "modelId"} {
		if _, ok := raw[field]; !ok {
			return nil, fmt.Errorf("missing required field: %s", field)
		}
	}

	var w interactiveWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("invalid request JSON: %w", err)
	}

	req := &Request{
		InputText:         deref(w.InputText),
		FilePath:          w.FilePath,
		PromptDescription: deref(w.PromptDescription),
		Examples:          w.Examples,
		ModelID:           deref(w.ModelID),
		APIKey:            w.APIKey,
		ExtractionPasses:  w.ExtractionPasses,
		MaxWorkers:        w.MaxWorkers,
		MaxCharBuffer:     w.MaxCharBuffer,
	}
	req.applyDefaults()
	return req, nil
}

// DecodeConfigFile parses one config-file-dialect request.
// Required keys: text, prompt_description, examples, model_id.
func DecodeConfigFile(data []byte) (*Request, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid config JSON: %w", err)
	}
	for _, field := range []string{"text", "prompt_description", "examples", "model_id"} {
		if _, ok := raw[field]; !ok {
			return nil, fmt.Errorf("missing required field: %s", field)
		}
	}

	var w configFileWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("invalid config JSON: %w", err)
	}

	req := &Request{
		InputText:         deref(w.Text),
		PromptDescription: deref(w.PromptDescription),
		Examples:          w.Examples,
		ModelID:           deref(w.ModelID),
		APIKey:            w.APIKey,
		ExtractionPasses:  w.ExtractionPasses,
		MaxWorkers:        w.MaxWorkers,
	}
	req.applyDefaults()
	return req, nil
}

func (r *Request) applyDefaults() {
	if r.ExtractionPasses <= 0 {
		r.ExtractionPasses = DefaultPasses
	}
	if r.MaxWorkers <= 0 {
		r.MaxWorkers = DefaultWorkers
	}
	if r.MaxCharBuffer <= 0 {
		r.MaxCharBuffer = DefaultCharBuffer
	}
	for i := range r.Examples {
		for j := range r.Examples[i].Extractions {
			if r.Examples[i].Extractions[j].Attributes == nil {
				r.Examples[i].Extractions[j].Attributes = map[string]any{}
			}
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
