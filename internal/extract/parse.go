package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// rawExtraction is the wire shape of one model-reported extraction.
type rawExtraction struct {
	Class      string         `json:"extraction_class"`
	Text       string         `json:"extraction_text"`
	Attributes map[string]any `json:"attributes"`
	Confidence *float64       `json:"confidence"`
}

type rawResponse struct {
	Extractions []rawExtraction `json:"extractions"`
}

// parseResponse validates and decodes a model's chunk response.
func parseResponse(content string) ([]rawExtraction, error) {
	content = stripCodeFence(content)

	var doc any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiledResponseSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var resp rawResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return resp.Extractions, nil
}

// stripCodeFence removes a surrounding markdown fence if present. Models
// in JSON mode mostly return bare JSON, but fenced output still shows up.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// alignExtractions locates each extraction's span within its chunk and
// converts chunk-relative rune offsets to absolute ones. Repeated
// identical spans claim successive occurrences so two extractions of the
// same text get distinct positions. Spans not found in the chunk keep
// nil offsets.
func alignExtractions(raws []rawExtraction, ch chunk) []Extraction {
	chunkRunes := []rune(ch.text)
	searchFrom := make(map[string]int)

	exts := make([]Extraction, 0, len(raws))
	for _, raw := range raws {
		ext := Extraction{
			Class:      raw.Class,
			Text:       raw.Text,
			Attributes: raw.Attributes,
			Confidence: raw.Confidence,
		}
		if ext.Attributes == nil {
			ext.Attributes = map[string]any{}
		}
		if raw.Text != "" {
			if idx := runeIndex(chunkRunes, []rune(raw.Text), searchFrom[raw.Text]); idx >= 0 {
				start := ch.offset + idx
				end := start + len([]rune(raw.Text))
				ext.Start = &start
				ext.End = &end
				searchFrom[raw.Text] = idx + 1
			}
		}
		exts = append(exts, ext)
	}
	return exts
}

// runeIndex finds needle in haystack at or after from, in rune positions.
func runeIndex(haystack, needle []rune, from int) int {
	if from < 0 {
		from = 0
	}
	last := len(haystack) - len(needle)
	for i := from; i <= last; i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
