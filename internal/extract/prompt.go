package extract

import (
	"encoding/json"
	"strings"
)

const promptRules = `You extract structured information from text.

Rules:
- Respond with a single JSON object: {"extractions": [...]}.
- Each extraction has "extraction_class" (string), "extraction_text" (string), and optionally "attributes" (object).
- "extraction_text" must be an exact span copied from the input text, not a paraphrase.
- Emit extractions in the order they appear in the input.
- If nothing matches, respond with {"extractions": []}.`

// buildSystemPrompt combines the task description with the output contract.
func buildSystemPrompt(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return promptRules
	}
	return "Task: " + description + "\n\n" + promptRules
}

// buildUserPrompt renders the few-shot examples followed by the chunk to
// process. Example outputs use the same JSON shape the model must return.
func buildUserPrompt(examples []Example, chunkText string) string {
	var b strings.Builder
	for i, ex := range examples {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Example:\nInput: ")
		b.WriteString(ex.Text)
		b.WriteString("\nOutput: ")
		b.WriteString(renderExampleOutput(ex))
		b.WriteString("\n")
	}
	if len(examples) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("Extract from this text:\n")
	b.WriteString(chunkText)
	return b.String()
}

func renderExampleOutput(ex Example) string {
	type wireExtraction struct {
		Class      string         `json:"extraction_class"`
		Text       string         `json:"extraction_text"`
		Attributes map[string]any `json:"attributes,omitempty"`
	}
	out := struct {
		Extractions []wireExtraction `json:"extractions"`
	}{Extractions: make([]wireExtraction, 0, len(ex.Extractions))}

	for _, e := range ex.Extractions {
		out.Extractions = append(out.Extractions, wireExtraction{
			Class:      e.Class,
			Text:       e.Text,
			Attributes: e.Attributes,
		})
	}
	data, err := json.Marshal(out)
	if err != nil {
		// Example data is plain strings and maps; marshal cannot fail.
		return `{"extractions": []}`
	}
	return string(data)
}
