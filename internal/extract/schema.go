package extract

import "github.com/santhosh-tekuri/jsonschema/v5"

// responseSchema validates the JSON a model returns for a chunk before
// any of it is trusted.
const responseSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["extractions"],
  "properties": {
    "extractions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["extraction_class", "extraction_text"],
        "properties": {
          "extraction_class": {"type": "string", "minLength": 1},
          "extraction_text": {"type": "string"},
          "attributes": {"type": "object"},
          "confidence": {"type": "number", "minimum": 0, "maximum": 1}
        }
      }
    }
  }
}`

var compiledResponseSchema = jsonschema.MustCompileString("extraction-response.json", responseSchema)
