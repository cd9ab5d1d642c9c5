package result

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// visualizationDoc is one JSON-lines record tying extractions back to
// the text they came from.
type visualizationDoc struct {
	Text        string           `json:"text"`
	Extractions []WireExtraction `json:"extractions"`
}

// WriteVisualization saves a JSON-lines artifact for the run and returns
// its path. Callers should skip it when there are no extractions.
func WriteVisualization(dir, text string, exts []WireExtraction) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifacts directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("extractions-%s.jsonl", uuid.New().String()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create visualization file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(visualizationDoc{Text: text, Extractions: exts}); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write visualization file: %w", err)
	}
	return path, nil
}
