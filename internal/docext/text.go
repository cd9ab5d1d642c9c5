package docext

import (
	"encoding/json"
	"os"
	"strings"
)

// readTextFile reads a file as UTF-8 text, dropping undecodable bytes.
func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

// normalizeJSONFile parses a JSON file and re-serializes it with 2-space
// indentation. Object keys come out sorted; Go map marshaling is
// deterministic, which idempotent output depends on.
func normalizeJSONFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
