// Package docext extracts plain text from heterogeneous document files.
//
// Dispatch is by lowercased file extension. Handlers cover plain text,
// PDF, Word, spreadsheets, presentations, HTML, and JSON; anything
// unrecognized falls back to a raw text read with invalid UTF-8 dropped.
package docext

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Extractor converts document files into plain text.
type Extractor struct {
	// MaxFileSize refuses files larger than this many bytes. Zero means no limit.
	MaxFileSize int64

	Logger *slog.Logger
}

// New creates an Extractor with the given file size limit.
func New(maxFileSize int64, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{MaxFileSize: maxFileSize, Logger: logger}
}

// ExtractFile reads path and returns its plain-text content.
// Handler failures are wrapped with the file extension and the cause.
func (e *Extractor) ExtractFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s file: %w", ext, err)
	}
	if e.MaxFileSize > 0 && info.Size() > e.MaxFileSize {
		return "", fmt.Errorf("failed to extract text from %s file: file too large: %d bytes (max %d)",
			ext, info.Size(), e.MaxFileSize)
	}

	e.Logger.Debug("extracting document", "path", path, "ext", ext, "size", info.Size())

	var text string
	switch ext {
	case ".txt", ".md", ".markdown", ".csv":
		text, err = readTextFile(path)
	case ".pdf":
		text, err = extractPDF(path)
	case ".docx", ".doc":
		text, err = extractDocx(path)
	case ".xlsx", ".xls":
		text, err = extractWorkbook(path)
	case ".pptx", ".ppt":
		text, err = extractPresentation(path)
	case ".html", ".htm":
		text, err = extractHTMLFile(path)
	case ".json":
		text, err = normalizeJSONFile(path)
	default:
		text, err = readTextFile(path)
	}

	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s file: %w", ext, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("failed to extract text from %s file: no text could be extracted from the file", ext)
	}
	return text, nil
}

// SupportedFormats returns the extensions with dedicated handlers.
func SupportedFormats() []string {
	return []string{
		"txt", "md", "csv", "pdf", "docx", "doc",
		"xlsx", "xls", "pptx", "ppt", "html", "htm", "json",
	}
}
