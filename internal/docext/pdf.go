package docext

import (
	"fmt"
	"strings"

	ltpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractPDF returns the text layer of a PDF, non-empty pages joined by
// newlines. The file is validated with pdfcpu first so corrupt input
// fails with a clear cause instead of a mid-extraction panic.
func extractPDF(path string) (string, error) {
	conf := model.NewDefaultConfiguration()
	if err := api.ValidateFile(path, conf); err != nil {
		return "", fmt.Errorf("invalid PDF: %w", err)
	}
	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read page count: %w", err)
	}

	f, r, err := ltpdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= pageCount && i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}

	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}
