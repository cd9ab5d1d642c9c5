package docext

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractWorkbook renders a spreadsheet as text: per sheet a
// "Sheet: <name>" header, then one line per row with cell values joined
// by tabs. Rows whose cells are all blank are skipped.
func extractWorkbook(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var lines []string
	for _, sheet := range f.GetSheetList() {
		lines = append(lines, "Sheet: "+sheet)

		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		for _, cells := range rows {
			if !anyCellSet(cells) {
				continue
			}
			lines = append(lines, strings.Join(cells, "\t"))
		}
	}

	return strings.Join(lines, "\n"), nil
}

func anyCellSet(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return true
		}
	}
	return false
}
