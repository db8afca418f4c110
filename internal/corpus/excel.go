package corpus

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// linesFromExcel returns the first column of the first sheet, one line per row.
func linesFromExcel(content []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []string{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	lines := make([]string, len(rows))
	for i, row := range rows {
		if len(row) > 0 {
			lines[i] = row[0]
		}
	}
	return lines, nil
}
