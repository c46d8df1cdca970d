package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/tealeg/xlsx/v2"
)

// ParseXLSX reads the first sheet of a workbook and parses it like a CSV upload.
func ParseXLSX(path string) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}

	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	width := 0

	for _, row := range f.Sheets[0].Rows {
		if row == nil {
			continue
		}

		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = cell.String()
		}

		// Trailing empty cells are not stored in the workbook.
		if width == 0 {
			width = len(cells)
		}
		for len(cells) < width {
			cells = append(cells, "")
		}

		if err := cw.Write(cells); err != nil {
			return nil, fmt.Errorf("converting workbook row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("converting workbook: %w", err)
	}

	return Parse(&buf)
}
