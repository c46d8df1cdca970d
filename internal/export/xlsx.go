package export

import (
	"fmt"
	"strconv"

	"github.com/tealeg/xlsx/v2"
)

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

// WriteXLSX saves the sheets as one workbook at path. Cells that parse as
// numbers are stored as numbers so spreadsheets can chart them directly.
func WriteXLSX(path string, sheets ...Sheet) error {
	f := xlsx.NewFile()

	for _, s := range sheets {
		name := s.Name
		if len(name) > maxSheetName {
			name = name[:maxSheetName]
		}

		sh, err := f.AddSheet(name)
		if err != nil {
			return fmt.Errorf("adding sheet %q: %w", name, err)
		}

		header := sh.AddRow()
		for _, h := range s.Header {
			header.AddCell().SetString(h)
		}

		for _, rec := range s.Rows {
			row := sh.AddRow()
			for _, v := range rec {
				cell := row.AddCell()
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					cell.SetFloat(n)
				} else {
					cell.SetString(v)
				}
			}
		}
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	return nil
}
