package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook saves each table as a sheet of one .xlsx file, in order.
// Undefined statistics are left as empty cells.
func WriteWorkbook(path string, tables ...Table) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", t.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("create sheet %q: %w", t.Name, err)
		}

		header := make([]any, len(t.Header))
		for j, h := range t.Header {
			header[j] = h
		}
		if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
			return fmt.Errorf("sheet %q header: %w", t.Name, err)
		}

		for r, row := range t.Rows {
			start, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			values := row
			if err := f.SetSheetRow(t.Name, start, &values); err != nil {
				return fmt.Errorf("sheet %q row %d: %w", t.Name, r+2, err)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return f.SaveAs(path)
}
