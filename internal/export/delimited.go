package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Delimiters used for the metric tables and the average tables
const (
	Comma = ','
	Tab   = '\t'
)

func format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// WriteDelimited writes t with a header line, separating fields with comma
func WriteDelimited(w io.Writer, t Table, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	record := make([]string, len(t.Header))
	for i, row := range t.Rows {
		for j, v := range row {
			record[j] = format(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteDelimitedFile writes t to path, creating parent directories
func WriteDelimitedFile(path string, t Table, comma rune) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	if err := WriteDelimited(f, t, comma); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
