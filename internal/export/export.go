package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/chrissnell/hydrostats/internal/hydro"
	"github.com/chrissnell/hydrostats/pkg/config"
)

// Writer writes every configured output for a run
type Writer struct {
	cfg    config.OutputData
	logger *zap.SugaredLogger
}

// NewWriter creates a Writer for the outputs named in cfg
func NewWriter(cfg config.OutputData, logger *zap.SugaredLogger) *Writer {
	return &Writer{
		cfg:    cfg,
		logger: logger,
	}
}

func (w *Writer) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(w.cfg.Dir, name)
}

// WriteAll writes the delimited tables, workbook and bundle. Results are
// written in the order given; outputs with an empty name are skipped.
func (w *Writer) WriteAll(results []*hydro.Result) error {
	delimited := []struct {
		name  string
		table Table
		comma rune
	}{
		{w.cfg.AnnualCSV, AnnualTable(results), Comma},
		{w.cfg.MonthlyCSV, MonthlyTable(results), Comma},
		{w.cfg.AnnualAvg, AnnualAveragesTable(results), Tab},
		{w.cfg.MonthlyAvg, MonthlyAveragesTable(results), Tab},
	}

	for _, d := range delimited {
		if d.name == "" {
			continue
		}
		path := w.path(d.name)
		if err := WriteDelimitedFile(path, d.table, d.comma); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		w.logger.Infow("wrote table", "table", d.table.Name, "path", path, "rows", len(d.table.Rows))
	}

	if w.cfg.Workbook != "" {
		path := w.path(w.cfg.Workbook)
		tables := make([]Table, len(delimited))
		for i, d := range delimited {
			tables[i] = d.table
		}
		if err := WriteWorkbook(path, tables...); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		w.logger.Infow("wrote workbook", "path", path)
	}

	if w.cfg.Bundle != "" {
		path := w.path(w.cfg.Bundle)
		if err := w.writeBundle(path, results); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		w.logger.Infow("wrote bundle", "path", path, "format", w.cfg.BundleFormat)
	}

	return nil
}

// CompressedSuffix marks a bundle file written through zstd
const CompressedSuffix = ".zst"

func (w *Writer) writeBundle(path string, results []*hydro.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	var out io.Writer = f
	var enc *zstd.Encoder
	if strings.HasSuffix(path, CompressedSuffix) {
		enc, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			f.Close()
			return err
		}
		out = enc
	}

	if err := WriteBundle(out, w.cfg.BundleFormat, results); err != nil {
		f.Close()
		return err
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

// OpenBundle reads a MessagePack bundle file, decompressing it when the name
// ends in .zst
func OpenBundle(path string) ([]*hydro.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var in io.Reader = f
	if strings.HasSuffix(path, CompressedSuffix) {
		dec, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		in = dec
	}

	return ReadBundle(in)
}
