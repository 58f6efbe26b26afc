package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Writer writes tables as CSV files into a single output directory.
type Writer struct {
	Dir string
}

// NewWriter creates a writer rooted at dir, creating it if needed. A
// destination that cannot be created is the one fatal error of a run.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Writer{Dir: dir}, nil
}

// WriteTable writes one table to <dir>/<name>.csv.
func (w *Writer) WriteTable(t Table) error {
	path := filepath.Join(w.Dir, t.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write %s header: %w", path, err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write %s row: %w", path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// WriteTables writes every table, stopping on the first error.
func (w *Writer) WriteTables(tables []Table) error {
	for _, t := range tables {
		if err := w.WriteTable(t); err != nil {
			return err
		}
	}
	return nil
}
