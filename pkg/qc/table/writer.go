package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// WriteFile writes a table to a tab-separated file, header first. An
// existing file is truncated.
func WriteFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create table file %q: %w", path, err)
	}

	if err := Write(f, t); err != nil {
		f.Close()
		return fmt.Errorf("failed to write table file %q: %w", path, err)
	}
	return f.Close()
}

// Write serializes a table as tab-separated content. Records contribute
// empty cells for header columns they do not carry; extra record columns
// outside the header are not written.
func Write(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(t.Columns); err != nil {
		return err
	}

	row := make([]string, len(t.Columns))
	for _, rec := range t.Records {
		for i, col := range t.Columns {
			row[i] = rec.Value(col)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
