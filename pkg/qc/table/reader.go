package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ReadFile reads a tab-separated file into a Table. The first row is the
// header; rows shorter than the header are padded with empty cells.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table %q: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse table %q: %w", path, err)
	}
	return t, nil
}

// Read parses tab-separated content from a reader.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("table is empty, expected a header row")
	}
	if err != nil {
		return nil, err
	}

	t := &Table{Columns: header}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		rec := NewRecord(header)
		for i, col := range header {
			if i < len(row) {
				rec.values[col] = row[i]
			} else {
				rec.values[col] = ""
			}
		}
		t.Records = append(t.Records, rec)
	}

	return t, nil
}
