// Package flatfile reads the header-keyed comma separated files the catalog
// and registry are stored in.
package flatfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrMissingColumn = errors.New("missing column")

// Table is a parsed file: a header index plus the data rows in file order.
type Table struct {
	columns map[string]int
	Rows    [][]string
}

// Read parses r, requiring every name in required to appear in the header row.
func Read(r io.Reader, required ...string) (*Table, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty file: header row expected")
	}

	t := &Table{columns: make(map[string]int, len(records[0]))}
	for i, name := range records[0] {
		// tolerate a UTF-8 BOM written by spreadsheet exports
		name = strings.TrimPrefix(name, "\ufeff")
		t.columns[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := t.columns[name]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, name)
		}
	}

	t.Rows = records[1:]
	return t, nil
}

// Field returns the trimmed value of column name in row, or "" when the column is absent.
func (t *Table) Field(row []string, name string) string {
	i, ok := t.columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
