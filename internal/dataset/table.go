// Package dataset loads recorded benchmark tables: header-mapped CSV
// files, transparently decompressed when zstd-compressed.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Row is one table row keyed by column name.
type Row map[string]string

// Has reports whether the row carries a non-empty value for a column.
func (r Row) Has(col string) bool {
	v, ok := r[col]
	return ok && v != ""
}

// Float parses a numeric column.
func (r Row) Float(col string) (float64, error) {
	raw, ok := r[col]
	if !ok {
		return 0, fmt.Errorf("row has no column %q", col)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: parsing %q: %w", col, raw, err)
	}
	return v, nil
}

// Int parses a whole-number column.
func (r Row) Int(col string) (int64, error) {
	raw, ok := r[col]
	if !ok {
		return 0, fmt.Errorf("row has no column %q", col)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: parsing %q: %w", col, raw, err)
	}
	return v, nil
}

// Table is one loaded data table.
type Table struct {
	// Columns holds the header names in file order.
	Columns []string
	// Rows holds the data rows in file order.
	Rows []Row
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether the header declares a column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Load reads a CSV table from disk. Files ending in .zst are
// decompressed while reading.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("table: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("table: zstd %s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}

	t, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("table: %s: %w", path, err)
	}
	return t, nil
}

// Parse reads a CSV table from a reader. The first record is the
// header; every data row must match its width.
func Parse(r io.Reader) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("table is empty (no header row)")
	}

	headers := records[0]
	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(headers) {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i+2, len(record), len(headers))
		}
		row := make(Row, len(headers))
		for j, h := range headers {
			row[h] = record[j]
		}
		rows = append(rows, row)
	}

	return &Table{Columns: headers, Rows: rows}, nil
}
