// Package frame provides a small column-addressable table of string cells,
// used to hold a dataset's data file and the sub-tables derived from it.
package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrEmptyFile     = errors.New("no columns to parse from file")
	ErrTooManyFields = errors.New("more fields than header columns")
)

// Frame is an immutable table with named columns. Cells are kept as the raw
// strings read from the data file.
type Frame struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New builds a frame from column names and rows. Every row must have exactly
// one cell per column. Column names must be unique.
func New(columns []string, rows [][]string) (*Frame, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		index[c] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(columns))
		}
	}
	return &Frame{
		columns: append([]string(nil), columns...),
		index:   index,
		rows:    rows,
	}, nil
}

// ReadCSV parses comma-delimited text whose first record is the header row.
// A leading UTF-8 byte order mark is dropped and repeated header names are
// made unique by appending ".1", ".2" and so on. Rows shorter than the header
// are padded with empty cells; longer rows are an error.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = false
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(rows)+1, err)
		}
		switch {
		case len(rec) > len(header):
			return nil, fmt.Errorf("reading row %d: %w: got %d, header has %d",
				len(rows)+1, ErrTooManyFields, len(rec), len(header))
		case len(rec) < len(header):
			rec = append(rec, make([]string, len(header)-len(rec))...)
		}
		rows = append(rows, rec)
	}

	return New(dedupe(header), rows)
}

func dedupe(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, name := range header {
		n, ok := seen[name]
		seen[name] = n + 1
		if !ok {
			out[i] = name
			continue
		}
		candidate := name + "." + strconv.Itoa(n)
		for {
			if _, taken := seen[candidate]; !taken {
				break
			}
			n++
			candidate = name + "." + strconv.Itoa(n)
		}
		seen[candidate] = 1
		out[i] = candidate
	}
	return out
}

// Columns returns a copy of the column names in order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

// Len returns the number of data rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// Shape returns (rows, columns).
func (f *Frame) Shape() (int, int) {
	return len(f.rows), len(f.columns)
}

// HasColumn reports whether the frame has a column with the given name.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Row returns a copy of row i. It panics if i is out of range, like a slice index.
func (f *Frame) Row(i int) []string {
	return append([]string(nil), f.rows[i]...)
}

// Column returns a copy of the named column's cells.
func (f *Frame) Column(name string) ([]string, bool) {
	j, ok := f.index[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(f.rows))
	for i, row := range f.rows {
		out[i] = row[j]
	}
	return out, true
}

// Value returns the cell at row i in the named column.
func (f *Frame) Value(i int, column string) (string, bool) {
	j, ok := f.index[column]
	if !ok || i < 0 || i >= len(f.rows) {
		return "", false
	}
	return f.rows[i][j], true
}

// Select returns a new frame holding only the given columns, in the order given.
func (f *Frame) Select(columns ...string) (*Frame, error) {
	idx := make([]int, len(columns))
	for k, c := range columns {
		j, ok := f.index[c]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
		idx[k] = j
	}

	rows := make([][]string, len(f.rows))
	for i, row := range f.rows {
		out := make([]string, len(idx))
		for k, j := range idx {
			out[k] = row[j]
		}
		rows[i] = out
	}
	return New(columns, rows)
}

// WriteCSV writes the header row followed by every data row.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.columns); err != nil {
		return err
	}
	if err := cw.WriteAll(f.rows); err != nil {
		return err
	}
	return cw.Error()
}

// String renders the frame as CSV text, mainly for debugging output.
func (f *Frame) String() string {
	var b strings.Builder
	_ = f.WriteCSV(&b)
	return b.String()
}
