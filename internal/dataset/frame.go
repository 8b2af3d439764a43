// Package dataset holds the in-memory table threaded through the pipeline.
// A Frame is immutable once built: every transforming operation returns a
// new Frame so each pipeline stage can be tested against its own output.
package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// SchemaError reports input data that does not match the declared schema:
// a missing column, an unparseable numeric field, or a malformed row.
// Row is 1-based over data rows (the header is row 0) and zero when the
// error is not tied to a particular row.
type SchemaError struct {
	Column string
	Row    int
	Value  string
	Msg    string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema error")
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, ", row %d", e.Row)
	}
	if e.Msg != "" {
		b.WriteString(": " + e.Msg)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " (value %q)", e.Value)
	}
	return b.String()
}

// Frame is a rectangular table of string cells with a header.
// Row order is significant and preserved by every operation.
type Frame struct {
	columns []string
	records [][]string
}

// New builds a Frame after validating that every record has exactly one
// cell per column.
func New(columns []string, records [][]string) (*Frame, error) {
	if len(columns) == 0 {
		return nil, &SchemaError{Msg: "no columns"}
	}
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c]; dup {
			return nil, &SchemaError{Column: c, Msg: "duplicate column"}
		}
		seen[c] = struct{}{}
	}
	for i, rec := range records {
		if len(rec) != len(columns) {
			return nil, &SchemaError{Row: i + 1, Msg: fmt.Sprintf("expected %d fields, got %d", len(columns), len(rec))}
		}
	}
	return &Frame{columns: columns, records: records}, nil
}

// Rows returns the number of data rows.
func (f *Frame) Rows() int { return len(f.records) }

// Columns returns a copy of the header.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// ColumnIndex reports the position of a column by name.
func (f *Frame) ColumnIndex(name string) (int, bool) {
	for i, c := range f.columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.ColumnIndex(name)
	return ok
}

// Record returns a copy of row i.
func (f *Frame) Record(i int) []string {
	out := make([]string, len(f.records[i]))
	copy(out, f.records[i])
	return out
}

// Column returns a copy of the named column's cells in row order.
func (f *Frame) Column(name string) ([]string, error) {
	idx, ok := f.ColumnIndex(name)
	if !ok {
		return nil, &SchemaError{Column: name, Msg: "missing column"}
	}
	out := make([]string, len(f.records))
	for i, rec := range f.records {
		out[i] = rec[idx]
	}
	return out, nil
}

// Floats parses the named column as float64 values. A cell that does not
// parse is a schema error naming the offending row.
func (f *Frame) Floats(name string) ([]float64, error) {
	col, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(col))
	for i, v := range col {
		x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, &SchemaError{Column: name, Row: i + 1, Value: v, Msg: "not numeric"}
		}
		out[i] = x
	}
	return out, nil
}

// WithColumn returns a new Frame with an extra column appended on the
// right. The value slice must cover every row.
func (f *Frame) WithColumn(name string, values []string) (*Frame, error) {
	if f.HasColumn(name) {
		return nil, &SchemaError{Column: name, Msg: "column already present"}
	}
	if len(values) != len(f.records) {
		return nil, &SchemaError{Column: name, Msg: fmt.Sprintf("expected %d values, got %d", len(f.records), len(values))}
	}
	columns := append(f.Columns(), name)
	records := make([][]string, len(f.records))
	for i, rec := range f.records {
		row := make([]string, 0, len(rec)+1)
		row = append(row, rec...)
		row = append(row, values[i])
		records[i] = row
	}
	return &Frame{columns: columns, records: records}, nil
}

// WithRecoded returns a new Frame with every cell of the named column
// passed through fn. An fn error aborts with row context attached.
func (f *Frame) WithRecoded(name string, fn func(string) (string, error)) (*Frame, error) {
	idx, ok := f.ColumnIndex(name)
	if !ok {
		return nil, &SchemaError{Column: name, Msg: "missing column"}
	}
	records := make([][]string, len(f.records))
	for i, rec := range f.records {
		row := make([]string, len(rec))
		copy(row, rec)
		v, err := fn(rec[idx])
		if err != nil {
			return nil, fmt.Errorf("recode column %q, row %d: %w", name, i+1, err)
		}
		row[idx] = v
		records[i] = row
	}
	return &Frame{columns: f.columns, records: records}, nil
}

// Matrix materializes the named numeric columns as a dense row-major
// matrix with one row per record, in the given column order.
func (f *Frame) Matrix(features ...string) (*mat.Dense, error) {
	if len(features) == 0 {
		return nil, &SchemaError{Msg: "no feature columns requested"}
	}
	cols := make([][]float64, len(features))
	for j, name := range features {
		vals, err := f.Floats(name)
		if err != nil {
			return nil, err
		}
		cols[j] = vals
	}
	m := mat.NewDense(len(f.records), len(features), nil)
	for i := 0; i < len(f.records); i++ {
		for j := range features {
			m.Set(i, j, cols[j][i])
		}
	}
	return m, nil
}
