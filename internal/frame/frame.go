// Package frame is a small column-oriented record set used to feed table
// slides.
package frame

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrRowLength     = errors.New("row length does not match columns")
)

// Frame holds ordered named columns of equal length. Values are nil, string,
// bool or a Go integer or float kind.
type Frame struct {
	names []string
	cols  [][]any
}

// New builds a frame from row-major data.
func New(columns []string, rows [][]any) (*Frame, error) {
	f := &Frame{
		names: append([]string(nil), columns...),
		cols:  make([][]any, len(columns)),
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrRowLength, i, len(row), len(columns))
		}
		for c, v := range row {
			f.cols[c] = append(f.cols[c], v)
		}
	}
	return f, nil
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.names...)
}

// Len returns the row count.
func (f *Frame) Len() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0])
}

// Value returns the cell at row, col.
func (f *Frame) Value(row, col int) any {
	return f.cols[col][row]
}

// Row returns a copy of one row.
func (f *Frame) Row(i int) []any {
	row := make([]any, len(f.cols))
	for c := range f.cols {
		row[c] = f.cols[c][i]
	}
	return row
}

// Column returns the values of the named column.
func (f *Frame) Column(name string) ([]any, bool) {
	i := f.index(name)
	if i < 0 {
		return nil, false
	}
	return f.cols[i], true
}

// Select returns a frame with only the named columns, in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	out := &Frame{}
	for _, name := range names {
		i := f.index(name)
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		out.names = append(out.names, name)
		out.cols = append(out.cols, f.cols[i])
	}
	return out, nil
}

// Drop returns a frame without the named column. Unknown names are ignored.
func (f *Frame) Drop(name string) *Frame {
	out := &Frame{}
	for i, n := range f.names {
		if n == name {
			continue
		}
		out.names = append(out.names, n)
		out.cols = append(out.cols, f.cols[i])
	}
	return out
}

// Head returns the first n rows.
func (f *Frame) Head(n int) *Frame {
	if n < 0 {
		n = 0
	}
	if n >= f.Len() {
		return f
	}
	out := &Frame{names: f.names, cols: make([][]any, len(f.cols))}
	for c := range f.cols {
		out.cols[c] = f.cols[c][:n]
	}
	return out
}

func (f *Frame) index(name string) int {
	for i, n := range f.names {
		if n == name {
			return i
		}
	}
	return -1
}
