package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrEmptyCSV = errors.New("csv has no header row")

type columnKind int

const (
	kindInt columnKind = iota
	kindFloat
	kindText
)

// ReadCSV reads a header row followed by records. Each column is typed as a
// whole: int64 when every non-empty cell parses as an integer, float64 when
// every one parses as a number, string otherwise. Empty cells become nil.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyCSV
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return FromStrings(header, records[1:]), nil
}

// FromStrings types text cells the way ReadCSV does. Header names are
// trimmed; short rows are padded with nil.
func FromStrings(header []string, body [][]string) *Frame {
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}

	kinds := make([]columnKind, len(names))
	for c := range names {
		kinds[c] = inferKind(body, c)
	}

	f := &Frame{names: names, cols: make([][]any, len(names))}
	for _, rec := range body {
		for c := range names {
			cell := ""
			if c < len(rec) {
				cell = rec[c]
			}
			f.cols[c] = append(f.cols[c], convertCell(cell, kinds[c]))
		}
	}
	return f
}

// ReadCSVFile reads the CSV file at path.
func ReadCSVFile(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer file.Close()

	return ReadCSV(file)
}

func inferKind(rows [][]string, col int) columnKind {
	kind := kindInt
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseInt(cell, 10, 64); err == nil {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err == nil {
			kind = kindFloat
			continue
		}
		return kindText
	}
	return kind
}

func convertCell(cell string, kind columnKind) any {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}
	switch kind {
	case kindInt:
		n, _ := strconv.ParseInt(trimmed, 10, 64)
		return n
	case kindFloat:
		v, _ := strconv.ParseFloat(trimmed, 64)
		return v
	default:
		return cell
	}
}
