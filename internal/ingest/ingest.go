// Package ingest turns header-driven CSV uploads into typed-on-demand rows.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"strconv"
	"strings"

	"github.com/tradelens/tradelens/internal/models"
)

// maxUploadSize bounds how much of a reader Parse will buffer.
const maxUploadSize = 10 << 20

// ErrFieldCount marks a row whose field count differs from the header.
var ErrFieldCount = errors.New("wrong number of fields")

// Value is one cell. Num is set when the trimmed text parses as a finite number.
type Value struct {
	Raw   string
	Num   float64
	IsNum bool
}

// Row is one data line keyed by header name. Empty cells are absent.
// Err is set when the line could not be read cleanly; Fields may still be partial.
type Row struct {
	Line   int
	Fields map[string]Value
	Err    error
}

// Text returns the trimmed text of key, or "" when absent.
func (r Row) Text(key string) string {
	return r.Fields[key].Raw
}

// Number returns the numeric value of key. ok is false when the cell is absent or not numeric.
func (r Row) Number(key string) (v float64, ok bool) {
	f, present := r.Fields[key]
	if !present || !f.IsNum {
		return 0, false
	}

	return f.Num, true
}

// NumberOr returns the numeric value of key, or fallback.
func (r Row) NumberOr(key string, fallback float64) float64 {
	if v, ok := r.Number(key); ok {
		return v
	}

	return fallback
}

// Table is a parsed upload. Rows can be ranged over any number of times.
type Table struct {
	header []string
	body   []byte
	line   int
}

// Parse reads the header row of r and buffers the rest for iteration.
func Parse(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	if len(data) > maxUploadSize {
		return nil, fmt.Errorf("upload exceeds %d bytes", maxUploadSize)
	}

	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := newReader(bytes.NewReader(data))
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, models.ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	if isBlank(header) {
		return nil, models.ErrNoHeader
	}

	line, _ := cr.FieldPos(0)
	offset := cr.InputOffset()

	return &Table{header: header, body: data[offset:], line: line}, nil
}

// Header returns the trimmed column names in file order.
func (t *Table) Header() []string {
	return append([]string(nil), t.header...)
}

// Rows yields every non-blank data row. Each call starts from the first row.
func (t *Table) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		cr := newReader(bytes.NewReader(t.body))

		for {
			record, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}

			if err != nil {
				var perr *csv.ParseError
				if !errors.As(err, &perr) {
					yield(Row{Err: err})
					return
				}

				if !yield(Row{Line: perr.StartLine + t.line, Err: err}) {
					return
				}
				continue
			}

			if isBlank(record) {
				continue
			}

			line, _ := cr.FieldPos(0)
			if !yield(t.row(record, line+t.line)) {
				return
			}
		}
	}
}

// Collect drains Rows into a slice.
func (t *Table) Collect() []Row {
	var rows []Row
	for r := range t.Rows() {
		rows = append(rows, r)
	}

	return rows
}

func (t *Table) row(record []string, line int) Row {
	row := Row{Line: line, Fields: make(map[string]Value, len(t.header))}

	if len(record) != len(t.header) {
		row.Err = fmt.Errorf("line %d: %w: got %d, want %d", line, ErrFieldCount, len(record), len(t.header))
	}

	for i, name := range t.header {
		if i >= len(record) || name == "" {
			continue
		}

		if v, ok := coerce(record[i]); ok {
			row.Fields[name] = v
		}
	}

	return row
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	return cr
}

// coerce trims s and detects numbers. ok is false for empty cells.
func coerce(s string) (Value, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}, false
	}

	v := Value{Raw: s}
	if looksNumeric(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			v.Num = f
			v.IsNum = true
		}
	}

	return v, true
}

// looksNumeric rejects the spellings ParseFloat accepts that a spreadsheet would not
// (hex floats, "Inf", "NaN", underscores).
func looksNumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '-', r == '+', r == 'e', r == 'E':
		default:
			return false
		}
	}

	return true
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}

	return true
}
