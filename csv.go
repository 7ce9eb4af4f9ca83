// Copyright (c) 2025 Netskope, Inc. All rights reserved.

package domo

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// NullToken marks a NULL cell in CSV payloads, in both directions.
const NullToken = `\N`

// ReadCSV parses CSV with a header row into a Table. Cells equal to
// NullToken become NULL; column types are inferred from the data. Records
// with the wrong field count are skipped rather than failing the parse.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	headers, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("domo: csv payload has no header row")
		}
		return nil, fmt.Errorf("domo: reading csv header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	columns := make([]Column, len(headers))
	for i, name := range headers {
		columns[i].Name = name
	}

	for {
		rec, err := cr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("domo: reading csv record: %w", err)
		}
		if len(rec) != len(headers) {
			continue
		}
		for i, v := range rec {
			if v == NullToken {
				columns[i].Cells = append(columns[i].Cells, NullCell())
			} else {
				columns[i].Cells = append(columns[i].Cells, NewCell(v))
			}
		}
	}

	for i := range columns {
		columns[i].Type = InferType(columns[i].Cells)
	}

	return &Table{Columns: columns}, nil
}

// writeCSVRange serializes rows [start, end] (1-based, inclusive) of t as
// CSV without a header row. NULL cells become NullToken; quoting is standard
// CSV double-quote escaping.
func writeCSVRange(w io.Writer, t *Table, start, end int) error {
	cw := csv.NewWriter(w)
	record := make([]string, len(t.Columns))
	for row := start; row <= end; row++ {
		for i := range t.Columns {
			cell := t.Columns[i].Cells[row-1]
			if cell.Valid {
				record[i] = cell.Value
			} else {
				record[i] = NullToken
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row %d: %w", row, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// normalizeName lowercases a column name and maps anything outside
// [a-z0-9_] to underscore. A leading digit gets an underscore prefix so the
// result stays identifier-safe.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" {
		return "_"
	}
	if unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	return out
}
