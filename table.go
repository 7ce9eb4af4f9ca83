// Copyright (c) 2025 Netskope, Inc. All rights reserved.

package domo

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ColumnType is the warehouse-side type of a column.
type ColumnType string

const (
	TypeString   ColumnType = "STRING"
	TypeLong     ColumnType = "LONG"
	TypeDouble   ColumnType = "DOUBLE"
	TypeDatetime ColumnType = "DATETIME"
	TypeBoolean  ColumnType = "BOOLEAN"
)

// Cell is one value in a column. A cell with Valid == false is NULL and
// travels over the wire as the \N token.
type Cell struct {
	Value string
	Valid bool
}

// NewCell returns a non-NULL cell holding v.
func NewCell(v string) Cell {
	return Cell{Value: v, Valid: true}
}

// NullCell returns a NULL cell.
func NullCell() Cell {
	return Cell{}
}

// Column is an ordered sequence of cells under a name and type.
type Column struct {
	Name  string
	Type  ColumnType
	Cells []Cell
}

// Table is an ordered sequence of named columns with a uniform row count.
type Table struct {
	Columns []Column
}

// NumRows returns the row count of the first column. Validate enforces that
// all columns agree.
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// NumColumns returns the column count.
func (t *Table) NumColumns() int {
	return len(t.Columns)
}

// Validate checks that the table has at least one column, that every column
// is named, and that all columns carry the same number of rows.
func (t *Table) Validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("domo: table has no columns")
	}
	rows := len(t.Columns[0].Cells)
	for i, col := range t.Columns {
		if col.Name == "" {
			return fmt.Errorf("domo: column %d has no name", i)
		}
		if len(col.Cells) != rows {
			return fmt.Errorf("domo: column %q has %d rows, want %d", col.Name, len(col.Cells), rows)
		}
	}
	return nil
}

// Overhead charged per cell when estimating in-memory size: string header
// plus the Valid flag, on a 64-bit platform.
const cellOverheadBytes = 24

// sizeBytes estimates the in-memory footprint of the table's cell data.
// The estimate feeds the upload chunk sizing; it does not need to be exact,
// only proportional to the real payload.
func (t *Table) sizeBytes() int {
	size := 0
	for _, col := range t.Columns {
		for _, cell := range col.Cells {
			size += len(cell.Value) + cellOverheadBytes
		}
	}
	return size
}

// datetimeLayouts are the formats accepted during type inference, most
// specific first.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// InferType infers a column type from cell values by elimination: a type
// survives only if every non-NULL cell parses as it. Preference order is
// LONG, BOOLEAN, DATETIME, DOUBLE, then STRING. A column with no non-NULL
// cells is STRING.
func InferType(cells []Cell) ColumnType {
	var seen bool
	allLong := true
	allDouble := true
	allBool := true
	allDatetime := true

	for _, cell := range cells {
		if !cell.Valid {
			continue
		}
		v := strings.TrimSpace(cell.Value)
		if v == "" {
			continue
		}
		seen = true

		if allLong {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				allLong = false
			}
		}
		if allDouble {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				allDouble = false
			}
		}
		if allBool {
			switch strings.ToLower(v) {
			case "true", "false":
			default:
				allBool = false
			}
		}
		if allDatetime && !parseableDatetime(v) {
			allDatetime = false
		}
	}

	if !seen {
		return TypeString
	}
	switch {
	case allLong:
		return TypeLong
	case allBool:
		return TypeBoolean
	case allDatetime:
		return TypeDatetime
	case allDouble:
		return TypeDouble
	default:
		return TypeString
	}
}

func parseableDatetime(v string) bool {
	for _, layout := range datetimeLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}
