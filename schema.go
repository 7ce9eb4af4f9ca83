// Copyright (c) 2025 Netskope, Inc. All rights reserved.

package domo

import (
	"encoding/json"
	"fmt"
)

// SchemaColumn describes one column of a stream schema. Field order matters:
// the canonical serialization keys off the struct layout.
type SchemaColumn struct {
	Type ColumnType `json:"type"`
	Name string     `json:"name"`
}

// Schema is the ordered column list of a stream. Order is significant: two
// schemas with the same columns in a different order are different schemas,
// because the remote side maps uploaded CSV fields to columns by position.
type Schema struct {
	Columns []SchemaColumn `json:"columns"`
}

// SchemaFromTable derives a schema from the table's columns, in column
// order. Columns without an explicit type get one inferred from their cells.
func SchemaFromTable(t *Table) Schema {
	cols := make([]SchemaColumn, len(t.Columns))
	for i, col := range t.Columns {
		typ := col.Type
		if typ == "" {
			typ = InferType(col.Cells)
		}
		cols[i] = SchemaColumn{Type: typ, Name: col.Name}
	}
	return Schema{Columns: cols}
}

// canonical returns the deterministic JSON serialization of the schema.
// json.Marshal emits struct fields in declaration order, so byte equality of
// two canonical strings is exact ordered-column equality.
func (s Schema) canonical() string {
	data, err := json.Marshal(s)
	if err != nil {
		// Schema holds only strings; Marshal cannot fail on it.
		panic(fmt.Sprintf("domo: marshaling schema: %v", err))
	}
	return string(data)
}

// Equal reports whether the two schemas have identical columns in identical
// order. Remote schemas parsed from API responses are re-marshaled through
// the same struct, so extra remote fields do not break the comparison.
func (s Schema) Equal(other Schema) bool {
	return s.canonical() == other.canonical()
}
