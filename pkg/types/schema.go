package types

// Schema describes a table's columns: name, logical type, and nullable
// flag, in column order. Insertion order is significant and mirrors the
// column order of the table the schema was derived from.
type Schema struct {
	Columns []ColumnDef `json:"columns"`
}

// ColumnDef defines a single column in the schema.
type ColumnDef struct {
	// Name is the column name, unique within a schema
	Name string `json:"name"`

	// Type is the column's logical type
	Type LogicalType `json:"type"`

	// Nullable indicates whether the column may contain null values.
	// A producer may set this regardless of actual null presence, so the
	// flag is metadata only and is never evidence of data content.
	Nullable bool `json:"nullable"`
}

// Equal reports whether two schemas are identical in order, names, types,
// and nullable flags.
func (s Schema) Equal(other Schema) bool {
	if len(s.Columns) != len(other.Columns) {
		return false
	}
	for i := range s.Columns {
		if s.Columns[i] != other.Columns[i] {
			return false
		}
	}
	return true
}

// ColumnNames returns the column names in schema order.
func (s Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}
