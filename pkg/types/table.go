package types

import "fmt"

// Table is an ordered sequence of named columns sharing one row count.
// Tables are immutable once constructed.
type Table struct {
	columns  []*Column
	byName   map[string]int
	rowCount int
}

// NewTable constructs a table from columns, validating that row counts
// agree and names are unique. Column order is preserved.
func NewTable(columns []*Column) (*Table, error) {
	t := &Table{
		columns: make([]*Column, len(columns)),
		byName:  make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if _, exists := t.byName[col.Name()]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Name())
		}
		if i == 0 {
			t.rowCount = col.Len()
		} else if col.Len() != t.rowCount {
			return nil, fmt.Errorf("%w: column %q has %d rows, table has %d",
				ErrRowCountMismatch, col.Name(), col.Len(), t.rowCount)
		}
		t.columns[i] = col
		t.byName[col.Name()] = i
	}
	return t, nil
}

// RowCount returns the shared row count.
func (t *Table) RowCount() int { return t.rowCount }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.columns) }

// Columns returns the columns in table order. The slice is a copy; the
// columns themselves are immutable and safe to share.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// ColumnAt returns the column at position i.
func (t *Table) ColumnAt(i int) *Column { return t.columns[i] }

// Schema derives the table's schema from its columns. Schema is derived
// data: it is always recomputed from the table, never hand-edited.
func (t *Table) Schema() Schema {
	defs := make([]ColumnDef, len(t.columns))
	for i, col := range t.columns {
		defs[i] = col.Def()
	}
	return Schema{Columns: defs}
}

// Equal reports structural equality of two tables: same column order and
// structurally equal columns.
func (t *Table) Equal(other *Table) bool {
	if t.rowCount != other.rowCount || len(t.columns) != len(other.columns) {
		return false
	}
	for i := range t.columns {
		if !t.columns[i].Equal(other.columns[i]) {
			return false
		}
	}
	return true
}
