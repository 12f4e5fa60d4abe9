package types

import (
	"errors"
	"testing"
)

func mustColumn(t *testing.T, name string, typ LogicalType, nullable bool, values []Value) *Column {
	t.Helper()
	col, err := NewColumn(name, typ, nullable, values)
	if err != nil {
		t.Fatalf("NewColumn(%s): %v", name, err)
	}
	return col
}

func TestNewTable_Valid(t *testing.T) {
	tbl, err := NewTable([]*Column{
		mustColumn(t, "id", Int64, false, []Value{Present(1), Present(2)}),
		mustColumn(t, "score", Int32, true, []Value{Null(), Present(50)}),
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if tbl.RowCount() != 2 || tbl.NumColumns() != 2 {
		t.Errorf("got %d rows, %d columns", tbl.RowCount(), tbl.NumColumns())
	}

	col, ok := tbl.Column("score")
	if !ok || col.Type() != Int32 {
		t.Error("expected to find score column by name")
	}
	if _, ok := tbl.Column("missing"); ok {
		t.Error("expected missing column lookup to fail")
	}
}

func TestNewTable_RowCountMismatch(t *testing.T) {
	_, err := NewTable([]*Column{
		mustColumn(t, "a", Int8, false, []Value{Present(1)}),
		mustColumn(t, "b", Int8, false, []Value{Present(1), Present(2)}),
	})
	if !errors.Is(err, ErrRowCountMismatch) {
		t.Errorf("expected ErrRowCountMismatch, got %v", err)
	}
}

func TestNewTable_DuplicateColumn(t *testing.T) {
	_, err := NewTable([]*Column{
		mustColumn(t, "a", Int8, false, []Value{Present(1)}),
		mustColumn(t, "a", Int16, false, []Value{Present(1)}),
	})
	if !errors.Is(err, ErrDuplicateColumn) {
		t.Errorf("expected ErrDuplicateColumn, got %v", err)
	}
}

func TestNewTable_ZeroRows(t *testing.T) {
	tbl, err := NewTable([]*Column{
		mustColumn(t, "a", Int8, false, nil),
		mustColumn(t, "b", Int64, true, nil),
	})
	if err != nil {
		t.Fatalf("NewTable with zero rows: %v", err)
	}
	if tbl.RowCount() != 0 {
		t.Errorf("RowCount: got %d, want 0", tbl.RowCount())
	}
}

func TestTable_SchemaDerived(t *testing.T) {
	tbl, err := NewTable([]*Column{
		mustColumn(t, "id", Int64, false, []Value{Present(1)}),
		mustColumn(t, "score", Int16, true, []Value{Present(2)}),
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	schema := tbl.Schema()
	want := Schema{Columns: []ColumnDef{
		{Name: "id", Type: Int64, Nullable: false},
		{Name: "score", Type: Int16, Nullable: true},
	}}
	if !schema.Equal(want) {
		t.Errorf("schema mismatch: got %+v", schema)
	}
}

func TestTable_Equal(t *testing.T) {
	build := func(score int64) *Table {
		tbl, err := NewTable([]*Column{
			mustColumn(t, "id", Int64, false, []Value{Present(1)}),
			mustColumn(t, "score", Int16, true, []Value{Present(score)}),
		})
		if err != nil {
			t.Fatalf("NewTable: %v", err)
		}
		return tbl
	}

	if !build(5).Equal(build(5)) {
		t.Error("identical tables should be equal")
	}
	if build(5).Equal(build(6)) {
		t.Error("tables with different values should not be equal")
	}
}
