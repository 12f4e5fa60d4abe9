package types

import "fmt"

// Column is an ordered, row-count-fixed sequence of values tagged with a
// logical type and a nullable flag. Columns are immutable once
// constructed; rewriting a column always produces a new one.
type Column struct {
	name     string
	typ      LogicalType
	nullable bool
	values   []Value
}

// NewColumn constructs a column, validating that the values respect the
// declared type and nullability. The values slice is copied so the caller
// cannot alias the column's backing storage.
func NewColumn(name string, typ LogicalType, nullable bool, values []Value) (*Column, error) {
	if name == "" {
		return nil, ErrEmptyColumnName
	}
	for i, v := range values {
		if v.IsNull() {
			if !nullable {
				return nil, fmt.Errorf("%w: column %q row %d", ErrNullInNonNullable, name, i)
			}
			continue
		}
		if typ.IsInteger() && !typ.ContainsInt(v.Int64()) {
			return nil, fmt.Errorf("%w: column %q row %d value %d does not fit %s",
				ErrValueOutOfRange, name, i, v.Int64(), typ)
		}
	}
	copied := make([]Value, len(values))
	copy(copied, values)
	return &Column{name: name, typ: typ, nullable: nullable, values: copied}, nil
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Type returns the column's logical type.
func (c *Column) Type() LogicalType { return c.typ }

// Nullable returns the schema-level nullable flag. The flag is
// serialization metadata only: it does not prove whether nulls are
// actually present, and consumers deriving facts from data must scan the
// values instead.
func (c *Column) Nullable() bool { return c.nullable }

// Len returns the row count.
func (c *Column) Len() int { return len(c.values) }

// Value returns the value at row i.
func (c *Column) Value(i int) Value { return c.values[i] }

// Scan returns a single-pass cursor over the column's values in row
// order. Consumers that only need one pass (bounds tracking, rewriting)
// should use the cursor rather than random access so large columns can be
// processed with O(1) auxiliary state.
func (c *Column) Scan() *ColumnScanner {
	return &ColumnScanner{values: c.values}
}

// Def returns the column's schema entry.
func (c *Column) Def() ColumnDef {
	return ColumnDef{Name: c.name, Type: c.typ, Nullable: c.nullable}
}

// Equal reports structural equality: same name, type, nullable flag, and
// value sequence.
func (c *Column) Equal(other *Column) bool {
	if c.name != other.name || c.typ != other.typ || c.nullable != other.nullable {
		return false
	}
	if len(c.values) != len(other.values) {
		return false
	}
	for i := range c.values {
		if c.values[i] != other.values[i] {
			return false
		}
	}
	return true
}

// ColumnScanner is a single-pass cursor over a column's values.
type ColumnScanner struct {
	values []Value
	pos    int
}

// Next returns the next value. The second result is false once the column
// is exhausted.
func (s *ColumnScanner) Next() (Value, bool) {
	if s.pos >= len(s.values) {
		return Value{}, false
	}
	v := s.values[s.pos]
	s.pos++
	return v, true
}
