package narrow

import (
	"fmt"
	"strings"

	cerrors "github.com/cinchdb/cinch/internal/errors"
	"github.com/cinchdb/cinch/pkg/types"
)

// ColumnChange records a type change for one column, for audit and
// logging by the caller.
type ColumnChange struct {
	Name    string            `json:"name"`
	OldType types.LogicalType `json:"old_type"`
	NewType types.LogicalType `json:"new_type"`
	Bounds  types.Bounds      `json:"bounds"`
}

// Diff describes, per column, the type changes between an original table
// and its rewritten counterpart. Columns whose type did not change are
// omitted.
type Diff struct {
	Changes []ColumnChange `json:"changes"`
}

// Change returns the recorded change for a column, if any.
func (d Diff) Change(name string) (ColumnChange, bool) {
	for _, c := range d.Changes {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnChange{}, false
}

// String returns a readable one-line summary.
func (d Diff) String() string {
	if len(d.Changes) == 0 {
		return "no changes"
	}
	parts := make([]string, len(d.Changes))
	for i, c := range d.Changes {
		parts[i] = fmt.Sprintf("%s: %s -> %s", c.Name, c.OldType, c.NewType)
	}
	return strings.Join(parts, ", ")
}

// Validate confirms the post-rewrite invariants between an original table
// and its rewritten counterpart: equal row counts, equal column
// name/order sequences, equal null positions per column, and for every
// column a rewritten type whose range contains the original column's
// actual bounds. It returns the Diff of type changes on success.
//
// A violation is an implementation bug upstream, not a data condition; it
// surfaces as a schema mismatch error naming the offending column and the
// conflicting values, and must never be silently ignored.
func Validate(original, rewritten *types.Table) (Diff, error) {
	if original.RowCount() != rewritten.RowCount() {
		return Diff{}, cerrors.NewSchemaMismatchError("",
			fmt.Sprintf("row count changed: %d -> %d", original.RowCount(), rewritten.RowCount()))
	}
	if original.NumColumns() != rewritten.NumColumns() {
		return Diff{}, cerrors.NewSchemaMismatchError("",
			fmt.Sprintf("column count changed: %d -> %d", original.NumColumns(), rewritten.NumColumns()))
	}

	var diff Diff
	for i := 0; i < original.NumColumns(); i++ {
		origCol := original.ColumnAt(i)
		newCol := rewritten.ColumnAt(i)

		if origCol.Name() != newCol.Name() {
			return Diff{}, cerrors.NewSchemaMismatchError(origCol.Name(),
				fmt.Sprintf("column order changed: position %d is %q, was %q", i, newCol.Name(), origCol.Name()))
		}

		origScan := origCol.Scan()
		newScan := newCol.Scan()
		bounds := types.EmptyBounds()
		for row := 0; ; row++ {
			ov, ok := origScan.Next()
			if !ok {
				break
			}
			nv, _ := newScan.Next()
			if ov.IsNull() != nv.IsNull() {
				return Diff{}, cerrors.NewSchemaMismatchError(origCol.Name(),
					fmt.Sprintf("null position changed at row %d", row))
			}
			if ov.IsNull() {
				continue
			}
			if ov != nv {
				return Diff{}, cerrors.NewSchemaMismatchError(origCol.Name(),
					fmt.Sprintf("value changed at row %d", row))
			}
			if origCol.Type().IsInteger() {
				bounds = bounds.Observe(ov.Int64())
			}
		}

		if origCol.Type().IsInteger() {
			if !newCol.Type().IsInteger() {
				return Diff{}, cerrors.NewSchemaMismatchError(origCol.Name(),
					fmt.Sprintf("integer column rewritten to %s", newCol.Type()))
			}
			if !bounds.Empty && !newCol.Type().ContainsRange(bounds.Min, bounds.Max) {
				return Diff{}, cerrors.NewSchemaMismatchError(origCol.Name(),
					fmt.Sprintf("type %s does not contain actual bounds %s", newCol.Type(), bounds))
			}
		} else if origCol.Type() != newCol.Type() {
			return Diff{}, cerrors.NewSchemaMismatchError(origCol.Name(),
				fmt.Sprintf("non-integer column type changed: %s -> %s", origCol.Type(), newCol.Type()))
		}

		if origCol.Type() != newCol.Type() {
			diff.Changes = append(diff.Changes, ColumnChange{
				Name:    origCol.Name(),
				OldType: origCol.Type(),
				NewType: newCol.Type(),
				Bounds:  bounds,
			})
		}
	}

	return diff, nil
}
