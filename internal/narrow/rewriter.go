package narrow

import (
	cerrors "github.com/cinchdb/cinch/internal/errors"
	"github.com/cinchdb/cinch/pkg/types"
)

// Rewrite produces a new column with the target logical type, identical
// row count, identical null positions, and identical integer values. The
// input column is never mutated. A rewrite to the column's current type
// is a no-op that still returns a structurally distinct column, so a
// caller holding the input never aliases the output.
//
// Every present value is range-checked against the target type. The check
// cannot trigger when the target was derived from this column's own
// bounds, but it protects against a caller bypassing the pipeline and
// supplying an arbitrary target; a violation surfaces as an overflow
// error naming the column, value, and target type.
func Rewrite(col *types.Column, target types.LogicalType) (*types.Column, error) {
	if !col.Type().IsInteger() {
		return nil, cerrors.New(cerrors.ErrCategoryNarrow, cerrors.CodeUnsupportedType,
			"column "+col.Name()+" has non-integer type "+col.Type().String())
	}
	if !target.IsInteger() {
		return nil, cerrors.New(cerrors.ErrCategoryNarrow, cerrors.CodeUnsupportedType,
			"target type "+target.String()+" is not an integer type")
	}

	values := make([]types.Value, col.Len())
	scanner := col.Scan()
	for i := 0; ; i++ {
		v, ok := scanner.Next()
		if !ok {
			break
		}
		if v.IsNull() {
			// Null positions pass through unconditionally; converting a
			// value-carrying type never alters the nullability of a row.
			values[i] = types.Null()
			continue
		}
		if !target.ContainsInt(v.Int64()) {
			return nil, cerrors.NewOverflowError(col.Name(), v.Int64(), target.String())
		}
		values[i] = v
	}

	return types.NewColumn(col.Name(), target, col.Nullable(), values)
}
