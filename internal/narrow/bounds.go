package narrow

import "github.com/cinchdb/cinch/pkg/types"

// ColumnBounds computes the inclusive minimum and maximum over a column's
// non-null values in a single pass, skipping null entries. Comparisons
// run over the int64 carrier regardless of the column's declared width,
// so a wide column can never overflow during bounds tracking. Returns the
// Empty state when the column has no non-null values.
//
// The scan is authoritative: the column's nullable flag is ignored here
// because a producer may mark every column nullable regardless of actual
// null presence.
func ColumnBounds(col *types.Column) types.Bounds {
	b := types.EmptyBounds()
	scanner := col.Scan()
	for {
		v, ok := scanner.Next()
		if !ok {
			break
		}
		if v.IsNull() {
			continue
		}
		b = b.Observe(v.Int64())
	}
	return b
}
