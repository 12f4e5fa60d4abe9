// Package narrow implements the integer narrowing pipeline: schema
// inspection, range analysis, width selection, column rewriting, and
// post-rewrite validation. Narrowing is an explicit, opt-in transform; it
// never happens as a side effect of reading a table.
package narrow

import "github.com/cinchdb/cinch/pkg/types"

// SelectIntegerColumns returns the names of columns whose logical type
// belongs to the integer family, in table order. Columns already at the
// narrowest width are included (a no-op candidate), as are columns marked
// nullable with zero actual nulls: schema-declared nullability is not
// evidence of data content, only a scan of the values is.
func SelectIntegerColumns(t *types.Table) []string {
	var names []string
	for _, col := range t.Columns() {
		if col.Type().IsInteger() {
			names = append(names, col.Name())
		}
	}
	return names
}
