package narrow

import "github.com/cinchdb/cinch/pkg/types"

// EmptyColumnPolicy controls which width an all-null column narrows to.
// There is no numeric evidence to narrow from, so this is policy, not
// observation.
type EmptyColumnPolicy int

const (
	// EmptyNarrowest narrows an all-null column to Int8, treating it as
	// requiring zero bits of payload. This is the default.
	EmptyNarrowest EmptyColumnPolicy = iota

	// EmptyPreserveWidth keeps an all-null column at its original width.
	EmptyPreserveWidth
)

// String returns the policy name used in configuration files.
func (p EmptyColumnPolicy) String() string {
	switch p {
	case EmptyPreserveWidth:
		return "preserve"
	default:
		return "narrowest"
	}
}

// SelectWidth returns the narrowest integer type whose range contains the
// bounds. Candidates are evaluated in strictly increasing width order;
// because each integer type's range is a proper subset of the next, the
// first match is the unique narrowest type and no tie-break is needed.
// Empty bounds select Int8.
func SelectWidth(b types.Bounds) types.LogicalType {
	if b.Empty {
		return types.Int8
	}
	for _, t := range types.IntegerTypes() {
		if t.ContainsRange(b.Min, b.Max) {
			return t
		}
	}
	// Unreachable for int64 bounds: Int64 contains every int64 range.
	return types.Int64
}

// SelectWidthWithPolicy applies the empty-column policy on top of
// SelectWidth. For non-empty bounds the policy is irrelevant and the
// result is identical to SelectWidth.
func SelectWidthWithPolicy(b types.Bounds, original types.LogicalType, policy EmptyColumnPolicy) types.LogicalType {
	if b.Empty && policy == EmptyPreserveWidth {
		return original
	}
	return SelectWidth(b)
}
