package types

import "fmt"

// Bounds is the inclusive (min, max) pair of a column's non-null integer
// values, or the distinguished Empty state when the column has no
// non-null values. Empty is a valid terminal state, not an error: a
// column with no data carries no numeric evidence to narrow from.
type Bounds struct {
	Min   int64 `json:"min"`
	Max   int64 `json:"max"`
	Empty bool  `json:"empty,omitempty"`
}

// NewBounds returns non-empty bounds for the inclusive range [min, max].
func NewBounds(min, max int64) Bounds {
	return Bounds{Min: min, Max: max}
}

// EmptyBounds returns the distinguished empty state.
func EmptyBounds() Bounds {
	return Bounds{Empty: true}
}

// Observe extends the bounds to include v.
func (b Bounds) Observe(v int64) Bounds {
	if b.Empty {
		return Bounds{Min: v, Max: v}
	}
	if v < b.Min {
		b.Min = v
	}
	if v > b.Max {
		b.Max = v
	}
	return b
}

// String returns a readable form for logs and error details.
func (b Bounds) String() string {
	if b.Empty {
		return "empty"
	}
	return fmt.Sprintf("[%d, %d]", b.Min, b.Max)
}
