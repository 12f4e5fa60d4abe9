package types

import (
	"encoding/json"
	"fmt"
	"math"
)

// LogicalType identifies the storage type of a column. The integer types
// form a strictly widening chain: the value range of each is a proper
// subset of the next, so "the narrowest type containing a range" is always
// unique.
type LogicalType int

const (
	Int8 LogicalType = iota
	Int16
	Int32
	Int64
	Float64
)

// IntegerTypes returns the integer types in strictly increasing width
// order. Callers searching for the narrowest representation must iterate
// in this order.
func IntegerTypes() []LogicalType {
	return []LogicalType{Int8, Int16, Int32, Int64}
}

// String returns the canonical name of the type.
func (t LogicalType) String() string {
	switch t {
	case Int8:
		return "INT8"
	case Int16:
		return "INT16"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Float64:
		return "FLOAT64"
	default:
		return fmt.Sprintf("LogicalType(%d)", int(t))
	}
}

// ParseLogicalType parses a canonical type name.
func ParseLogicalType(s string) (LogicalType, error) {
	switch s {
	case "INT8":
		return Int8, nil
	case "INT16":
		return Int16, nil
	case "INT32":
		return Int32, nil
	case "INT64":
		return Int64, nil
	case "FLOAT64":
		return Float64, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// IsInteger reports whether the type belongs to the integer family.
func (t LogicalType) IsInteger() bool {
	switch t {
	case Int8, Int16, Int32, Int64:
		return true
	default:
		return false
	}
}

// ByteWidth returns the encoded width of a single value in bytes.
func (t LogicalType) ByteWidth() int {
	switch t {
	case Int8:
		return 1
	case Int16:
		return 2
	case Int32:
		return 4
	default:
		return 8
	}
}

// MinInt returns the smallest representable integer value. Only meaningful
// for integer types.
func (t LogicalType) MinInt() int64 {
	switch t {
	case Int8:
		return math.MinInt8
	case Int16:
		return math.MinInt16
	case Int32:
		return math.MinInt32
	default:
		return math.MinInt64
	}
}

// MaxInt returns the largest representable integer value. Only meaningful
// for integer types.
func (t LogicalType) MaxInt() int64 {
	switch t {
	case Int8:
		return math.MaxInt8
	case Int16:
		return math.MaxInt16
	case Int32:
		return math.MaxInt32
	default:
		return math.MaxInt64
	}
}

// ContainsInt reports whether v is representable in the type.
func (t LogicalType) ContainsInt(v int64) bool {
	return t.IsInteger() && v >= t.MinInt() && v <= t.MaxInt()
}

// ContainsRange reports whether the inclusive range [min, max] is
// representable in the type.
func (t LogicalType) ContainsRange(min, max int64) bool {
	return t.IsInteger() && min >= t.MinInt() && max <= t.MaxInt()
}

// MarshalJSON encodes the type as its canonical name.
func (t LogicalType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes the type from its canonical name.
func (t *LogicalType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLogicalType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
