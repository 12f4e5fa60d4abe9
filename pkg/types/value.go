// Package types provides the core data model for Cinch: values, logical
// types, columns, tables, schemas, and bounds.
package types

import "math"

// Value is a single cell in a column: either a present payload or a null
// marker. Integer payloads are carried as int64 regardless of the column's
// declared width so that bounds comparisons never overflow. Float payloads
// are stored as the IEEE-754 bit pattern of the float64, which keeps Value
// comparable with == and makes structural equality exact.
type Value struct {
	bits int64
	null bool
}

// Present returns a non-null integer value.
func Present(v int64) Value {
	return Value{bits: v}
}

// PresentFloat returns a non-null float value.
func PresentFloat(v float64) Value {
	return Value{bits: int64(math.Float64bits(v))}
}

// Null returns the null marker.
func Null() Value {
	return Value{null: true}
}

// IsNull reports whether the value is the null marker.
func (v Value) IsNull() bool {
	return v.null
}

// Int64 returns the integer payload. The result is meaningless for null
// values or values belonging to a float column.
func (v Value) Int64() int64 {
	return v.bits
}

// Float64 returns the float payload. The result is meaningless for null
// values or values belonging to an integer column.
func (v Value) Float64() float64 {
	return math.Float64frombits(uint64(v.bits))
}
