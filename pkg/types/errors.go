package types

import "errors"

// Data model construction errors.
var (
	// ErrUnknownType is returned when a type name does not match any
	// known logical type.
	ErrUnknownType = errors.New("unknown logical type")

	// ErrNullInNonNullable is returned when a column declared non-nullable
	// contains a null value.
	ErrNullInNonNullable = errors.New("null value in non-nullable column")

	// ErrValueOutOfRange is returned when a value does not fit the
	// column's declared type.
	ErrValueOutOfRange = errors.New("value out of range for declared type")

	// ErrRowCountMismatch is returned when a table's columns disagree on
	// row count.
	ErrRowCountMismatch = errors.New("row count mismatch between columns")

	// ErrDuplicateColumn is returned when a table contains two columns
	// with the same name.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrEmptyColumnName is returned when a column is constructed without
	// a name.
	ErrEmptyColumnName = errors.New("column name cannot be empty")
)
