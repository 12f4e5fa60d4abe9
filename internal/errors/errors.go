// Package errors provides structured error types for the Cinch system.
// All errors include a category, code, message, and retryable flag for
// consistent error handling across components.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by system component.
type ErrorCategory string

const (
	ErrCategoryValidation ErrorCategory = "VALIDATION"
	ErrCategoryNarrow     ErrorCategory = "NARROW"
	ErrCategoryCodec      ErrorCategory = "CODEC"
	ErrCategoryCatalog    ErrorCategory = "CATALOG"
	ErrCategoryStorage    ErrorCategory = "STORAGE"
	ErrCategoryInternal   ErrorCategory = "INTERNAL"
)

// Error codes for each category.
const (
	// Validation codes
	CodeInvalidSchema = "INVALID_SCHEMA"
	CodeEmptyTable    = "EMPTY_TABLE"

	// Narrow codes. Overflow and schema mismatch indicate pipeline
	// misuse or an implementation bug respectively; neither is a data
	// condition and neither is ever retried.
	CodeOverflow        = "OVERFLOW"
	CodeSchemaMismatch  = "SCHEMA_MISMATCH"
	CodeUnsupportedType = "UNSUPPORTED_TYPE"

	// Codec codes
	CodeBadMagic           = "BAD_MAGIC"
	CodeUnsupportedVersion = "UNSUPPORTED_VERSION"
	CodeCorruptFile        = "CORRUPT_FILE"
	CodeWriteFailed        = "WRITE_FAILED"

	// Catalog codes
	CodeRunNotFound  = "RUN_NOT_FOUND"
	CodeCatalogWrite = "CATALOG_WRITE_FAILED"

	// Storage codes
	CodeUploadFailed   = "UPLOAD_FAILED"
	CodeDownloadFailed = "DOWNLOAD_FAILED"
	CodeObjectNotFound = "OBJECT_NOT_FOUND"

	// Internal codes
	CodeUnexpected = "UNEXPECTED"
)

// CinchError is the structured error type used throughout the system.
type CinchError struct {
	Category  ErrorCategory
	Code      string
	Message   string
	Details   map[string]interface{}
	Cause     error
	Retryable bool
}

// Error returns a formatted error string.
func (e *CinchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *CinchError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
func (e *CinchError) Is(target error) bool {
	var t *CinchError
	if errors.As(target, &t) {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new CinchError.
func New(category ErrorCategory, code, message string) *CinchError {
	return &CinchError{
		Category:  category,
		Code:      code,
		Message:   message,
		Retryable: isRetryable(category, code),
	}
}

// Wrap creates a new CinchError wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *CinchError {
	return &CinchError{
		Category:  category,
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: isRetryable(category, code),
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *CinchError) WithDetails(details map[string]interface{}) *CinchError {
	cp := *e
	cp.Details = details
	return &cp
}

// IsRetryable checks whether an error (or its chain) is retryable.
func IsRetryable(err error) bool {
	var ce *CinchError
	if errors.As(err, &ce) {
		return ce.Retryable
	}
	return false
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not a CinchError.
func GetCategory(err error) ErrorCategory {
	var ce *CinchError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not a CinchError.
func GetCode(err error) string {
	var ce *CinchError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// isRetryable determines if an error code is retryable. Only transient
// storage failures qualify; narrowing and codec errors are defects or
// corrupt inputs and retrying cannot fix them.
func isRetryable(category ErrorCategory, code string) bool {
	switch {
	case category == ErrCategoryStorage && code == CodeUploadFailed:
		return true
	case category == ErrCategoryStorage && code == CodeDownloadFailed:
		return true
	default:
		return false
	}
}

// Convenience constructors for common errors.

// NewOverflowError reports a value that does not fit the type selected
// for it. This indicates the rewriter was handed a target type that was
// not derived from the column's own bounds.
func NewOverflowError(column string, value int64, target string) *CinchError {
	return New(ErrCategoryNarrow, CodeOverflow,
		fmt.Sprintf("column %q: value %d does not fit %s", column, value, target)).
		WithDetails(map[string]interface{}{
			"column": column,
			"value":  value,
			"target": target,
		})
}

// NewSchemaMismatchError reports a post-rewrite invariant violation.
// This indicates a bug upstream, not a data condition, and must be
// surfaced to the caller rather than ignored.
func NewSchemaMismatchError(column, reason string) *CinchError {
	return New(ErrCategoryNarrow, CodeSchemaMismatch,
		fmt.Sprintf("column %q: %s", column, reason)).
		WithDetails(map[string]interface{}{
			"column": column,
			"reason": reason,
		})
}

func NewValidationError(code, message string) *CinchError {
	return New(ErrCategoryValidation, code, message)
}

func NewCodecError(code, message string, cause error) *CinchError {
	return Wrap(ErrCategoryCodec, code, message, cause)
}

func NewCatalogError(code, message string, cause error) *CinchError {
	return Wrap(ErrCategoryCatalog, code, message, cause)
}

func NewStorageError(code, message string, cause error) *CinchError {
	return Wrap(ErrCategoryStorage, code, message, cause)
}

func NewInternalError(message string, cause error) *CinchError {
	return Wrap(ErrCategoryInternal, CodeUnexpected, message, cause)
}
