package sources

import (
	"context"
	"errors"
	"fmt"

	"passport/internal/sentinel"
)

// ErrorCategory is the closed failure taxonomy for data source calls.
//
// Adapters classify raw upstream failures once, at their boundary. Nothing
// above this package inspects error text.
type ErrorCategory string

const (
	// ErrorNotFound indicates the requested passport or record doesn't exist
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorTimeout indicates the source took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the source returned a value that could not be decoded
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorSourceOutage indicates the source is unreachable or failing
	ErrorSourceOutage ErrorCategory = "source_outage"

	// ErrorContractMismatch indicates the bound endpoint does not speak the expected interface
	ErrorContractMismatch ErrorCategory = "contract_mismatch"

	// ErrorInternal indicates an unexpected failure
	ErrorInternal ErrorCategory = "internal"
)

// SourceError wraps a data source failure with its category.
type SourceError struct {
	Category   ErrorCategory
	Source     SourceKind
	Op         string
	Message    string
	Underlying error
}

func (e *SourceError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("source %s.%s [%s]: %s: %v", e.Source, e.Op, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("source %s.%s [%s]: %s", e.Source, e.Op, e.Category, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Underlying
}

// NewSourceError builds a classified failure.
func NewSourceError(category ErrorCategory, source SourceKind, op, message string, underlying error) *SourceError {
	return &SourceError{
		Category:   category,
		Source:     source,
		Op:         op,
		Message:    message,
		Underlying: underlying,
	}
}

// NotFound is shorthand for a not_found failure.
func NotFound(source SourceKind, op, message string) *SourceError {
	return NewSourceError(ErrorNotFound, source, op, message, sentinel.ErrNotFound)
}

// Classify converts an arbitrary error into a *SourceError. Errors that are
// already classified pass through untouched; otherwise context and sentinel
// errors are mapped and anything else is internal.
func Classify(source SourceKind, op string, err error) error {
	if err == nil {
		return nil
	}
	var se *SourceError
	if errors.As(err, &se) {
		return se
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return NewSourceError(ErrorTimeout, source, op, "call abandoned", err)
	case errors.Is(err, sentinel.ErrNotFound):
		return NewSourceError(ErrorNotFound, source, op, "record not found", err)
	case errors.Is(err, sentinel.ErrUnavailable):
		return NewSourceError(ErrorSourceOutage, source, op, "source unavailable", err)
	case errors.Is(err, sentinel.ErrMismatch):
		return NewSourceError(ErrorContractMismatch, source, op, "unexpected contract interface", err)
	case errors.Is(err, sentinel.ErrInvalidInput):
		return NewSourceError(ErrorBadData, source, op, "invalid value", err)
	default:
		return NewSourceError(ErrorInternal, source, op, "unexpected failure", err)
	}
}

// CategoryOf extracts the category, treating unclassified errors as internal.
func CategoryOf(err error) ErrorCategory {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Category
	}
	return ErrorInternal
}

// IsNotFound reports whether err is a classified not_found failure.
func IsNotFound(err error) bool {
	return err != nil && CategoryOf(err) == ErrorNotFound
}
