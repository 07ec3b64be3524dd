// Package sentinel holds the errors data sources wrap so that sources.Classify
// can sort any adapter failure into a source error category.
package sentinel

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("unavailable")
	// ErrMismatch marks an endpoint that answers but does not serve the
	// expected contract interface.
	ErrMismatch = errors.New("contract mismatch")
)
