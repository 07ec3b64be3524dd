// Package domainerrors carries stable, transport-neutral failure codes. The
// HTTP layer maps them to statuses; the CLI prints them as-is.
package domainerrors

import "errors"

type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeInternal     Code = "internal_error"
	CodeTimeout      Code = "timeout"
	CodeRateLimited  Code = "rate_limited"

	CodeNotConnected      Code = "not_connected"      // operation attempted before a session was bound
	CodeInvalidHandle     Code = "invalid_handle"     // handle is neither a numeric identifier nor an address
	CodeNoIdentity        Code = "no_identity"        // handle resolved to no passport where one is required
	CodeSourceUnavailable Code = "source_unavailable" // optional source is not bound
	CodeUpstreamFailure   Code = "upstream_failure"   // mandatory registry call failed
)

type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so sentinels built with New
// compare by code rather than identity.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap annotates err. A code already present in the chain wins over code.
func Wrap(err error, code Code, msg string) error {
	if existing, ok := CodeOf(err); ok {
		code = existing
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the code of the first domain error in err's chain.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

func HasCode(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
