package recipes

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed failure taxonomy for the recommendation pipeline.
// Callers branch on the kind, never on error text.
type ErrorKind int

const (
	// ErrNetworkUnreachable means the endpoint could not be reached at all.
	ErrNetworkUnreachable ErrorKind = iota
	// ErrUpstream means the endpoint answered with a server-side failure.
	ErrUpstream
	// ErrRateLimited means a usage budget or upstream throttle was hit.
	ErrRateLimited
	// ErrInvalidInput means we built a malformed request; a caller bug.
	ErrInvalidInput
	// ErrInvalidResponse means the response could not be decoded.
	ErrInvalidResponse
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNetworkUnreachable:
		return "network-unreachable"
	case ErrUpstream:
		return "upstream-error"
	case ErrRateLimited:
		return "rate-limit-exceeded"
	case ErrInvalidInput:
		return "invalid-input"
	case ErrInvalidResponse:
		return "invalid-response"
	default:
		return "unknown"
	}
}

// Error tags a failure with a taxonomy kind and an optional short detail.
// Detail is safe to show to an end user; raw response bodies never go in it.
type Error struct {
	Kind   ErrorKind
	Detail string
	cause  error
}

func newError(kind ErrorKind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, cause: cause}
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf extracts the taxonomy kind from err, unwrapping as needed.
func KindOf(err error) (ErrorKind, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return 0, false
}

// IsRetryable reports whether err is a transient failure worth re-attempting.
// Only connectivity loss and upstream server failures qualify; everything
// else in the taxonomy surfaces immediately.
func IsRetryable(err error) bool {
	kind, ok := KindOf(err)
	if !ok {
		return false
	}
	return kind == ErrNetworkUnreachable || kind == ErrUpstream
}
