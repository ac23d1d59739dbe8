package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error is the single structured error kind for dispatch failures. Network
// errors, non-2xx statuses and malformed payloads are all normalized into
// it; the Endpoints map names the upstream calls involved for debugging.
type Error struct {
	Message   string
	Endpoints map[string]string
	Err       error
}

func (e *Error) Error() string {
	if e == nil {
		return "dispatch error"
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "dispatch error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError creates a dispatch error with a formatted message.
func NewError(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// WithEndpoint records a named upstream endpoint on the error.
func (e *Error) WithEndpoint(name, url string) *Error {
	if e.Endpoints == nil {
		e.Endpoints = make(map[string]string)
	}
	e.Endpoints[name] = url
	return e
}

// WithCause attaches the underlying error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// AsDispatchError extracts a *Error from err, if present.
func AsDispatchError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsTimeout reports whether the failure was a deadline or network timeout.
// Dispatch never retries; callers use this only for log detail.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
