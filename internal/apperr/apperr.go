// Package apperr carries the HTTP-facing error taxonomy of the parse
// pipeline: bad input (400), transcript timeout (408), transcript
// unavailable (422), and misconfiguration (500). Stage code wraps
// failures in these so the API server can map them without inspecting
// message text.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an error with an associated HTTP status code.
type Error struct {
	Status int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error with the given status and formatted message.
func New(status int, format string, args ...any) *Error {
	return &Error{Status: status, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a status to an underlying error.
func Wrap(status int, err error, msg string) *Error {
	return &Error{Status: status, Msg: msg, Err: err}
}

// BadInput marks a user-correctable input problem (unsupported kind,
// unsafe URL, malformed request).
func BadInput(format string, args ...any) *Error {
	return New(http.StatusBadRequest, format, args...)
}

// Unavailable marks a transcript or extraction that could not be
// produced; the client should suggest pasting text manually.
func Unavailable(format string, args ...any) *Error {
	return New(http.StatusUnprocessableEntity, format, args...)
}

// Timeout marks a transcript job that exceeded its wall-clock budget;
// the client should suggest retrying.
func Timeout(format string, args ...any) *Error {
	return New(http.StatusRequestTimeout, format, args...)
}

// Misconfigured marks a missing or broken server-side credential.
func Misconfigured(format string, args ...any) *Error {
	return New(http.StatusInternalServerError, format, args...)
}

// StatusOf returns the HTTP status carried by err, or 500 when err has
// no status attached.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// IsStatus reports whether err carries the given HTTP status.
func IsStatus(err error, status int) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Status == status
}
