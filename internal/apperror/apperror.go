// Package apperror defines the error value handlers return when they want a
// specific HTTP status and message to reach the client.
package apperror

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

const maxStackDepth = 32

// Kind classifies any error reaching the global error handler.
type Kind int

const (
	KindUnknown Kind = iota
	KindOperational
	KindConflict
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindOperational:
		return "operational"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is an anticipated failure with a defined HTTP status.
type Error struct {
	StatusCode  int
	Message     string
	Operational bool
	Details     any

	cause error
	pcs   []uintptr
}

// New creates an operational Error and records the caller's program
// counters. They are only symbolized when Stack is called.
func New(status int, message string) *Error {
	return newError(status, message, 3)
}

// WithDetails creates an operational Error carrying a details payload.
func WithDetails(status int, message string, details any) *Error {
	e := newError(status, message, 3)
	e.Details = details
	return e
}

func newError(status int, message string, skip int) *Error {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip, pcs)
	return &Error{
		StatusCode:  status,
		Message:     message,
		Operational: true,
		pcs:         pcs[:n],
	}
}

// WithCause records the sentinel or lower-level error this one stands for,
// so errors.Is keeps matching it.
func (e *Error) WithCause(cause error) *Error {
	e.cause = cause
	return e
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Stack formats the call stack recorded when the error was created.
func (e *Error) Stack() string {
	if len(e.pcs) == 0 {
		return ""
	}
	var b strings.Builder
	frames := runtime.CallersFrames(e.pcs)
	for {
		f, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return b.String()
}

func BadRequest(message string) *Error {
	return newError(http.StatusBadRequest, message, 3)
}

func Unauthorized(message string) *Error {
	return newError(http.StatusUnauthorized, message, 3)
}

func NotFound(message string) *Error {
	return newError(http.StatusNotFound, message, 3)
}

func Conflict(message string) *Error {
	return newError(http.StatusConflict, message, 3)
}
