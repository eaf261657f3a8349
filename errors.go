// Package dlt holds the error taxonomy shared across the daemon, the
// client library and the wire codec.
package dlt

import (
	"errors"
	"fmt"
)

// Code identifies one of the error categories the core distinguishes,
// independent of the human-readable message attached to an instance.
type Code string

const (
	CodeConfigMalformed  Code = "config malformed"
	CodeBindFailed       Code = "bind failed"
	CodeBufferTooSmall   Code = "buffer too small"
	CodeUnsupportedType  Code = "unsupported type"
	CodeMalformedIngest  Code = "malformed ingest"
	CodeQueueOverflow    Code = "queue overflow"
	CodeUnknownLevel     Code = "unknown level"
	CodeSendFailed       Code = "send failed"
	CodeClientSendFailed Code = "client send failed"
)

// Error is a structured error carrying the operation that failed, the
// category it falls under and, optionally, the error it wraps.
type Error struct {
	Op    string
	Code  Code
	Msg   string
	Inner error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Op != "" {
		return fmt.Sprintf("dlt: %s (op=%s)", msg, e.Op)
	}
	return fmt.Sprintf("dlt: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error { return e.Inner }

// Is provides errors.Is support keyed on Code alone.
func (e *Error) Is(target error) bool {
	var te *Error
	if errors.As(target, &te) {
		return e.Code == te.Code
	}
	return false
}

// New creates a structured error with no wrapped cause.
func New(op string, code Code, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// Wrap attaches op/code context to an existing error.
func Wrap(op string, code Code, inner error) *Error {
	if inner == nil {
		return nil
	}
	return &Error{Op: op, Code: code, Msg: inner.Error(), Inner: inner}
}

// IsCode reports whether err (or any error it wraps) carries code.
func IsCode(err error, code Code) bool {
	return errors.Is(err, &Error{Code: code})
}
