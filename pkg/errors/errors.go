// Package errors defines the coded errors shared by every nightsky package.
//
// A code says what kind of failure happened without parsing messages. The
// CLI prints [UserMessage]; the HTTP host turns [Code.Class] into a status.
//
//	g, err := loader.Load(ctx, "sky.json")
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // no such document under the base URL
//	}
//
// Codes are grouped by prefix: INVALID_* for bad input, *NOT_FOUND for
// missing resources, NETWORK_ERROR and TIMEOUT for transport failures and
// INTERNAL_ERROR for everything else.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH" // undecodable or inconsistent sky document

	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeNodeNotFound    Code = "NODE_NOT_FOUND"    // link end with no matching node
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND" // unknown or expired viewer session

	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Class is the broad family of a code.
type Class int

const (
	ClassInternal Class = iota
	ClassInvalid
	ClassNotFound
	ClassNetwork
	ClassTimeout
)

// Class reports the family of c. Unknown codes are internal.
func (c Code) Class() Class {
	switch {
	case c == ErrCodeTimeout:
		return ClassTimeout
	case c == ErrCodeNetwork:
		return ClassNetwork
	case strings.HasPrefix(string(c), "INVALID_"):
		return ClassInvalid
	case strings.HasSuffix(string(c), "NOT_FOUND"):
		return ClassNotFound
	}
	return ClassInternal
}

// Error carries a code, a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with an underlying cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost coded error in err's chain, or
// "" if there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error without its code, or
// err.Error() for any other error.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
