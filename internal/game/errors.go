package game

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes failures surfaced to callers.
type ErrorCode string

const (
	// CodeNotFound indicates the game or consequence does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeForbidden indicates the caller is not allowed to act on the document.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// CodeInvalidState indicates the action does not apply in the current phase.
	CodeInvalidState ErrorCode = "INVALID_STATE"

	// CodeInvalidArgument indicates a malformed or self-contradictory argument.
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// CodeTransactionConflict indicates retries were exhausted under contention.
	CodeTransactionConflict ErrorCode = "TRANSACTION_CONFLICT"
)

// Error is a categorized domain error.
//
// Op names the operation that failed ("submit guess"). Err, when set, is the
// underlying cause and is reachable through errors.Is / errors.As.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf creates an Error with a formatted message.
func Errorf(code ErrorCode, op, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around an underlying cause.
func Wrap(code ErrorCode, op string, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

// CodeOf returns the code of the first Error in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsNotFound reports whether err carries CodeNotFound.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsForbidden reports whether err carries CodeForbidden.
func IsForbidden(err error) bool { return CodeOf(err) == CodeForbidden }

// IsInvalidState reports whether err carries CodeInvalidState.
func IsInvalidState(err error) bool { return CodeOf(err) == CodeInvalidState }

// IsInvalidArgument reports whether err carries CodeInvalidArgument.
func IsInvalidArgument(err error) bool { return CodeOf(err) == CodeInvalidArgument }

// IsConflict reports whether err carries CodeTransactionConflict.
func IsConflict(err error) bool { return CodeOf(err) == CodeTransactionConflict }
