package output

import (
	"errors"
	"fmt"
)

// Error is a structured error with code, message, and optional hint.
type Error struct {
	Code       string
	Message    string
	Hint       string
	HTTPStatus int
	Cause      error
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Hint)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	return ExitCodeFor(e.Code)
}

// Error constructors for common cases.

func ErrUsage(msg string) *Error {
	return &Error{Code: CodeUsage, Message: msg}
}

func ErrUsageHint(msg, hint string) *Error {
	return &Error{Code: CodeUsage, Message: msg, Hint: hint}
}

// ErrConfig covers precondition failures raised before any network call:
// unresolvable credentials, wrong buffer kind, absent marker lines.
func ErrConfig(msg string) *Error {
	return &Error{Code: CodeConfig, Message: msg}
}

func ErrConfigHint(msg, hint string) *Error {
	return &Error{Code: CodeConfig, Message: msg, Hint: hint}
}

func ErrAuth(msg string) *Error {
	return &Error{
		Code:       CodeAuth,
		Message:    msg,
		Hint:       "Run: atomx login",
		HTTPStatus: 401,
	}
}

func ErrNetwork(cause error) *Error {
	return &Error{
		Code:    CodeNetwork,
		Message: "Network error",
		Hint:    cause.Error(),
		Cause:   cause,
	}
}

func ErrAPI(status int, msg string) *Error {
	return &Error{
		Code:       CodeAPI,
		Message:    msg,
		HTTPStatus: status,
	}
}

// ErrPayload reports a response body that decoded but lacks the expected
// fields, such as an envelope without its named payload.
func ErrPayload(msg string) *Error {
	return &Error{Code: CodePayload, Message: msg}
}

// AsError attempts to convert an error to an *Error.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{
		Code:    CodeAPI,
		Message: err.Error(),
		Cause:   err,
	}
}
