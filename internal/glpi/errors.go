package glpi

import (
	"errors"
	"fmt"
)

// Error is the structured error type carried in execution results.
type Error struct {
	Code    string `json:"code"`              // Machine-readable error code
	Message string `json:"message"`           // Human-readable message
	Details any    `json:"details,omitempty"` // Additional context
}

func (e *Error) Error() string {
	return e.Message
}

// Errorf builds an *Error with a formatted message.
func Errorf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error codes used across the adapter.
const (
	// CodeInvalidOperation: the operation identifier does not parse to a
	// recognized method and template.
	CodeInvalidOperation = "invalid_operation"

	// CodeMissingPathParams: a path template still contains {tokens} after
	// substitution.
	CodeMissingPathParams = "missing_path_params"

	// CodeAuthFailed: the token endpoint call failed transport-level.
	CodeAuthFailed = "auth_failed"

	// CodeNoAccessToken: the token endpoint answered without an access_token.
	CodeNoAccessToken = "no_access_token"

	// CodeRequestFailed: the downstream HTTP call failed before a response.
	CodeRequestFailed = "request_failed"

	// CodeValueError: reading a supplied parameter value failed for real
	// (as opposed to the value not applying to the operation).
	CodeValueError = "value_error"
)

// HTTPErrorCode returns the error code for a non-2xx response status.
func HTTPErrorCode(statusCode int) string {
	return fmt.Sprintf("http_%d", statusCode)
}

// ErrNotApplicable is the soft parameter-lookup failure: the field does not
// apply to the current item. Value lookups return it (wrapped or bare) to mean
// "no value supplied"; the dispatcher swallows it. Any other lookup error is a
// hard failure and propagates.
var ErrNotApplicable = errors.New("parameter not applicable")
