package connector

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorType classifies call failures for uniform error surfacing.
type ErrorType string

const (
	// ErrorTypeUnsupportedMethod indicates a method the dispatcher does not recognize.
	// Detected before any network I/O.
	ErrorTypeUnsupportedMethod ErrorType = "unsupported_method"

	// ErrorTypeConnection indicates a network-level failure (DNS, refused, timeout, TLS).
	ErrorTypeConnection ErrorType = "connection_error"

	// ErrorTypeParse indicates a response body that could not be parsed as JSON.
	ErrorTypeParse ErrorType = "parse_error"

	// ErrorTypeServer indicates a server-reported failure (status outside [200,399]).
	ErrorTypeServer ErrorType = "server_error"

	// ErrorTypeValidation indicates malformed action input, detected before any network call.
	ErrorTypeValidation ErrorType = "validation_error"

	// ErrorTypeUnknownAction indicates an action identifier that matches no operation.
	ErrorTypeUnknownAction ErrorType = "unknown_action"
)

// Error represents a classified call failure. Exactly one Error describes
// each failed call; the Type field carries the classification.
type Error struct {
	// Type classifies the failure
	Type ErrorType

	// Message is the human-readable error description
	Message string

	// StatusCode is the HTTP status code (server errors only)
	StatusCode int

	// Body is the decoded response body (server errors only), retained
	// as diagnostic data for later rendering
	Body interface{}

	// RawText is the unparsed response body with braces stripped (parse errors only)
	RawText string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message

	if e.Type != "" {
		msg = fmt.Sprintf("%s (type: %s)", msg, e.Type)
	}

	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s [HTTP %d]", msg, e.StatusCode)
	}

	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}

	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewUnsupportedMethodError creates an error for a method the dispatcher does not recognize.
func NewUnsupportedMethodError(method string) *Error {
	return &Error{
		Type:    ErrorTypeUnsupportedMethod,
		Message: fmt.Sprintf("Unsupported method: %s", method),
	}
}

// NewConnectionError creates an error for network-level failures.
func NewConnectionError(cause error) *Error {
	return &Error{
		Type:    ErrorTypeConnection,
		Message: fmt.Sprintf("Error connecting to server. Details: %v", cause),
		Cause:   cause,
	}
}

// NewParseError creates an error for a response body that is not valid JSON.
// Braces in the raw text are replaced with spaces so the message cannot
// corrupt downstream templating.
func NewParseError(rawText string, cause error) *Error {
	stripped := stripBraces(rawText, " ")
	return &Error{
		Type:    ErrorTypeParse,
		Message: fmt.Sprintf("Unable to parse response as JSON. Raw text: %s", stripped),
		RawText: stripped,
		Cause:   cause,
	}
}

// NewServerError creates an error for a status code outside [200,399].
// The decoded body is retained and its brace-stripped rendering embedded
// in the message.
func NewServerError(statusCode int, body interface{}) *Error {
	detail := ""
	if body != nil {
		if encoded, err := json.Marshal(body); err == nil {
			detail = stripBraces(string(encoded), "")
		}
	}
	return &Error{
		Type:       ErrorTypeServer,
		Message:    fmt.Sprintf("Error from server. Status code: %d. Details: %s", statusCode, detail),
		StatusCode: statusCode,
		Body:       body,
	}
}

// NewValidationError creates an error for malformed action input.
func NewValidationError(message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeValidation,
		Message: message,
		Cause:   cause,
	}
}

// NewUnknownActionError creates an error for an unrecognized action identifier.
func NewUnknownActionError(actionID string) *Error {
	return &Error{
		Type:    ErrorTypeUnknownAction,
		Message: fmt.Sprintf("Unknown action identifier: %s", actionID),
	}
}

// stripBraces replaces literal { and } characters with the given replacement.
func stripBraces(s, replacement string) string {
	s = strings.ReplaceAll(s, "{", replacement)
	return strings.ReplaceAll(s, "}", replacement)
}
