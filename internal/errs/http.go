// Package errs defines the application error shape.
//
// Every failure that reaches a caller is eventually an *HTTPError: it
// carries a machine code, a human message, the HTTP status and optional
// field-level details. The response package turns it into an envelope.
package errs

import "strings"

// FieldError represents a field-level validation error.
//
//	{ "field": "symbol", "error": "must not exceed 20 characters" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

const (
	// ActionTypeRedirect tells the client it should redirect somewhere.
	ActionTypeRedirect ActionType = "redirect"

	// ActionTypeReauthenticate tells the client its credentials are stale.
	ActionTypeReauthenticate ActionType = "reauthenticate"
)

// Action describes an optional follow-up instruction for the client.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the main custom error type.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: the message is safe to show to end users as is.
//   - Errors: per-field errors (validation).
//   - Action: client instruction (optional).
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors"`
	Action   *Action      `json:"action"`
}

// Error returns the message.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError with the same code, or
// any *HTTPError when target has no code.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// WithMessage returns a copy of e with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
	}
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
