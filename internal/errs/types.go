package errs

import (
	"net/http"
)

// ExpiredTokenMessage is the reserved message for an expired credential.
//
// The response formatter treats it specially: an envelope carrying this
// message is always reported with 403, whatever the success flag says.
const ExpiredTokenMessage = "EXPIRED_TOKEN"

// ErrExpiredToken is returned when a caller presents an expired credential.
//
// It is a shared value, so compare with errors.Is or errors.As rather than
// mutating it. The Action tells the client to sign in again.
var ErrExpiredToken = &HTTPError{
	Code:     ExpiredTokenMessage,
	Message:  ExpiredTokenMessage,
	Status:   http.StatusForbidden,
	Override: true,
	Action: &Action{
		Type:    ActionTypeReauthenticate,
		Message: "credentials expired",
	},
}

// NewUnauthorizedError creates a 401 Unauthorized HTTPError.
//
// Parameters:
//   - message: text returned to the client
//   - override: whether the message is safe to show as is; when false the
//     error handler may swap it for the generic status text
func NewUnauthorizedError(message string, override bool) *HTTPError {
	return &HTTPError{
		// "Unauthorized" => "UNAUTHORIZED"
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusUnauthorized)),
		Message:  message,
		Status:   http.StatusUnauthorized,
		Override: override,
	}
}

// NewForbiddenError creates a 403 Forbidden HTTPError.
func NewForbiddenError(message string, override bool) *HTTPError {
	return &HTTPError{
		// "Forbidden" => "FORBIDDEN"
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusForbidden)),
		Message:  message,
		Status:   http.StatusForbidden,
		Override: override,
	}
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// Optional payload:
//   - code: custom machine code (nil means "BAD_REQUEST"); used by sqlerr
//     for codes such as TOKEN_ADDRESS_ALREADY_EXISTS
//   - errors: field-level details, one per failed field
//   - action: instruction for the client (redirect, reauthenticate, ...)
//
// Validation failures and constraint violations both end up here.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	// "Bad Request" => "BAD_REQUEST"
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))

	// A custom code is used verbatim; callers format it themselves.
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
//
// Like NewBadRequestError it accepts an optional custom code. The response
// formatter still reports it to clients as a 400 envelope with this message
// ("Token Address not found").
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	// "Not Found" => "NOT_FOUND"
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// Notes:
//   - the message is always the generic status text; the real cause is
//     logged by the caller and never returned
//   - Override is false, so handlers never replace it with anything more
//     specific
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// ValidationError wraps any validation error into a 400 Bad Request.
//
// Usage:
//
//	if err := cfg.Validate(); err != nil {
//		return errs.ValidationError(err)
//	}
//
// The message becomes "Validation failed: <cause>".
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil, nil)
}
