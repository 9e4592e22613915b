// Package response builds the envelope every service-layer call returns:
//
//	{ "result": any, "statusCode": number, "message": string }
//
// The envelope is derived from (message, result, success) by fixed rules,
// never fails, and has no side effects.
package response

import (
	"errors"
	"net/http"

	"github.com/singnet/snet-converter-services/internal/errs"
	"github.com/singnet/snet-converter-services/internal/sqlerr"
)

const (
	// MessageOK is used for successful responses without a message.
	MessageOK = "OK"

	// MessageFailure is used for failed responses without a message.
	MessageFailure = "FAILURE"

	// ExpiredTokenMessage is the reserved message that forces a 403.
	ExpiredTokenMessage = errs.ExpiredTokenMessage
)

// Envelope is the normalized service-layer response.
type Envelope struct {
	Result     any    `json:"result"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// Success reports whether the envelope carries a 2xx status.
func (e Envelope) Success() bool {
	return e.StatusCode >= 200 && e.StatusCode < 300
}

// ServiceResponse applies, in order:
//  1. statusCode is 200 when success is true, 400 otherwise
//  2. an empty message becomes "OK" (200) or "FAILURE" (otherwise)
//  3. ExpiredTokenMessage forces 403 whatever the success flag
func ServiceResponse(message string, result any, success bool) Envelope {
	statusCode := http.StatusBadRequest
	if success {
		statusCode = http.StatusOK
	}

	if message == "" {
		if statusCode == http.StatusOK {
			message = MessageOK
		} else {
			message = MessageFailure
		}
	}

	if message == ExpiredTokenMessage {
		statusCode = http.StatusForbidden
	}

	return Envelope{Result: result, StatusCode: statusCode, Message: message}
}

// OK is ServiceResponse("", result, true).
func OK(result any) Envelope {
	return ServiceResponse("", result, true)
}

// Failure is ServiceResponse(message, nil, false).
func Failure(message string) Envelope {
	return ServiceResponse(message, nil, false)
}

// FromError formats a failure. Database errors are first translated by
// sqlerr so the message is user facing; the envelope status still follows
// ServiceResponse (400, or 403 for an expired token).
func FromError(err error) Envelope {
	if err == nil {
		return ServiceResponse("", nil, false)
	}

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		if !errors.As(sqlerr.HandleError(err), &httpErr) {
			return Failure("")
		}
	}

	return Failure(httpErr.Message)
}
