package validation

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/singnet/snet-converter-services/internal/errs"
)

// Validatable is implemented by typed request structs that validate
// themselves, usually by returning ValidateStruct(r).Err().
type Validatable interface {
	Validate() error
}

// ValidateStruct validates a tagged struct with the shared validator and
// applies the same message format as Validate. A nil or non-struct value is
// rejected as an unknown value.
func ValidateStruct(v any) Result {
	err := validate.Struct(v)
	if err == nil {
		return Result{}
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return Result{Violations: []Violation{{Tag: TagUnknownValue, Message: unknownValueMessage}}}
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return Result{Violations: []Violation{{Message: err.Error()}}}
	}

	result := Result{Violations: make([]Violation, 0, len(validationErrors))}
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		result.Violations = append(result.Violations, Violation{
			Field:   field,
			Tag:     fe.Tag(),
			Message: fmt.Sprintf("%s %s", field, describe(fe.Tag(), fe.Param(), fe.Kind())),
		})
	}
	return result
}

// RawBodyRequest is implemented by requests whose JSON body is validated
// later against a Schema. BindAndValidate hands them the raw body and only
// binds path parameters.
type RawBodyRequest interface {
	SetRawBody(body []byte)
}

// BindAndValidate binds the request into payload and validates it.
// Both failures come back as a 400 *errs.HTTPError.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if raw, ok := payload.(RawBodyRequest); ok {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return errs.NewBadRequestError("invalid request body", false, nil, nil, nil)
		}
		raw.SetRawBody(body)

		if err := (&echo.DefaultBinder{}).BindPathParams(c, payload); err != nil {
			return errs.NewBadRequestError("invalid path parameters", false, nil, nil, nil)
		}
		return payload.Validate()
	}

	if err := c.Bind(payload); err != nil {
		message := "invalid request"
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			if msg, ok := echoErr.Message.(string); ok {
				message = msg
			}
		}
		return errs.NewBadRequestError(message, false, nil, nil, nil)
	}

	return payload.Validate()
}

// describe turns a validator tag into the predicate part of a message.
func describe(tag, param string, kind reflect.Kind) string {
	switch tag {
	case "required":
		return "is required"

	case "min":
		if kind == reflect.String {
			return fmt.Sprintf("must be at least %s characters", param)
		}
		return fmt.Sprintf("must be at least %s", param)

	case "max":
		if kind == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", param)
		}
		return fmt.Sprintf("must not exceed %s", param)

	case "len":
		return fmt.Sprintf("must be exactly %s characters", param)

	case "oneof":
		return fmt.Sprintf("must be one of: %s", param)

	case "uuid", "uuid4":
		return "must be a valid UUID"

	case "alphanum":
		return "must contain only letters and numbers"

	case "hexadecimal":
		return "must be a hexadecimal string"

	case "startswith":
		return fmt.Sprintf("must start with %s", param)

	case "dive":
		return "some items are invalid"

	default:
		if param != "" {
			return fmt.Sprintf("failed %s:%s", tag, param)
		}
		return fmt.Sprintf("failed %s", tag)
	}
}

// ruleName strips the parameter from a tag: "max=20" -> "max".
func ruleName(tag string) string {
	name, _, _ := strings.Cut(tag, "=")
	return name
}

// IsValidUUID checks whether s parses as a UUID.
func IsValidUUID(s string) bool {
	return uuid.Validate(s) == nil
}
