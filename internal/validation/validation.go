// Package validation checks input payloads before they reach a repository.
//
// Rules are data: a Schema lists Fields, each Field lists Rules, and each
// Rule is a go-playground/validator tag evaluated against the decoded value.
// The evaluation policy is fixed for every call:
//
//   - a nil or non-object input is rejected
//   - keys the schema does not declare are rejected
//   - keys that are absent (or null) are skipped unless the field is Required
//   - each field stops at its first failing rule
//
// Violations are reported in a deterministic order: the unknown-value check,
// then unknown keys sorted by name, then schema fields in declaration order.
// Callers that only want one message use Result.First or Result.Err.
package validation

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/singnet/snet-converter-services/internal/errs"
)

// validate is shared; validator caches struct metadata and is safe for
// concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Policy tags reported by the evaluator itself rather than by validator.
const (
	TagUnknownValue = "unknownValue"
	TagWhitelist    = "whitelist"
	TagDefined      = "isDefined"
	TagJSON         = "json"
)

// JSON type tags. They are checked locally because validator has no notion
// of "decoded JSON string" versus "decoded JSON number".
const (
	TagString  = "string"
	TagBoolean = "boolean"
	TagNumber  = "number"
)

const unknownValueMessage = "an unknown value was passed to the validate function"

// Rule is a single constraint. Tag is a validator tag ("max=20",
// "oneof=ETHEREUM CARDANO") or one of the JSON type tags. Message overrides
// the generated message when set.
type Rule struct {
	Tag     string
	Message string
}

// Field is the rule set for one input key.
type Field struct {
	Name     string
	Required bool
	Rules    []Rule
}

// Schema is an ordered list of fields.
type Schema struct {
	Fields []Field
}

// has reports whether the schema declares key.
func (s Schema) has(key string) bool {
	for _, f := range s.Fields {
		if f.Name == key {
			return true
		}
	}
	return false
}

// Violation is a single failed constraint.
type Violation struct {
	Field   string
	Tag     string
	Message string
}

// Result is the outcome of a validation run.
type Result struct {
	Violations []Violation
}

// OK reports whether no constraint failed.
func (r Result) OK() bool {
	return len(r.Violations) == 0
}

// First returns the first violation in evaluation order.
func (r Result) First() (Violation, bool) {
	if r.OK() {
		return Violation{}, false
	}
	return r.Violations[0], true
}

// Err returns nil on success, otherwise a 400 *errs.HTTPError carrying
// only the first violation. The rest are discarded.
func (r Result) Err() error {
	first, ok := r.First()
	if !ok {
		return nil
	}
	return errs.NewBadRequestError(first.Message, true, nil, []errs.FieldError{toFieldError(first)}, nil)
}

// FieldErrors converts every violation for callers that want the full list.
func (r Result) FieldErrors() []errs.FieldError {
	if r.OK() {
		return nil
	}
	fieldErrors := make([]errs.FieldError, 0, len(r.Violations))
	for _, v := range r.Violations {
		fieldErrors = append(fieldErrors, toFieldError(v))
	}
	return fieldErrors
}

func toFieldError(v Violation) errs.FieldError {
	return errs.FieldError{Field: v.Field, Error: v.Message}
}

// Validate evaluates input against schema. Input is a decoded JSON object.
func Validate(schema Schema, input any) Result {
	object, ok := input.(map[string]any)
	if !ok || object == nil {
		return Result{Violations: []Violation{{Tag: TagUnknownValue, Message: unknownValueMessage}}}
	}

	var result Result

	unknown := make([]string, 0)
	for key := range object {
		if !schema.has(key) {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		result.Violations = append(result.Violations, Violation{
			Field:   key,
			Tag:     TagWhitelist,
			Message: fmt.Sprintf("property %s should not exist", key),
		})
	}

	for _, field := range schema.Fields {
		value, present := object[field.Name]
		if !present || value == nil {
			if field.Required {
				result.Violations = append(result.Violations, Violation{
					Field:   field.Name,
					Tag:     TagDefined,
					Message: fmt.Sprintf("%s should not be null or undefined", field.Name),
				})
			}
			continue
		}

		if v, failed := evaluateField(field, value); failed {
			result.Violations = append(result.Violations, v)
		}
	}

	return result
}

// evaluateField runs the rules of one field and stops at the first failure.
func evaluateField(field Field, value any) (Violation, bool) {
	for _, rule := range field.Rules {
		message, failed := evaluateRule(field.Name, rule, value)
		if !failed {
			continue
		}
		if rule.Message != "" {
			message = rule.Message
		}
		return Violation{Field: field.Name, Tag: ruleName(rule.Tag), Message: message}, true
	}
	return Violation{}, false
}

func evaluateRule(name string, rule Rule, value any) (string, bool) {
	switch rule.Tag {
	case TagString:
		_, ok := value.(string)
		return fmt.Sprintf("%s must be a string", name), !ok
	case TagBoolean:
		_, ok := value.(bool)
		return fmt.Sprintf("%s must be a boolean value", name), !ok
	case TagNumber:
		_, ok := value.(float64)
		return fmt.Sprintf("%s must be a number", name), !ok
	}

	err := validate.Var(value, rule.Tag)
	if err == nil {
		return "", false
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return fmt.Sprintf("%s: %s", name, err.Error()), true
	}
	fe := validationErrors[0]
	return fmt.Sprintf("%s %s", name, describe(fe.Tag(), fe.Param(), fe.Kind())), true
}

// DecodeAndValidate decodes a JSON object, validates it against schema and,
// when valid, decodes it again into dst.
func DecodeAndValidate(schema Schema, data []byte, dst any) Result {
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return Result{Violations: []Violation{{Tag: TagJSON, Message: "invalid JSON payload"}}}
	}

	result := Validate(schema, input)
	if !result.OK() {
		return result
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return Result{Violations: []Violation{{Tag: TagJSON, Message: fmt.Sprintf("invalid JSON payload: %s", err.Error())}}}
	}
	return result
}
