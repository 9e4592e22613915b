package validation

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singnet/snet-converter-services/internal/errs"
)

var testSchema = Schema{
	Fields: []Field{
		{Name: "blockchain", Required: true, Rules: []Rule{
			{Tag: TagString},
			{Tag: "oneof=ETHEREUM CARDANO"},
		}},
		{Name: "symbol", Required: true, Rules: []Rule{
			{Tag: TagString},
			{Tag: "min=1"},
			{Tag: "max=5"},
		}},
		{Name: "note", Rules: []Rule{
			{Tag: TagString},
			{Tag: "max=10", Message: "note is too long"},
		}},
		{Name: "is_active", Rules: []Rule{{Tag: TagBoolean}}},
	},
}

func TestValidate_Valid(t *testing.T) {
	result := Validate(testSchema, map[string]any{
		"blockchain": "ETHEREUM",
		"symbol":     "AGIX",
		"note":       "fine",
		"is_active":  true,
	})

	assert.True(t, result.OK())
	assert.NoError(t, result.Err())
	_, ok := result.First()
	assert.False(t, ok)
}

func TestValidate_MissingOptionalFieldPasses(t *testing.T) {
	result := Validate(testSchema, map[string]any{
		"blockchain": "CARDANO",
		"symbol":     "ADA",
	})

	assert.True(t, result.OK())
}

func TestValidate_NullOptionalFieldIsSkipped(t *testing.T) {
	result := Validate(testSchema, map[string]any{
		"blockchain": "CARDANO",
		"symbol":     "ADA",
		"note":       nil,
	})

	assert.True(t, result.OK())
}

func TestValidate_MissingRequiredField(t *testing.T) {
	result := Validate(testSchema, map[string]any{"blockchain": "CARDANO"})

	first, ok := result.First()
	require.True(t, ok)
	assert.Equal(t, "symbol", first.Field)
	assert.Equal(t, TagDefined, first.Tag)
	assert.Equal(t, "symbol should not be null or undefined", first.Message)
}

func TestValidate_UnknownFieldRejected(t *testing.T) {
	result := Validate(testSchema, map[string]any{
		"blockchain": "ETHEREUM",
		"symbol":     "AGIX",
		"owner":      "someone",
	})

	require.False(t, result.OK())
	first, _ := result.First()
	assert.Equal(t, TagWhitelist, first.Tag)
	assert.Equal(t, "property owner should not exist", first.Message)
}

func TestValidate_UnknownValueRejected(t *testing.T) {
	for _, input := range []any{nil, "string", 42, []any{"a"}, map[string]any(nil)} {
		result := Validate(testSchema, input)

		first, ok := result.First()
		require.True(t, ok)
		assert.Equal(t, TagUnknownValue, first.Tag)
		assert.Equal(t, unknownValueMessage, first.Message)
	}
}

func TestValidate_TwoViolationsSurfaceOnlyTheFirst(t *testing.T) {
	result := Validate(testSchema, map[string]any{
		"blockchain": "BITCOIN",
		"symbol":     "TOOLONGSYMBOL",
	})

	require.Len(t, result.Violations, 2)

	err := result.Err()
	require.Error(t, err)
	assert.Equal(t, "blockchain must be one of: ETHEREUM CARDANO", err.Error())

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "blockchain", httpErr.Errors[0].Field)

	assert.Len(t, result.FieldErrors(), 2)
}

func TestValidate_StopsAtFirstRulePerField(t *testing.T) {
	result := Validate(testSchema, map[string]any{
		"blockchain": "ETHEREUM",
		"symbol":     12345.0,
	})

	require.Len(t, result.Violations, 1)
	assert.Equal(t, "symbol must be a string", result.Violations[0].Message)
	assert.Equal(t, TagString, result.Violations[0].Tag)
}

func TestValidate_RuleMessages(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]any
		message string
		tag     string
	}{
		{
			name:    "max length",
			input:   map[string]any{"blockchain": "ETHEREUM", "symbol": "ABCDEFG"},
			message: "symbol must not exceed 5 characters",
			tag:     "max",
		},
		{
			name:    "min length",
			input:   map[string]any{"blockchain": "ETHEREUM", "symbol": ""},
			message: "symbol must be at least 1 characters",
			tag:     "min",
		},
		{
			name:    "custom message",
			input:   map[string]any{"blockchain": "ETHEREUM", "symbol": "A", "note": "this is far too long"},
			message: "note is too long",
			tag:     "max",
		},
		{
			name:    "boolean",
			input:   map[string]any{"blockchain": "ETHEREUM", "symbol": "A", "is_active": "yes"},
			message: "is_active must be a boolean value",
			tag:     TagBoolean,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, ok := Validate(testSchema, tt.input).First()
			require.True(t, ok)
			assert.Equal(t, tt.message, first.Message)
			assert.Equal(t, tt.tag, first.Tag)
		})
	}
}

func TestValidate_UnknownKeysAreSortedBeforeFields(t *testing.T) {
	result := Validate(testSchema, map[string]any{
		"zeta":       1,
		"alpha":      1,
		"blockchain": "NOPE",
		"symbol":     "A",
	})

	require.Len(t, result.Violations, 3)
	assert.Equal(t, "alpha", result.Violations[0].Field)
	assert.Equal(t, "zeta", result.Violations[1].Field)
	assert.Equal(t, "blockchain", result.Violations[2].Field)
}

type decoded struct {
	Blockchain string  `json:"blockchain"`
	Symbol     string  `json:"symbol"`
	Note       *string `json:"note"`
	IsActive   *bool   `json:"is_active"`
}

func TestDecodeAndValidate(t *testing.T) {
	var dst decoded
	result := DecodeAndValidate(testSchema, []byte(`{"blockchain":"CARDANO","symbol":"ADA"}`), &dst)

	require.True(t, result.OK())
	assert.Equal(t, "CARDANO", dst.Blockchain)
	assert.Equal(t, "ADA", dst.Symbol)
	assert.Nil(t, dst.IsActive)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	var dst decoded
	result := DecodeAndValidate(testSchema, []byte(`{"blockchain":`), &dst)

	first, ok := result.First()
	require.True(t, ok)
	assert.Equal(t, TagJSON, first.Tag)
}

func TestDecodeAndValidate_NonObject(t *testing.T) {
	var dst decoded
	result := DecodeAndValidate(testSchema, []byte(`[1,2,3]`), &dst)

	first, ok := result.First()
	require.True(t, ok)
	assert.Equal(t, TagUnknownValue, first.Tag)
}

type listRequest struct {
	Blockchain string `query:"blockchain" validate:"omitempty,oneof=ETHEREUM CARDANO"`
	Limit      int    `query:"limit" validate:"min=0,max=100"`
}

func TestValidateStruct(t *testing.T) {
	assert.True(t, ValidateStruct(&listRequest{Blockchain: "ETHEREUM", Limit: 10}).OK())
	assert.True(t, ValidateStruct(&listRequest{}).OK())

	result := ValidateStruct(&listRequest{Blockchain: "BITCOIN", Limit: 1000})
	require.Len(t, result.Violations, 2)
	assert.Equal(t, "blockchain must be one of: ETHEREUM CARDANO", result.Violations[0].Message)
	assert.Equal(t, "limit must not exceed 100", result.Violations[1].Message)
}

func TestValidateStruct_UnknownValue(t *testing.T) {
	first, ok := ValidateStruct(nil).First()
	require.True(t, ok)
	assert.Equal(t, TagUnknownValue, first.Tag)

	first, ok = ValidateStruct("not a struct").First()
	require.True(t, ok)
	assert.Equal(t, TagUnknownValue, first.Tag)
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("4f1c2d3e-5a6b-4c7d-8e9f-0a1b2c3d4e5f"))
	assert.False(t, IsValidUUID("not-a-uuid"))
}
