package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singnet/snet-converter-services/internal/errs"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleError_Nil(t *testing.T) {
	assert.NoError(t, HandleError(nil))
}

func TestHandleError_PassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewForbiddenError("nope", true)
	assert.Same(t, original, HandleError(original))
}

func TestHandleError_UniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      "token_addresses",
		ConstraintName: "token_addresses_symbol_key",
	})

	httpErr := asHTTPError(t, HandleError(err))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "TOKEN_ADDRESS_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A Token Address with this Symbol already exists", httpErr.Message)
	assert.True(t, httpErr.Override)
}

func TestHandleError_NotNullViolation(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(&pgconn.PgError{
		Code:       "23502",
		TableName:  "token_addresses",
		ColumnName: "contract",
	}))

	assert.Equal(t, "TOKEN_ADDRESS_REQUIRED", httpErr.Code)
	assert.Equal(t, "The Contract is required", httpErr.Message)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "contract", httpErr.Errors[0].Field)
}

func TestHandleError_CheckViolation(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(&pgconn.PgError{
		Code:           "23514",
		TableName:      "token_addresses",
		ConstraintName: "token_addresses_blockchain_check",
	}))

	assert.Equal(t, "TOKEN_ADDRESS_INVALID", httpErr.Code)
	assert.Equal(t, "The Blockchain value does not meet required conditions", httpErr.Message)
}

func TestHandleError_StringTooLong(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(&pgconn.PgError{Code: "22001"}))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "RECORD_TOO_LONG", httpErr.Code)
}

func TestHandleError_UnknownPgErrorIsInternal(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(&pgconn.PgError{Code: "XX000"}))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestHandleError_NoRows(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(NotFound("token_addresses")))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Token Address not found", httpErr.Message)

	httpErr = asHTTPError(t, HandleError(pgx.ErrNoRows))
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestHandleError_Unknown(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "Internal Server Error", httpErr.Message)
}

func TestErrCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, ErrCode(fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "23505"})))
	assert.Equal(t, CheckViolation, ErrCode(ConvertPgError(&pgconn.PgError{Code: "23514"})))
	assert.Equal(t, Other, ErrCode(errors.New("x")))
}

func TestConvertPgError_Unwrap(t *testing.T) {
	src := &pgconn.PgError{Code: "23505", Severity: "FATAL", Message: "dup"}
	converted := ConvertPgError(src)

	assert.Equal(t, SeverityFatal, converted.Severity)
	assert.Equal(t, "FATAL 23505: dup", converted.Error())

	var pgerr *pgconn.PgError
	assert.True(t, errors.As(converted, &pgerr))
}

func TestSingularize(t *testing.T) {
	assert.Equal(t, "token_address", singularize("token_addresses"))
	assert.Equal(t, "currency", singularize("currencies"))
	assert.Equal(t, "user", singularize("users"))
	assert.Equal(t, "box", singularize("boxes"))
	assert.Equal(t, "data", singularize("data"))
}

func TestMapSeverity(t *testing.T) {
	assert.Equal(t, SeverityWarning, MapSeverity("WARNING"))
	assert.Equal(t, SeverityError, MapSeverity("weird"))
}
