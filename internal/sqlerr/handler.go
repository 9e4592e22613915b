package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/singnet/snet-converter-services/internal/errs"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// tablePrefix marks the table name inside a wrapped ErrNoRows message.
//
// NotFound writes "table:<name>: no rows in result set" and HandleError
// reads the name back to phrase the 404 ("Token Pair not found").
const tablePrefix = "table:"

// uniqueKeyPattern matches "<table>_<column>_key" and "<table>_<column>_ukey",
// the names Postgres generates for inline UNIQUE constraints. The first
// submatch is the column.
var uniqueKeyPattern = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// ErrCode reports the mapped Code for a given error.
//
// Behavior:
//   - an *Error anywhere in the chain: its Code
//   - a raw *pgconn.PgError anywhere in the chain: its SQLSTATE mapped
//     through MapCode
//   - anything else: Other
//
// Repositories wrap driver errors with fmt.Errorf, so callers can check a
// category without converting first:
//
//	if sqlerr.ErrCode(err) == sqlerr.UniqueViolation { ... }
func ErrCode(err error) Code {
	var sqlErr *Error
	// errors.As follows Unwrap through every fmt.Errorf("%w") layer.
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return MapCode(pgerr.Code)
	}
	return Other
}

// ConvertPgError converts a raw Postgres error into an *Error.
//
// pgconn.PgError carries the server's diagnostic fields (SQLSTATE,
// severity, table, column, constraint). They are copied as is; the SQLSTATE
// and severity are additionally mapped to the package enums so callers can
// switch on them.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),         // "23505" => UniqueViolation
		Severity:       MapSeverity(src.Severity), // "ERROR" => SeverityError
		DatabaseCode:   src.Code,                  // original SQLSTATE
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src, // kept for Unwrap
	}
}

// NotFound wraps pgx.ErrNoRows with the table name so HandleError can
// phrase the 404 message.
//
// Repositories call it when a single-row query comes back empty:
//
//	sqlerr.NotFound("token_addresses") // => "Token Address not found"
//	sqlerr.NotFound("blockchains")     // => "Blockchain not found"
//
// errors.Is(err, pgx.ErrNoRows) still holds for the result.
func NotFound(table string) error {
	return fmt.Errorf("%s%s: %w", tablePrefix, table, pgx.ErrNoRows)
}

// singularize strips the plural suffix of a snake_case table name.
//
//	token_addresses -> token_address
//	currencies      -> currency
//	users           -> user
func singularize(name string) string {
	switch {
	case strings.HasSuffix(name, "sses"), strings.HasSuffix(name, "xes"):
		return name[:len(name)-2]
	case strings.HasSuffix(name, "ies") && len(name) > 3:
		return name[:len(name)-3] + "y"
	case strings.HasSuffix(name, "s") && len(name) > 1:
		return name[:len(name)-1]
	default:
		return name
	}
}

// generateErrorCode creates machine-readable codes from a table and a
// violation type.
//
// Output format:
//
//	<DOMAIN>_<ACTION>
//
// Examples:
//
//	token_addresses + UniqueViolation => TOKEN_ADDRESS_ALREADY_EXISTS
//	token_pairs     + CheckViolation  => TOKEN_PAIR_INVALID
//	""              + StringTooLong   => RECORD_TOO_LONG
//
// DOMAIN is the singular table name, upper-cased; RECORD when the server
// did not report a table.
func generateErrorCode(tableName string, errType Code) string {
	domain := "RECORD"
	if tableName != "" {
		domain = strings.ToUpper(singularize(tableName))
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation, InvalidText:
		action = "INVALID"
	case StringTooLong:
		action = "TOO_LONG"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// formatUserFriendlyMessage produces the end-user-facing message.
//
// Messages never contain values from the failing row, only table and
// column names turned into words ("The Blockchain value does not meet
// required conditions").
func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		// "identifier" is replaced by the column name when it can be inferred.
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(columnFromCheckConstraint(sqlErr.TableName, sqlErr.ConstraintName))
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	case StringTooLong:
		return "One or more values exceed the allowed length"

	case InvalidText:
		return "One or more values have an invalid format"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName infers an entity name from table/column data.
//
//  1. column "<x>_id" -> X (foreign keys)
//  2. singular table name
//  3. "record"
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		return humanizeText(strings.TrimSuffix(strings.ToLower(columnName), "_id"))
	}

	if tableName != "" {
		return humanizeText(singularize(tableName))
	}

	return "record"
}

// humanizeText converts snake_case into Title Case.
//
//	token_address => Token Address
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation infers the column from a unique
// constraint name: "unique_<table>_<column>" or "<table>_<column>_key".
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	matches := uniqueKeyPattern.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// columnFromCheckConstraint reads "<table>_<column>_check", the name
// Postgres gives inline column checks.
func columnFromCheckConstraint(tableName, constraintName string) string {
	if tableName == "" || !strings.HasPrefix(constraintName, tableName+"_") || !strings.HasSuffix(constraintName, "_check") {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(constraintName, tableName+"_"), "_check")
}

// HandleError converts a low-level database error into an *errs.HTTPError.
//
// Conversion rules, first match wins:
//   - *errs.HTTPError anywhere in the chain: returned unchanged
//   - *pgconn.PgError: mapped by SQLSTATE, see below
//   - ErrNoRows (pgx or database/sql): 404, phrased with the table name
//     when NotFound was used, "Resource not found" otherwise
//   - anything else: 500 with the generic status text
//
// Postgres errors:
//   - foreign key violation: 400 "The referenced <X> does not exist"
//   - unique violation: 400, column named when the constraint reveals it
//   - not null violation: 400 with a field error for the column
//   - check violation, value too long, invalid text: 400
//   - any other SQLSTATE: 500
//
// The response formatter calls it once for every failed operation; the
// original error is logged by the service, never sent to the client.
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)

		errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
		userMessage := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			return errs.NewBadRequestError(userMessage, false, &errorCode, nil, nil)

		case UniqueViolation:
			columnName := extractColumnForUniqueViolation(sqlErr.ConstraintName)
			if columnName != "" {
				userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(columnName))
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		case NotNullViolation:
			fieldErrors := []errs.FieldError{
				{
					Field: strings.ToLower(sqlErr.ColumnName),
					Error: "is required",
				},
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors, nil)

		case CheckViolation, StringTooLong, InvalidText:
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		errMsg := err.Error()
		if strings.Contains(errMsg, tablePrefix) {
			table := strings.Split(strings.Split(errMsg, tablePrefix)[1], ":")[0]
			entityName := getEntityName(table, "")
			return errs.NewNotFoundError(fmt.Sprintf("%s not found", entityName), true, nil)
		}
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
