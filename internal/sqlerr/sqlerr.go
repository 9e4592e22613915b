// Package sqlerr handles database driver errors.
//
// It parses SQLSTATE codes from pgx and converts them into application
// errors with user-friendly messages (a unique violation on
// token_addresses becomes "A Token Address with this identifier already
// exists", status 400).
package sqlerr

import "fmt"

// Code is the application category of a database error.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	StringTooLong       Code = "string_data_right_truncation"
	InvalidText         Code = "invalid_text_representation"
	ConnectionFailure   Code = "connection_failure"
)

// sqlStates maps Postgres SQLSTATE values to Code.
var sqlStates = map[string]Code{
	"23502": NotNullViolation,
	"23503": ForeignKeyViolation,
	"23505": UniqueViolation,
	"23514": CheckViolation,
	"22001": StringTooLong,
	"22P02": InvalidText,
	"08000": ConnectionFailure,
	"08003": ConnectionFailure,
	"08006": ConnectionFailure,
}

// MapCode converts a SQLSTATE into a Code.
func MapCode(sqlState string) Code {
	if code, ok := sqlStates[sqlState]; ok {
		return code
	}
	return Other
}

// Severity mirrors the Postgres message severity.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// MapSeverity converts the raw severity string; unknown values map to
// SeverityError.
func MapSeverity(severity string) Severity {
	switch s := Severity(severity); s {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return s
	default:
		return SeverityError
	}
}

// Error is a normalised database error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Severity, e.DatabaseCode, e.Message)
}

// Unwrap returns the original driver error.
func (e *Error) Unwrap() error {
	return e.driverErr
}
