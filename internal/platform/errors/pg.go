package errors

// Postgres helpers: map pgx errors onto ErrorCode for the model registry paths

import (
	stderrs "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the registry can run into
const (
	pgErrUndefinedTable            = "42P01"
	pgErrInvalidTextRepresentation = "22P02"
	pgErrInvalidJSONText           = "22032"
	pgErrNotNullViolation          = "23502"
	pgErrCheckViolation            = "23514"
	pgErrQueryCanceled             = "57014" // statement_timeout lands here
	pgErrCannotConnectNow          = "57P03"
	pgErrReadOnlySQLTransaction    = "25006"
)

// ExtractPgError returns the *pgconn.PgError at the root of err
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether err is a Postgres error with code
func IsSQLState(err error, code string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == code
}

// IsUndefinedTable reports a missing relation, typically an empty registry
func IsUndefinedTable(err error) bool { return IsSQLState(err, pgErrUndefinedTable) }

// DBErrorCode maps a Postgres error to an ErrorCode, !ok when err is not a PgError
func DBErrorCode(err error) (ErrorCode, bool) {
	pgErr, ok := ExtractPgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	switch pgErr.Code {
	case pgErrUndefinedTable:
		return ErrorCodeNotFound, true
	case pgErrInvalidTextRepresentation, pgErrInvalidJSONText, pgErrNotNullViolation, pgErrCheckViolation:
		return ErrorCodeInvalidArgument, true
	case pgErrQueryCanceled, pgErrCannotConnectNow, pgErrReadOnlySQLTransaction:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromPostgresf wraps err with its mapped code, ErrorCodeDB when err is not a PgError
// project errors pass through untouched
func FromPostgresf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	if _, ours := As(err); ours {
		return err
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, fmt.Sprintf(format, a...))
}
