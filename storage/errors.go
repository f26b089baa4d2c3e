// Package storage holds the contracts shared by the store implementations:
// the observability interfaces the engines accept and the error sentinels
// they surface. The orchestrating packages (catalog, statistics) depend on
// their own consumer-side store interfaces, not on this package; storage
// exists so every engine speaks the same failure and instrumentation
// vocabulary.
package storage

import "errors"

var (
	// ErrNilDatabaseConnection is returned by engine constructors when the supplied connection is nil.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyTableName is returned when an empty table name is configured.
	ErrEmptyTableName = errors.New("empty table name supplied")

	// ErrBuildingQueryFailed is returned when SQL query construction fails.
	ErrBuildingQueryFailed = errors.New("building sql query failed")

	// ErrQueryFailed is returned when executing a read query fails.
	ErrQueryFailed = errors.New("executing query failed")

	// ErrExecFailed is returned when executing a write statement fails.
	ErrExecFailed = errors.New("executing statement failed")

	// ErrScanningRowFailed is returned when scanning a result row fails.
	ErrScanningRowFailed = errors.New("scanning database row failed")

	// ErrInvalidLoansJSON is returned when a persisted loan list is not valid JSON.
	ErrInvalidLoansJSON = errors.New("loans json is not valid")

	// ErrInvalidDocumentJSON is returned when a persisted statistics document is not valid JSON.
	ErrInvalidDocumentJSON = errors.New("statistics document json is not valid")
)
