package pricing

import "errors"

var (
	// ErrOverrideNotFound no override stored for the service
	ErrOverrideNotFound = errors.New("pricing.repository: override not found")

	// ErrBuildQuery failed to build SQL
	ErrBuildQuery = errors.New("pricing.repository: failed to build query")

	// ErrExecQuery failed to execute SQL
	ErrExecQuery = errors.New("pricing.repository: failed to execute query")

	// ErrScanRow failed to scan a result row
	ErrScanRow = errors.New("pricing.repository: failed to scan row")
)
