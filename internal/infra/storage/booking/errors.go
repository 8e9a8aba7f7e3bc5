package booking

import "errors"

var (
	// ErrBookingNotFound booking does not exist
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrDuplicateReference reference collision on insert
	ErrDuplicateReference = errors.New("booking.repository: duplicate reference")

	// ErrBuildQuery failed to build SQL
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery failed to execute SQL
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow failed to scan a result row
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
