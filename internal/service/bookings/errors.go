package bookings

import "errors"

var (
	// ErrBookingNotFound booking does not exist or the caller may not see it
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied caller is neither the customer nor the manager
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel booking is already closed
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrInvalidStatus status cannot be set by hand
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidInput malformed reference, date or reason
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal storage failure
	ErrInternal = errors.New("service: internal error")
)
