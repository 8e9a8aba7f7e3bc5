package get_availability

import "errors"

var (
	// ErrUnknownService no configuration for the requested service
	ErrUnknownService = errors.New("unknown service: please contact us directly")

	// ErrInvalidDate date is in the past
	ErrInvalidDate = errors.New("invalid booking date")

	// ErrDateTooFarInFuture date is beyond the advance booking window
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrInvalidInput malformed request
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal internal failure of the use case
	ErrInternal = errors.New("usecase: internal error")
)
