package calculate_quote

import "errors"

var (
	// ErrUnknownService no price table for the service
	ErrUnknownService = errors.New("unknown service: please contact us directly")

	// ErrInvalidPostcode postcode is not in a UK format
	ErrInvalidPostcode = errors.New("invalid postcode")

	// ErrInvalidInput malformed selections, distance or time
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal internal failure of the use case
	ErrInternal = errors.New("usecase: internal error")
)
