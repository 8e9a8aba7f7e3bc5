package pricing

import "errors"

var (
	// ErrOverrideNotFound no override stored for the service
	ErrOverrideNotFound = errors.New("override not found")

	// ErrUnknownService service key is not in the catalog
	ErrUnknownService = errors.New("unknown service")

	// ErrInvalidInput override values out of range
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal storage failure
	ErrInternal = errors.New("service: internal error")
)
