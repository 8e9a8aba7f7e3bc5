package distance

import "errors"

var (
	// ErrPostcodeNotFound geocoder does not know the postcode
	ErrPostcodeNotFound = errors.New("distance: postcode not found")

	// ErrInvalidPostcode postcode is not in a UK format
	ErrInvalidPostcode = errors.New("distance: invalid postcode")

	// ErrInternal failed to build or send the request
	ErrInternal = errors.New("distance client: internal error")

	// ErrInvalidResponse unexpected status or body from the geocoder
	ErrInvalidResponse = errors.New("distance client: invalid response")

	// ErrServiceDegraded geocoder unavailable; the distance is unknown
	ErrServiceDegraded = errors.New("distance lookup unavailable: distance unknown")
)
