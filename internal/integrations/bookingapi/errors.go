package bookingapi

import (
	"errors"
	"fmt"

	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/engine/availability"
)

var (
	// ErrBadRequest the API rejected the input (400)
	ErrBadRequest = errors.New("booking api: bad request")

	// ErrUnauthorized missing email or manager token (401)
	ErrUnauthorized = errors.New("booking api: unauthorized")

	// ErrForbidden email does not match the booking (403)
	ErrForbidden = errors.New("booking api: forbidden")

	// ErrNotFound unknown service, booking or override (404)
	ErrNotFound = errors.New("booking api: not found")

	// ErrConflict state conflict without a slot verdict, e.g. a concurrent booking (409)
	ErrConflict = errors.New("booking api: conflict")

	// ErrRateLimited too many requests from this client (429)
	ErrRateLimited = errors.New("booking api: rate limited")

	// ErrServiceUnavailable 5xx from the API
	ErrServiceUnavailable = errors.New("booking api: service unavailable")

	// ErrInternal failed to build or send the request
	ErrInternal = errors.New("booking api client: internal error")

	// ErrInvalidResponse unexpected status or body
	ErrInvalidResponse = errors.New("booking api client: invalid response")

	// ErrSlotNotAvailable the server-side re-check rejected the slot
	ErrSlotNotAvailable = errors.New("booking api: slot not available")
)

// SlotUnavailableError 409 from booking submission with the server's verdict
type SlotUnavailableError struct {
	Reason       availability.Reason
	Message      string
	Alternatives []int
}

func (e *SlotUnavailableError) Error() string {
	labels := make([]string, len(e.Alternatives))
	for i, s := range e.Alternatives {
		labels[i] = domain.SlotLabel(s)
	}
	return fmt.Sprintf("%v: %s (alternatives: %v)", ErrSlotNotAvailable, e.Reason, labels)
}

// Unwrap lets errors.Is match ErrSlotNotAvailable
func (e *SlotUnavailableError) Unwrap() error {
	return ErrSlotNotAvailable
}
