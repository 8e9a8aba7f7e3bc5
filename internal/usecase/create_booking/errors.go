package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/engine/availability"
)

var (
	// ErrUnknownService no configuration for the service
	ErrUnknownService = errors.New("create_booking: unknown service, please contact us directly")

	// ErrInvalidDate booking date is in the past
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture booking date is beyond the advance booking window
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrSlotNotAvailable the authoritative re-check rejected the slot
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidTimeSlot start time is not one of the working day's slots
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrTooLateToBook the slot has already started today
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrInvalidPostcode postcode is not in a UK format
	ErrInvalidPostcode = errors.New("create_booking: invalid postcode")

	// ErrConcurrentBooking a concurrent submission for the same day won; safe to retry
	ErrConcurrentBooking = errors.New("create_booking: concurrent booking, please retry")

	// ErrInvalidInput malformed request
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal internal failure of the use case
	ErrInternal = errors.New("create_booking: internal error")
)

// SlotUnavailableError rejection of the authoritative re-check.
// Carries the reason and the start slots still bookable on that day.
type SlotUnavailableError struct {
	Reason       availability.Reason
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
