package bookingform

import "errors"

var (
	// ErrNoDate submission without a selected date
	ErrNoDate = errors.New("bookingform: no date selected")

	// ErrNoSlot submission without a selected start time
	ErrNoSlot = errors.New("bookingform: no start time selected")

	// ErrSlotNotAvailable the local resolver rejects the selected slot
	ErrSlotNotAvailable = errors.New("bookingform: selected slot is not available")

	// ErrSlotRejected the server re-check rejected the slot; see View.Alternatives
	ErrSlotRejected = errors.New("bookingform: slot rejected at submission")

	// ErrUnknownService the API has no such service; the customer must contact the business
	ErrUnknownService = errors.New("bookingform: unknown service, please contact us directly")

	// ErrDateRejected the API refused the selected date, e.g. in the past or beyond the booking window
	ErrDateRejected = errors.New("bookingform: date cannot be booked")

	// ErrStaleResponse a newer date selection superseded this fetch
	ErrStaleResponse = errors.New("bookingform: stale day state discarded")
)
