package create_booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/GardenBookingService/internal/domain"
)

func validateRequest(req *Request) (int, error) {
	if req.Date.IsZero() {
		return 0, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.ServiceKey == "" {
		return 0, fmt.Errorf("%w: service is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return 0, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if !strings.Contains(req.CustomerEmail, "@") {
		return 0, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CustomerPhone) == "" {
		return 0, fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Postcode) == "" || strings.TrimSpace(req.Address) == "" {
		return 0, fmt.Errorf("%w: address and postcode are required", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return 0, fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	slot, err := domain.ParseSlot(req.Time)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}

	return slot, nil
}

func validateDate(date, now time.Time, advanceDays int) error {
	err := domain.ValidateBookingWindow(date, now, advanceDays)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrDateInPast):
		return ErrInvalidDate
	case errors.Is(err, domain.ErrDateTooFarInFuture):
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceDays)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
}

// validateBookingTime a slot booked for today must not have started yet
func validateBookingTime(date time.Time, slot int, now time.Time) error {
	if !domain.IsSameDay(date, now) {
		return nil
	}
	if slot < domain.FirstBookableSlot(date, now) {
		return fmt.Errorf("%w: %s has already started", ErrTooLateToBook, domain.SlotLabel(slot))
	}
	return nil
}
