package get_availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/GardenBookingService/internal/domain"
)

func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

func validateDate(date, now time.Time, advanceDays int) error {
	err := domain.ValidateBookingWindow(date, now, advanceDays)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrDateInPast):
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, date.Format(domain.DateFormat))
	case errors.Is(err, domain.ErrDateTooFarInFuture):
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceDays)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
}
