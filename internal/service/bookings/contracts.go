package bookings

import (
	"context"
	"time"

	"github.com/m04kA/GardenBookingService/internal/domain"
)

// BookingRepository booking storage
type BookingRepository interface {
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	ListByDay(ctx context.Context, filter domain.DayBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason *string) error
}

// DayStateCache cached day state, dropped whenever a booking leaves the calendar
type DayStateCache interface {
	Invalidate(ctx context.Context, date time.Time) error
}

// TransactionManager transaction runner
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger printf-style logger
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
