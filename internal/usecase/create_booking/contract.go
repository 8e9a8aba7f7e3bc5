package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/usecase/calculate_quote"
)

// BookingRepository bookings storage
type BookingRepository interface {
	LockDay(ctx context.Context, date time.Time) error
	ListByDay(ctx context.Context, filter domain.DayBookingsFilter) ([]*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// Quoter prices the submitted quote state
type Quoter interface {
	Execute(ctx context.Context, req *calculate_quote.Request) (*calculate_quote.Response, error)
}

// DayStateCache cache of derived day state
type DayStateCache interface {
	Invalidate(ctx context.Context, date time.Time) error
}

// TransactionManager runs the re-check and insert atomically
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics booking and resolver counters
type Metrics interface {
	ObserveBooking(outcome string)
	ObserveVerdict(level, reason string)
}

// TimeProvider current time source
type TimeProvider interface {
	Now() time.Time
}

// Logger interface for logging
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider wall clock
type RealTimeProvider struct{}

// Now returns the current time
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
