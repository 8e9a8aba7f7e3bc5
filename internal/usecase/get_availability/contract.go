package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/GardenBookingService/internal/domain"
)

// BookingRepository bookings of a day
type BookingRepository interface {
	ListByDay(ctx context.Context, filter domain.DayBookingsFilter) ([]*domain.Booking, error)
}

// DayStateCache cache of derived day state.
// Set stores only if the date was not invalidated since Version returned version.
type DayStateCache interface {
	Get(ctx context.Context, date time.Time) (*domain.DayBookingState, bool, error)
	Version(ctx context.Context, date time.Time) (int64, error)
	Set(ctx context.Context, date time.Time, version int64, state *domain.DayBookingState) (bool, error)
}

// Catalog static service configuration
type Catalog interface {
	Get(key string) (domain.Service, error)
}

// Metrics resolver and cache counters
type Metrics interface {
	ObserveVerdict(level, reason string)
	ObserveCache(result string)
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
