package completion

import (
	"context"
	"time"
)

// BookingRepository closes out bookings dated before a day
type BookingRepository interface {
	CompleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// TimeProvider clock
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider wall clock
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time { return time.Now() }

// Logger printf-style logger
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
