package bookingform

import (
	"context"
	"time"

	"github.com/m04kA/GardenBookingService/internal/integrations/bookingapi"
)

// API remote side of the form: day state fetch and booking submission
type API interface {
	GetAvailability(ctx context.Context, date time.Time, serviceKey string) (*bookingapi.Availability, error)
	CreateBooking(ctx context.Context, req *bookingapi.BookingRequest) (*bookingapi.BookingCreated, error)
}

// Logger interface for logging
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
