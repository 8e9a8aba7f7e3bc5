package get_day_bookings

import (
	"context"

	"github.com/m04kA/GardenBookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetDay(ctx context.Context, req *models.GetDayRequest) (*models.DayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
