package get_availability

import (
	"time"

	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/engine/availability"
)

// Request availability of a day, optionally for a service and a start time
type Request struct {
	Date       time.Time
	ServiceKey string  // empty when no service is selected yet
	Time       *string // requested start, label/"HH:00"/index; malformed values are ignored
}

// Response day state and the resolver's verdicts
type Response struct {
	Date          time.Time
	ServiceKey    string
	State         *domain.DayBookingState
	NonWorkingDay bool
	TimeIgnored   bool // Time was given but could not be parsed
	Result        availability.Result
}
