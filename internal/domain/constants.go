package domain

// Operating calendar of a one-person business: fixed hours, one-hour slots
const (
	DayStartHour = 8  // first slot starts at 08:00
	DayEndHour   = 17 // last slot ends at 17:00
	SlotsPerDay  = DayEndHour - DayStartHour

	// DailyBookingCap hard limit of confirmed jobs per working day
	DailyBookingCap = 3
)

// Business validation constants
const (
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxSlotsRequired            = SlotsPerDay
	MaxBufferSlots              = SlotsPerDay
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses bookings in these statuses do not occupy the calendar
var InactiveStatuses = []BookingStatus{
	StatusCancelledByCustomer,
	StatusCancelledByBusiness,
	StatusNoShow,
}

// ActiveStatuses bookings in these statuses count towards the day's capacity
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
