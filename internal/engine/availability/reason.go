package availability

// Reason why a day or a slot cannot be booked
type Reason string

const (
	// ReasonNone the slot or day is available
	ReasonNone Reason = ""

	ReasonFullDayBooked    Reason = "FULL_DAY_BOOKED"
	ReasonNeedsClearDay    Reason = "NEEDS_CLEAR_DAY"
	ReasonDailyCapReached  Reason = "DAILY_CAP_REACHED"
	ReasonInsufficientTime Reason = "INSUFFICIENT_TIME_REMAINING"
	ReasonBufferConflict   Reason = "BUFFER_CONFLICT"
	ReasonJobConflict      Reason = "JOB_CONFLICT"

	// Day-level only
	ReasonNoSuitableSlot Reason = "NO_SUITABLE_SLOT"
	ReasonNonWorkingDay  Reason = "NON_WORKING_DAY"
	ReasonUnknownService Reason = "UNKNOWN_SERVICE"

	// ReasonTooLate the start time has already passed today
	ReasonTooLate Reason = "TOO_LATE"
)

// Message customer-facing explanation of the reason
func (r Reason) Message() string {
	switch r {
	case ReasonNone:
		return "Available"
	case ReasonFullDayBooked:
		return "This day is fully booked for a full-day job."
	case ReasonNeedsClearDay:
		return "This service needs the whole day, and the day already has bookings."
	case ReasonDailyCapReached:
		return "We already have the maximum number of jobs on this day."
	case ReasonInsufficientTime:
		return "There is not enough time left in the working day for this job."
	case ReasonBufferConflict:
		return "Too close to another booking to allow travel time."
	case ReasonJobConflict:
		return "This time is already booked."
	case ReasonNoSuitableSlot:
		return "No start time on this day can fit this service."
	case ReasonNonWorkingDay:
		return "We don't work on this day."
	case ReasonUnknownService:
		return "Please contact us directly for this service."
	case ReasonTooLate:
		return "This start time has already passed."
	default:
		return string(r)
	}
}
