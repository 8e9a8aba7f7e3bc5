package availability

import (
	"github.com/m04kA/GardenBookingService/internal/domain"
)

// SlotVerdict bookability of one candidate start slot
type SlotVerdict struct {
	Slot      int
	Label     string
	Available bool
	Reason    Reason
}

// DayVerdict bookability of the whole day.
// RemainingCapacity is the daily-cap hint (3 - totalBookings), not a slot count;
// BookableStarts is the exact number of start slots that would be accepted.
type DayVerdict struct {
	Available         bool
	Reason            Reason
	RemainingCapacity int
	BookableStarts    int
}

// Result resolver output: day verdict, every slot's verdict and,
// if a valid slot was requested, the verdict for that slot
type Result struct {
	Day       DayVerdict
	Slots     []SlotVerdict
	Requested *SlotVerdict
}

// Resolve decides which start slots of the day are bookable for the service.
// rule is nil when no service is selected; the minimal one-slot rule is used then.
// requestedSlot outside the working day is ignored and only the day-level verdict applies.
// Pure function of its inputs.
func Resolve(state *domain.DayBookingState, rule *domain.CapacityRule, requestedSlot *int) Result {
	slots := CheckAllSlots(state, rule)

	result := Result{
		Day:   dayVerdict(state, rule, slots),
		Slots: slots,
	}

	if requestedSlot != nil && domain.IsValidSlot(*requestedSlot) {
		v := slots[*requestedSlot]
		result.Requested = &v
	}

	return result
}

// CheckDay day-level verdict
func CheckDay(state *domain.DayBookingState, rule *domain.CapacityRule) DayVerdict {
	return dayVerdict(state, rule, CheckAllSlots(state, rule))
}

// CheckAllSlots verdict of every start slot of the working day, in slot order
func CheckAllSlots(state *domain.DayBookingState, rule *domain.CapacityRule) []SlotVerdict {
	verdicts := make([]SlotVerdict, domain.SlotsPerDay)
	for i := range verdicts {
		verdicts[i] = CheckSlot(state, rule, i)
	}
	return verdicts
}

// CheckSlot verdict for starting the service at slot i.
// Evaluation order: full-day exclusivity, clear-day requirement, daily cap, range scan.
func CheckSlot(state *domain.DayBookingState, rule *domain.CapacityRule, i int) SlotVerdict {
	verdict := SlotVerdict{Slot: i, Label: domain.SlotLabel(i)}

	if reason := dayBlocker(state, rule); reason != ReasonNone {
		verdict.Reason = reason
		return verdict
	}

	verdict.Reason = scanRange(state, effectiveRule(rule), i)
	verdict.Available = verdict.Reason == ReasonNone
	return verdict
}

// AvailableSlots indexes of the slots that pass, in order
func AvailableSlots(verdicts []SlotVerdict) []int {
	out := make([]int, 0, len(verdicts))
	for _, v := range verdicts {
		if v.Available {
			out = append(out, v.Slot)
		}
	}
	return out
}

// dayBlocker steps 1-3: constraints that block every slot of the day
func dayBlocker(state *domain.DayBookingState, rule *domain.CapacityRule) Reason {
	if state.FullDayBooked {
		return ReasonFullDayBooked
	}
	if rule != nil && rule.FullDay && state.TotalBookings > 0 {
		return ReasonNeedsClearDay
	}
	if state.TotalBookings >= domain.DailyBookingCap {
		return ReasonDailyCapReached
	}
	return ReasonNone
}

// scanRange step 4: the job must fit in the day and [i, i+n+b) must be free.
// The buffer tail may run past the end of the day.
func scanRange(state *domain.DayBookingState, rule domain.CapacityRule, i int) Reason {
	if rule.FullDay {
		// the day is clear at this point (dayBlocker passed with no bookings)
		// and a full-day job claims it whatever start is picked
		return firstConflict(state, 0, domain.SlotsPerDay, domain.SlotsPerDay)
	}

	n := rule.SlotsRequired
	if i+n > domain.SlotsPerDay {
		return ReasonInsufficientTime
	}

	end := min(i+n+rule.BufferSlots, domain.SlotsPerDay)
	return firstConflict(state, i, i+n, end)
}

// firstConflict scans [from, end); slots at or after jobEnd belong to the requested
// job's own buffer tail. A hit there, or on an existing buffer slot, is a buffer conflict.
func firstConflict(state *domain.DayBookingState, from, jobEnd, end int) Reason {
	for j := from; j < end; j++ {
		slot := state.Slots[j]
		if !slot.Booked {
			continue
		}
		if slot.IsBuffer || j >= jobEnd {
			return ReasonBufferConflict
		}
		return ReasonJobConflict
	}
	return ReasonNone
}

func dayVerdict(state *domain.DayBookingState, rule *domain.CapacityRule, slots []SlotVerdict) DayVerdict {
	verdict := DayVerdict{RemainingCapacity: state.RemainingCapacity()}

	if reason := dayBlocker(state, rule); reason != ReasonNone {
		verdict.Reason = reason
		return verdict
	}

	verdict.BookableStarts = len(AvailableSlots(slots))
	if verdict.BookableStarts == 0 {
		verdict.Reason = ReasonNoSuitableSlot
		return verdict
	}

	verdict.Available = true
	return verdict
}

func effectiveRule(rule *domain.CapacityRule) domain.CapacityRule {
	if rule == nil {
		return domain.MinimalCapacityRule
	}
	r := *rule
	if r.SlotsRequired < 1 {
		r.SlotsRequired = 1
	}
	if r.BufferSlots < 0 {
		r.BufferSlots = 0
	}
	return r
}

// CloseStartedSlots marks the start slots before firstOpen unavailable with
// ReasonTooLate and re-derives the day verdict. Slots already blocked keep their
// reason. A full-day job cannot start once any slot of the day has started.
func CloseStartedSlots(res Result, rule *domain.CapacityRule, firstOpen int) Result {
	if firstOpen <= 0 || len(res.Slots) == 0 {
		return res
	}
	fullDay := rule != nil && rule.FullDay

	slots := make([]SlotVerdict, len(res.Slots))
	copy(slots, res.Slots)
	for i := range slots {
		if slots[i].Available && (fullDay || slots[i].Slot < firstOpen) {
			slots[i].Available = false
			slots[i].Reason = ReasonTooLate
		}
	}
	res.Slots = slots

	if res.Requested != nil {
		v := slots[res.Requested.Slot]
		res.Requested = &v
	}

	if res.Day.Available {
		res.Day.BookableStarts = len(AvailableSlots(slots))
		if res.Day.BookableStarts == 0 {
			res.Day.Available = false
			res.Day.Reason = ReasonTooLate
		}
	}

	return res
}
