package domain

// SlotOccupancy state of one slot on a given day
type SlotOccupancy struct {
	Booked   bool
	IsBuffer bool   // consumed only as travel buffer, not by the job itself
	Service  string // empty when free
}

// DayBookingState occupancy of a calendar day derived from its bookings
type DayBookingState struct {
	TotalBookings int
	FullDayBooked bool
	Slots         [SlotsPerDay]SlotOccupancy
}

// SlotMap occupancy keyed by canonical slot label
func (d *DayBookingState) SlotMap() map[string]SlotOccupancy {
	m := make(map[string]SlotOccupancy, SlotsPerDay)
	for i, s := range d.Slots {
		m[SlotLabel(i)] = s
	}
	return m
}

// RemainingCapacity approximate number of further jobs the day can take.
// Counts only against the daily cap, not against slot conflicts.
func (d *DayBookingState) RemainingCapacity() int {
	remaining := DailyBookingCap - d.TotalBookings
	if remaining < 0 {
		return 0
	}
	return remaining
}

// NewDayBookingState derives the day's occupancy from its bookings.
// Inactive bookings are ignored. Job slots are placed before buffers so a buffer
// never overwrites a slot some other job actually occupies.
func NewDayBookingState(bookings []*Booking) *DayBookingState {
	state := &DayBookingState{}

	active := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if b == nil || !b.IsActive() {
			continue
		}
		active = append(active, b)
	}
	state.TotalBookings = len(active)

	for _, b := range active {
		if b.FullDay {
			state.FullDayBooked = true
			for i := range state.Slots {
				state.Slots[i] = SlotOccupancy{Booked: true, Service: b.ServiceKey}
			}
			continue
		}

		for i := b.StartSlot; i < b.StartSlot+max(b.SlotsRequired, 1); i++ {
			if !IsValidSlot(i) {
				continue
			}
			state.Slots[i] = SlotOccupancy{Booked: true, Service: b.ServiceKey}
		}
	}

	for _, b := range active {
		if b.FullDay {
			continue
		}

		bufferStart := b.StartSlot + max(b.SlotsRequired, 1)
		for i := bufferStart; i < bufferStart+b.BufferSlots; i++ {
			if !IsValidSlot(i) || state.Slots[i].Booked {
				continue
			}
			state.Slots[i] = SlotOccupancy{Booked: true, IsBuffer: true, Service: b.ServiceKey}
		}
	}

	return state
}
