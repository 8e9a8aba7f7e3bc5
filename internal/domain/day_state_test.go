package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDayBookingState_Empty(t *testing.T) {
	state := NewDayBookingState(nil)

	assert.Equal(t, 0, state.TotalBookings)
	assert.False(t, state.FullDayBooked)
	assert.Equal(t, DailyBookingCap, state.RemainingCapacity())
	for _, s := range state.Slots {
		assert.False(t, s.Booked)
	}
}

func TestNewDayBookingState_JobAndBuffer(t *testing.T) {
	state := NewDayBookingState([]*Booking{
		{ServiceKey: "hedge-trimming", StartSlot: 1, SlotsRequired: 3, BufferSlots: 2, Status: StatusConfirmed},
	})

	assert.Equal(t, 1, state.TotalBookings)
	assert.False(t, state.Slots[0].Booked)
	for i := 1; i <= 3; i++ {
		assert.True(t, state.Slots[i].Booked)
		assert.False(t, state.Slots[i].IsBuffer)
		assert.Equal(t, "hedge-trimming", state.Slots[i].Service)
	}
	for i := 4; i <= 5; i++ {
		assert.True(t, state.Slots[i].Booked)
		assert.True(t, state.Slots[i].IsBuffer)
	}
	assert.False(t, state.Slots[6].Booked)
}

func TestNewDayBookingState_BufferClippedAtDayEnd(t *testing.T) {
	state := NewDayBookingState([]*Booking{
		{ServiceKey: "lawn-cutting", StartSlot: 7, SlotsRequired: 1, BufferSlots: 2, Status: StatusConfirmed},
	})

	assert.True(t, state.Slots[7].Booked)
	assert.True(t, state.Slots[8].IsBuffer)
}

func TestNewDayBookingState_BufferNeverOverwritesJob(t *testing.T) {
	state := NewDayBookingState([]*Booking{
		{ServiceKey: "lawn-cutting", StartSlot: 0, SlotsRequired: 1, BufferSlots: 2, Status: StatusConfirmed},
		{ServiceKey: "weeding", StartSlot: 1, SlotsRequired: 1, Status: StatusConfirmed},
	})

	assert.True(t, state.Slots[1].Booked)
	assert.False(t, state.Slots[1].IsBuffer)
	assert.Equal(t, "weeding", state.Slots[1].Service)
	assert.True(t, state.Slots[2].IsBuffer)
}

func TestNewDayBookingState_FullDayAndInactive(t *testing.T) {
	state := NewDayBookingState([]*Booking{
		{ServiceKey: "garden-clearance", FullDay: true, SlotsRequired: SlotsPerDay, Status: StatusConfirmed},
		{ServiceKey: "lawn-cutting", StartSlot: 2, SlotsRequired: 1, Status: StatusCancelledByCustomer},
	})

	assert.True(t, state.FullDayBooked)
	assert.Equal(t, 1, state.TotalBookings)
	for _, s := range state.Slots {
		assert.True(t, s.Booked)
		assert.Equal(t, "garden-clearance", s.Service)
	}
}

func TestDayBookingState_SlotMap(t *testing.T) {
	state := NewDayBookingState([]*Booking{
		{ServiceKey: "lawn-cutting", StartSlot: 3, SlotsRequired: 1, Status: StatusPending},
	})

	m := state.SlotMap()
	assert.Len(t, m, SlotsPerDay)
	assert.True(t, m["11:00 - 12:00"].Booked)
	assert.False(t, m["08:00 - 09:00"].Booked)
}

func TestDayBookingState_RemainingCapacityNeverNegative(t *testing.T) {
	state := &DayBookingState{TotalBookings: 5}
	assert.Equal(t, 0, state.RemainingCapacity())
}
