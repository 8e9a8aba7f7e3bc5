package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type holidaySet map[string]bool

func (h holidaySet) IsHoliday(date time.Time) bool {
	return h[date.Format(DateFormat)]
}

func TestIsWorkingDay(t *testing.T) {
	holidays := holidaySet{"2025-08-25": true}

	assert.True(t, IsWorkingDay(time.Date(2025, 8, 23, 0, 0, 0, 0, time.UTC), holidays), "Saturday")
	assert.False(t, IsWorkingDay(time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC), holidays), "Sunday")
	assert.False(t, IsWorkingDay(time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC), holidays), "bank holiday")
	assert.True(t, IsWorkingDay(time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC), nil), "no holiday calendar")
}

func TestValidateBookingWindow(t *testing.T) {
	now := time.Date(2025, 6, 10, 16, 30, 0, 0, time.UTC)

	assert.NoError(t, ValidateBookingWindow(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), now, 30), "today")
	assert.ErrorIs(t, ValidateBookingWindow(time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), now, 30), ErrDateInPast)
	assert.NoError(t, ValidateBookingWindow(time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC), now, 30), "last day of window")
	assert.ErrorIs(t, ValidateBookingWindow(time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC), now, 30), ErrDateTooFarInFuture)
	assert.NoError(t, ValidateBookingWindow(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), now, 0), "unlimited")
}

func TestCalendarDate(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}

	parsed := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	got := CalendarDate(parsed, newYork)

	assert.Equal(t, 11, got.Day())
	assert.Equal(t, newYork, got.Location())
}

func TestFirstBookableSlot(t *testing.T) {
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	at := func(hour, minute int) time.Time {
		return time.Date(2025, 6, 10, hour, minute, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		date time.Time
		now  time.Time
		want int
	}{
		{"before opening", today, at(7, 59), 0},
		{"first slot started", today, at(8, 0), 1},
		{"mid morning", today, at(9, 30), 2},
		{"last slot started", today, at(16, 0), SlotsPerDay},
		{"evening", today, at(21, 0), SlotsPerDay},
		{"tomorrow", today.AddDate(0, 0, 1), at(16, 30), 0},
		{"yesterday", today.AddDate(0, 0, -1), at(7, 0), SlotsPerDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstBookableSlot(tt.date, tt.now))
		})
	}
}
