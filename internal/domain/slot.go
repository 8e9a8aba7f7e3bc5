package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSlot returned when a slot label or index is outside the working day
var ErrInvalidSlot = errors.New("invalid slot")

// SlotLabel canonical label of the slot at index i, e.g. "08:00 - 09:00".
// Slot identity is positional; the label is for display and the wire format.
func SlotLabel(i int) string {
	start := DayStartHour + i
	return fmt.Sprintf("%02d:00 - %02d:00", start, start+1)
}

// SlotStartHour hour of day at which slot i starts
func SlotStartHour(i int) int {
	return DayStartHour + i
}

// IsValidSlot reports whether i is one of the working day's slots
func IsValidSlot(i int) bool {
	return i >= 0 && i < SlotsPerDay
}

// AllSlotLabels labels of the working day in slot order
func AllSlotLabels() []string {
	labels := make([]string, SlotsPerDay)
	for i := range labels {
		labels[i] = SlotLabel(i)
	}
	return labels
}

// ParseSlot accepts a canonical label ("09:00 - 10:00"), a start time ("09:00")
// or a bare slot index ("1") and returns the slot index.
func ParseSlot(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidSlot)
	}

	if start, _, found := strings.Cut(s, "-"); found {
		s = strings.TrimSpace(start)
	}

	if !strings.Contains(s, ":") {
		idx, err := strconv.Atoi(s)
		if err != nil || !IsValidSlot(idx) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
		}
		return idx, nil
	}

	hour, err := ParseHour(s)
	if err != nil {
		return 0, err
	}

	idx := hour - DayStartHour
	if !IsValidSlot(idx) {
		return 0, fmt.Errorf("%w: %q is outside working hours", ErrInvalidSlot, s)
	}
	return idx, nil
}

// ParseHour parses "HH:MM" on the hour and returns HH.
// Used for quote start times, which may fall outside working hours.
func ParseHour(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidSlot, s)
	}

	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: bad hour in %q", ErrInvalidSlot, s)
	}
	if mm != "00" {
		return 0, fmt.Errorf("%w: %q must start on the hour", ErrInvalidSlot, s)
	}
	return hour, nil
}
