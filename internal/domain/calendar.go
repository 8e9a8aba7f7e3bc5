package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDateInPast booking date is before today
	ErrDateInPast = errors.New("date is in the past")

	// ErrDateTooFarInFuture booking date is beyond the advance booking window
	ErrDateTooFarInFuture = errors.New("date is too far in the future")
)

// HolidayChecker reports whether a date is a public holiday the business closes on
type HolidayChecker interface {
	IsHoliday(date time.Time) bool
}

// IsWorkingWeekday Monday to Saturday; Sunday is never operable
func IsWorkingWeekday(date time.Time) bool {
	return date.Weekday() != time.Sunday
}

// IsWorkingDay working weekday that is not a closure holiday. holidays may be nil.
func IsWorkingDay(date time.Time, holidays HolidayChecker) bool {
	if !IsWorkingWeekday(date) {
		return false
	}
	if holidays != nil && holidays.IsHoliday(date) {
		return false
	}
	return true
}

// DateOnly truncates t to midnight in its own location
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CalendarDate midnight in loc of the calendar day t carries, whatever t's own location.
// A date parsed as "2025-06-11" stays the 11th in every timezone.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// IsSameDay checks that two dates fall on the same calendar day
func IsSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsDateInPast checks that date is before today's date
func IsDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}

// ValidateBookingWindow checks that date is today or later and, when advanceDays > 0,
// no more than advanceDays ahead of now. Both are compared as calendar dates.
func ValidateBookingWindow(date, now time.Time, advanceDays int) error {
	if IsDateInPast(date, now) {
		return ErrDateInPast
	}

	if advanceDays == 0 {
		return nil
	}

	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, advanceDays)
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if dateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceDays)
	}

	return nil
}

// FirstBookableSlot first start slot of date that has not started at now.
// A slot has started once now reaches its start hour. Later dates return 0,
// earlier ones SlotsPerDay. date and now must share a location.
func FirstBookableSlot(date, now time.Time) int {
	if IsDateInPast(date, now) {
		return SlotsPerDay
	}
	if !IsSameDay(date, now) {
		return 0
	}
	return min(max(now.Hour()-DayStartHour+1, 0), SlotsPerDay)
}
