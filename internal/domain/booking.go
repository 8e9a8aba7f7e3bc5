package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending             BookingStatus = "pending"
	StatusConfirmed           BookingStatus = "confirmed"
	StatusCompleted           BookingStatus = "completed"
	StatusCancelledByCustomer BookingStatus = "cancelled_by_customer"
	StatusCancelledByBusiness BookingStatus = "cancelled_by_business"
	StatusNoShow              BookingStatus = "no_show"
)

// Booking represents a job booked through the public booking flow
type Booking struct {
	ID          int64
	Reference   string // public UUID reference given to the customer
	ServiceKey  string
	BookingDate time.Time
	StartSlot   int
	Status      BookingStatus

	// Capacity rule snapshot taken at booking time
	SlotsRequired int
	BufferSlots   int
	FullDay       bool

	// Denormalized data for history
	ServiceName   string
	PricePence    int64
	PriceNote     *string // e.g. distance unknown at booking time
	DistanceMiles *float64

	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Postcode      string
	Address       string
	Notes         *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies the calendar
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelledByCustomer &&
		b.Status != StatusCancelledByBusiness &&
		b.Status != StatusNoShow
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByCustomer || b.Status == StatusCancelledByBusiness
}

// CapacityRule returns the capacity rule snapshot stored with the booking
func (b *Booking) CapacityRule() CapacityRule {
	return CapacityRule{
		FullDay:       b.FullDay,
		SlotsRequired: b.SlotsRequired,
		BufferSlots:   b.BufferSlots,
	}
}

// ParseBookingStatus converts a raw string to a known status
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch st := BookingStatus(s); st {
	case StatusPending, StatusConfirmed, StatusCompleted,
		StatusCancelledByCustomer, StatusCancelledByBusiness, StatusNoShow:
		return st, true
	default:
		return "", false
	}
}

// DayBookingsFilter filter for loading the bookings of one or more days
type DayBookingsFilter struct {
	StartDate       time.Time
	EndDate         time.Time
	Status          *BookingStatus
	IncludeInactive bool
}
