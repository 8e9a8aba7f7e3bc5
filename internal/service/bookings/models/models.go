package models

import (
	"time"

	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/engine/availability"
	"github.com/m04kA/GardenBookingService/pkg/money"
)

// Caller who is acting on a booking. A customer proves ownership with the
// email the booking was made with; the manager is authenticated upstream.
type Caller struct {
	Email   string
	Manager bool
}

// CancelBookingRequest cancellation by the customer or the manager
type CancelBookingRequest struct {
	Caller             Caller
	CancellationReason *string
}

// UpdateStatusRequest manager-only status change
type UpdateStatusRequest struct {
	Status string
}

// GetDayRequest manager day view
type GetDayRequest struct {
	Date            time.Time
	IncludeInactive bool
}

// BookingResponse booking as shown to the customer and the manager
type BookingResponse struct {
	Reference   string `json:"reference"`
	ServiceKey  string `json:"serviceKey"`
	ServiceName string `json:"serviceName"`
	BookingDate string `json:"bookingDate"` // "2025-06-11"
	StartSlot   int    `json:"startSlot"`
	SlotLabel   string `json:"slotLabel"` // "10:00 - 11:00"
	Status      string `json:"status"`

	SlotsRequired int  `json:"slotsRequired"`
	BufferSlots   int  `json:"bufferSlots"`
	FullDay       bool `json:"fullDay"`

	PricePence    int64    `json:"pricePence"`
	PriceDisplay  string   `json:"priceDisplay"`
	PriceNote     *string  `json:"priceNote,omitempty"`
	DistanceMiles *float64 `json:"distanceMiles,omitempty"`

	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone"`
	Postcode      string  `json:"postcode"`
	Address       string  `json:"address"`
	Notes         *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SlotResponse occupancy of one slot
type SlotResponse struct {
	Label    string `json:"label"`
	Booked   bool   `json:"booked"`
	IsBuffer bool   `json:"isBuffer"`
	Service  string `json:"service,omitempty"`
}

// DayResponse bookings of a day with the occupancy derived from them
type DayResponse struct {
	Date              string            `json:"date"`
	TotalBookings     int               `json:"totalBookings"`
	FullDayBooked     bool              `json:"fullDayBooked"`
	RemainingCapacity int               `json:"remainingCapacity"`
	Available         bool              `json:"available"`
	Reason            string            `json:"reason,omitempty"`
	Slots             []SlotResponse    `json:"slots"`
	Bookings          []BookingResponse `json:"bookings"`
}

// FromDomainBooking converts a domain booking to the DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		Reference:          b.Reference,
		ServiceKey:         b.ServiceKey,
		ServiceName:        b.ServiceName,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartSlot:          b.StartSlot,
		SlotLabel:          domain.SlotLabel(b.StartSlot),
		Status:             string(b.Status),
		SlotsRequired:      b.SlotsRequired,
		BufferSlots:        b.BufferSlots,
		FullDay:            b.FullDay,
		PricePence:         b.PricePence,
		PriceDisplay:       money.FormatPence(b.PricePence),
		PriceNote:          b.PriceNote,
		DistanceMiles:      b.DistanceMiles,
		CustomerName:       b.CustomerName,
		CustomerEmail:      b.CustomerEmail,
		CustomerPhone:      b.CustomerPhone,
		Postcode:           b.Postcode,
		Address:            b.Address,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList converts a list of bookings
func FromDomainBookingList(bookings []*domain.Booking) []BookingResponse {
	resp := make([]BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp = append(resp, *bookingResp)
		}
	}
	return resp
}

// FromDayState builds the day view. The verdict is the day-level one for the
// minimal one-slot job: "could anything still be booked here".
func FromDayState(date time.Time, state *domain.DayBookingState, bookings []*domain.Booking) *DayResponse {
	verdict := availability.CheckDay(state, nil)

	slots := make([]SlotResponse, len(state.Slots))
	for i, s := range state.Slots {
		slots[i] = SlotResponse{
			Label:    domain.SlotLabel(i),
			Booked:   s.Booked,
			IsBuffer: s.IsBuffer,
			Service:  s.Service,
		}
	}

	return &DayResponse{
		Date:              date.Format(domain.DateFormat),
		TotalBookings:     state.TotalBookings,
		FullDayBooked:     state.FullDayBooked,
		RemainingCapacity: verdict.RemainingCapacity,
		Available:         verdict.Available,
		Reason:            string(verdict.Reason),
		Slots:             slots,
		Bookings:          FromDomainBookingList(bookings),
	}
}
