package create_booking

import (
	"time"

	"github.com/m04kA/GardenBookingService/internal/api/handlers"
	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/GardenBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Date    string          `json:"date" validate:"required"` // "2025-06-11"
	Service string          `json:"service" validate:"required,max=64"`
	Time    string          `json:"time" validate:"required,max=16"` // "10:00" or "10:00 - 11:00"
	Options map[string]int  `json:"options,omitempty" validate:"omitempty,dive,gte=0"`
	Extras  map[string]bool `json:"extras,omitempty"`

	CustomerName  string  `json:"customerName" validate:"required,max=100"`
	CustomerEmail string  `json:"customerEmail" validate:"required,email,max=254"`
	CustomerPhone string  `json:"customerPhone" validate:"required,max=20"`
	Postcode      string  `json:"postcode" validate:"required,max=10"`
	Address       string  `json:"address" validate:"required,max=300"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// BookingCreatedResponse created booking with the quote it was priced at
type BookingCreatedResponse struct {
	Booking *models.BookingResponse `json:"booking"`
	Quote   *handlers.QuoteResponse `json:"quote"`
}

// AlternativeSlot start slot still bookable on the rejected day
type AlternativeSlot struct {
	Slot  int    `json:"slot"`
	Label string `json:"label"`
}

// SlotUnavailableResponse 409 body: why the slot was refused and what is left
type SlotUnavailableResponse struct {
	Code          int               `json:"code"`
	Message       string            `json:"message"`
	Reason        string            `json:"reason"`
	ReasonMessage string            `json:"reasonMessage"`
	Alternatives  []AlternativeSlot `json:"alternatives"`
}

// ToUseCaseRequest parses the date and converts the request
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Date:          date,
		ServiceKey:    r.Service,
		Time:          r.Time,
		Options:       r.Options,
		Extras:        r.Extras,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		Postcode:      r.Postcode,
		Address:       r.Address,
		Notes:         r.Notes,
	}, nil
}

func FromUseCaseResponse(resp *createBooking.Response) *BookingCreatedResponse {
	return &BookingCreatedResponse{
		Booking: models.FromDomainBooking(resp.Booking),
		Quote:   handlers.FromQuote(resp.Quote),
	}
}

func FromSlotUnavailable(err *createBooking.SlotUnavailableError, status int, message string) *SlotUnavailableResponse {
	resp := &SlotUnavailableResponse{
		Code:          status,
		Message:       message,
		Reason:        string(err.Reason),
		ReasonMessage: err.Reason.Message(),
		Alternatives:  make([]AlternativeSlot, 0, len(err.Alternatives)),
	}
	for _, s := range err.Alternatives {
		resp.Alternatives = append(resp.Alternatives, AlternativeSlot{Slot: s, Label: domain.SlotLabel(s)})
	}
	return resp
}
