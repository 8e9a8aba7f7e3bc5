package create_booking

import (
	"time"

	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/engine/quote"
)

// Request booking submission from the public form
type Request struct {
	Date       time.Time
	ServiceKey string
	Time       string // requested start slot: label, "HH:00" or index

	Options map[string]int
	Extras  map[string]bool

	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Postcode      string
	Address       string
	Notes         *string
}

// Response created booking with the quote it was priced at
type Response struct {
	Booking *domain.Booking
	Quote   *quote.Quote
}
