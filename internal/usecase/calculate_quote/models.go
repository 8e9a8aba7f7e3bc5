package calculate_quote

import (
	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/engine/quote"
)

// Request quote state of the booking form
type Request struct {
	ServiceKey    string
	Options       map[string]int  // option id -> choice index
	Extras        map[string]bool // extra id -> checked
	DistanceMiles *float64        // known distance; skips the postcode lookup
	Postcode      string
	Time          *string // requested start "HH:00"; drives the out-of-hours surcharge
}

// Response priced quote
type Response struct {
	Service       domain.Service // with overrides applied
	Quote         *quote.Quote
	DistanceMiles *float64 // nil when unknown
	TimeIgnored   bool
}
