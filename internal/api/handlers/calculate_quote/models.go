package calculate_quote

import (
	"github.com/m04kA/GardenBookingService/internal/api/handlers"
	calculateQuote "github.com/m04kA/GardenBookingService/internal/usecase/calculate_quote"
)

// QuoteRequest quote state of the booking form
type QuoteRequest struct {
	Service       string          `json:"service" validate:"required,max=64"`
	Options       map[string]int  `json:"options,omitempty" validate:"omitempty,dive,gte=0"`
	Extras        map[string]bool `json:"extras,omitempty"`
	DistanceMiles *float64        `json:"distanceMiles,omitempty" validate:"omitempty,gte=0,lte=1000"`
	Postcode      string          `json:"postcode,omitempty" validate:"omitempty,max=10"`
	Time          *string         `json:"time,omitempty"` // "HH:00"; malformed values are ignored
}

// QuoteResponse priced quote
type QuoteResponse struct {
	Service       string                  `json:"service"`
	ServiceName   string                  `json:"serviceName"`
	DistanceMiles *float64                `json:"distanceMiles,omitempty"`
	TimeIgnored   bool                    `json:"timeIgnored,omitempty"`
	Quote         *handlers.QuoteResponse `json:"quote"`
}

func (r *QuoteRequest) ToUseCaseRequest() *calculateQuote.Request {
	return &calculateQuote.Request{
		ServiceKey:    r.Service,
		Options:       r.Options,
		Extras:        r.Extras,
		DistanceMiles: r.DistanceMiles,
		Postcode:      r.Postcode,
		Time:          r.Time,
	}
}

func FromUseCaseResponse(resp *calculateQuote.Response) *QuoteResponse {
	return &QuoteResponse{
		Service:       resp.Service.Key,
		ServiceName:   resp.Service.Name,
		DistanceMiles: resp.DistanceMiles,
		TimeIgnored:   resp.TimeIgnored,
		Quote:         handlers.FromQuote(resp.Quote),
	}
}
