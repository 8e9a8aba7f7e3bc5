package bookingapi

import (
	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/engine/availability"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type slotUnavailableResponse struct {
	Code          int    `json:"code"`
	Message       string `json:"message"`
	Reason        string `json:"reason"`
	ReasonMessage string `json:"reasonMessage"`
	Alternatives  []struct {
		Slot  int    `json:"slot"`
		Label string `json:"label"`
	} `json:"alternatives"`
}

type serviceListResponse struct {
	Services []Service `json:"services"`
}

// Service catalog entry as served by GET /services
type Service struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Capacity    struct {
		FullDay       bool `json:"fullDay"`
		SlotsRequired int  `json:"slotsRequired"`
		BufferSlots   int  `json:"bufferSlots"`
	} `json:"capacity"`
	Quote struct {
		Options []struct {
			ID      string `json:"id"`
			Label   string `json:"label"`
			Choices []struct {
				Text       string `json:"text"`
				ValuePence int64  `json:"valuePence"`
			} `json:"choices"`
		} `json:"options"`
		Extras []struct {
			ID               string   `json:"id"`
			Label            string   `json:"label"`
			PricePence       int64    `json:"pricePence"`
			Multiplier       *float64 `json:"multiplier,omitempty"`
			CheckedByDefault bool     `json:"checkedByDefault"`
		} `json:"extras"`
		MinimumCallOutPence int64 `json:"minimumCallOutPence"`
		AfterHoursSurcharge bool  `json:"afterHoursSurcharge"`
	} `json:"quote"`
}

// ToDomain service definition usable by the local resolver and calculator
func (s *Service) ToDomain() domain.Service {
	out := domain.Service{
		Key:         s.Key,
		Name:        s.Name,
		Description: s.Description,
		Capacity: domain.CapacityRule{
			FullDay:       s.Capacity.FullDay,
			SlotsRequired: s.Capacity.SlotsRequired,
			BufferSlots:   s.Capacity.BufferSlots,
		},
		Quote: domain.QuoteConfig{
			MinimumCallOutPence: s.Quote.MinimumCallOutPence,
			AfterHoursSurcharge: s.Quote.AfterHoursSurcharge,
		},
	}

	for _, o := range s.Quote.Options {
		opt := domain.Option{ID: o.ID, Label: o.Label}
		for _, c := range o.Choices {
			opt.Choices = append(opt.Choices, domain.Choice{Text: c.Text, ValuePence: c.ValuePence})
		}
		out.Quote.Options = append(out.Quote.Options, opt)
	}

	for _, e := range s.Quote.Extras {
		out.Quote.Extras = append(out.Quote.Extras, domain.Extra{
			ID:               e.ID,
			Label:            e.Label,
			PricePence:       e.PricePence,
			Multiplier:       e.Multiplier,
			CheckedByDefault: e.CheckedByDefault,
		})
	}

	return out
}

// SlotOccupancy entry of the availability slot map
type SlotOccupancy struct {
	Booked   bool   `json:"booked"`
	IsBuffer bool   `json:"isBuffer"`
	Service  string `json:"service,omitempty"`
}

// SlotVerdict server verdict of one start slot
type SlotVerdict struct {
	Slot      int    `json:"slot"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	Message   string `json:"message"`
}

// Availability response of GET /availability
type Availability struct {
	Date          string                   `json:"date"`
	Service       string                   `json:"service,omitempty"`
	NonWorkingDay bool                     `json:"nonWorkingDay"`
	TimeIgnored   bool                     `json:"timeIgnored,omitempty"`
	FullDayBooked bool                     `json:"fullDayBooked"`
	TotalBookings int                      `json:"totalBookings"`
	Slots         map[string]SlotOccupancy `json:"slots"`
	Day           struct {
		Available         bool   `json:"available"`
		Reason            string `json:"reason,omitempty"`
		Message           string `json:"message"`
		RemainingCapacity int    `json:"remainingCapacity"`
		BookableStarts    int    `json:"bookableStarts"`
	} `json:"day"`
	SlotVerdicts  []SlotVerdict `json:"slotVerdicts"`
	RequestedSlot *string       `json:"requestedSlot,omitempty"`
	Available     *bool         `json:"available,omitempty"`
	Reason        *string       `json:"reason,omitempty"`
}

// DayState rebuilds the day booking state from the slot map.
// Unknown labels are ignored; missing ones are free.
func (a *Availability) DayState() *domain.DayBookingState {
	state := &domain.DayBookingState{
		TotalBookings: a.TotalBookings,
		FullDayBooked: a.FullDayBooked,
	}
	for i := range state.Slots {
		if s, ok := a.Slots[domain.SlotLabel(i)]; ok {
			state.Slots[i] = domain.SlotOccupancy{Booked: s.Booked, IsBuffer: s.IsBuffer, Service: s.Service}
		}
	}
	return state
}

// FirstOpenSlot first start slot the server has not closed as already started.
// 0 for any day but today.
func (a *Availability) FirstOpenSlot() int {
	first := 0
	for _, v := range a.SlotVerdicts {
		if availability.Reason(v.Reason) == availability.ReasonTooLate && v.Slot+1 > first {
			first = v.Slot + 1
		}
	}
	return min(first, domain.SlotsPerDay)
}

// QuoteRequest body of POST /quotes
type QuoteRequest struct {
	Service       string          `json:"service"`
	Options       map[string]int  `json:"options,omitempty"`
	Extras        map[string]bool `json:"extras,omitempty"`
	DistanceMiles *float64        `json:"distanceMiles,omitempty"`
	Postcode      string          `json:"postcode,omitempty"`
	Time          *string         `json:"time,omitempty"`
}

// QuoteLine one row of the breakdown
type QuoteLine struct {
	Kind        string  `json:"kind"`
	Label       string  `json:"label"`
	AmountPence int64   `json:"amountPence"`
	Percent     float64 `json:"percent,omitempty"`
	Display     string  `json:"display"`
}

// Quote total and breakdown
type Quote struct {
	TotalPence          int64       `json:"totalPence"`
	Total               string      `json:"total"`
	SubtotalPence       int64       `json:"subtotalPence"`
	MinimumCallOutPence int64       `json:"minimumCallOutPence"`
	FloorApplied        bool        `json:"floorApplied"`
	DistanceUnknown     bool        `json:"distanceUnknown"`
	Lines               []QuoteLine `json:"lines"`
}

// QuoteResult response of POST /quotes
type QuoteResult struct {
	Service       string   `json:"service"`
	ServiceName   string   `json:"serviceName"`
	DistanceMiles *float64 `json:"distanceMiles,omitempty"`
	TimeIgnored   bool     `json:"timeIgnored,omitempty"`
	Quote         *Quote   `json:"quote"`
}

// BookingRequest body of POST /bookings
type BookingRequest struct {
	Date          string          `json:"date"`
	Service       string          `json:"service"`
	Time          string          `json:"time"`
	Options       map[string]int  `json:"options,omitempty"`
	Extras        map[string]bool `json:"extras,omitempty"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	CustomerPhone string          `json:"customerPhone"`
	Postcode      string          `json:"postcode"`
	Address       string          `json:"address"`
	Notes         *string         `json:"notes,omitempty"`
}

// Booking booking as returned by the API
type Booking struct {
	Reference          string   `json:"reference"`
	ServiceKey         string   `json:"serviceKey"`
	ServiceName        string   `json:"serviceName"`
	BookingDate        string   `json:"bookingDate"`
	StartSlot          int      `json:"startSlot"`
	SlotLabel          string   `json:"slotLabel"`
	Status             string   `json:"status"`
	FullDay            bool     `json:"fullDay"`
	PricePence         int64    `json:"pricePence"`
	PriceDisplay       string   `json:"priceDisplay"`
	PriceNote          *string  `json:"priceNote,omitempty"`
	DistanceMiles      *float64 `json:"distanceMiles,omitempty"`
	CustomerName       string   `json:"customerName"`
	CustomerEmail      string   `json:"customerEmail"`
	CancellationReason *string  `json:"cancellationReason,omitempty"`
}

// BookingCreated response of POST /bookings
type BookingCreated struct {
	Booking *Booking `json:"booking"`
	Quote   *Quote   `json:"quote"`
}

type cancelRequest struct {
	Email              string  `json:"email,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}
