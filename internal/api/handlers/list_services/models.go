package list_services

import (
	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/pkg/money"
)

type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

type ServiceResponse struct {
	Key         string              `json:"key"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Capacity    CapacityResponse    `json:"capacity"`
	Quote       QuoteConfigResponse `json:"quote"`
}

type CapacityResponse struct {
	FullDay       bool `json:"fullDay"`
	SlotsRequired int  `json:"slotsRequired"`
	BufferSlots   int  `json:"bufferSlots"`
}

type QuoteConfigResponse struct {
	Options             []OptionResponse `json:"options"`
	Extras              []ExtraResponse  `json:"extras"`
	MinimumCallOutPence int64            `json:"minimumCallOutPence"`
	MinimumCallOut      string           `json:"minimumCallOut"`
	AfterHoursSurcharge bool             `json:"afterHoursSurcharge"`
}

type OptionResponse struct {
	ID      string           `json:"id"`
	Label   string           `json:"label"`
	Choices []ChoiceResponse `json:"choices"`
}

type ChoiceResponse struct {
	Text       string `json:"text"`
	ValuePence int64  `json:"valuePence"`
	Display    string `json:"display"`
}

type ExtraResponse struct {
	ID               string   `json:"id"`
	Label            string   `json:"label"`
	PricePence       int64    `json:"pricePence"`
	Multiplier       *float64 `json:"multiplier,omitempty"`
	CheckedByDefault bool     `json:"checkedByDefault"`
	Display          string   `json:"display"`
}

func FromServices(services []domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{Services: make([]ServiceResponse, 0, len(services))}
	for _, s := range services {
		resp.Services = append(resp.Services, fromService(s))
	}
	return resp
}

func fromService(s domain.Service) ServiceResponse {
	q := QuoteConfigResponse{
		Options:             make([]OptionResponse, 0, len(s.Quote.Options)),
		Extras:              make([]ExtraResponse, 0, len(s.Quote.Extras)),
		MinimumCallOutPence: s.Quote.MinimumCallOutPence,
		MinimumCallOut:      money.FormatPence(s.Quote.MinimumCallOutPence),
		AfterHoursSurcharge: s.Quote.AfterHoursSurcharge,
	}

	for _, o := range s.Quote.Options {
		opt := OptionResponse{ID: o.ID, Label: o.Label, Choices: make([]ChoiceResponse, 0, len(o.Choices))}
		for _, c := range o.Choices {
			opt.Choices = append(opt.Choices, ChoiceResponse{
				Text:       c.Text,
				ValuePence: c.ValuePence,
				Display:    displayPence(c.ValuePence),
			})
		}
		q.Options = append(q.Options, opt)
	}

	for _, e := range s.Quote.Extras {
		extra := ExtraResponse{
			ID:               e.ID,
			Label:            e.Label,
			PricePence:       e.PricePence,
			Multiplier:       e.Multiplier,
			CheckedByDefault: e.CheckedByDefault,
			Display:          displayPence(e.PricePence),
		}
		if e.IsMultiplier() {
			extra.Display = money.FormatPercent(*e.Multiplier)
		}
		q.Extras = append(q.Extras, extra)
	}

	return ServiceResponse{
		Key:         s.Key,
		Name:        s.Name,
		Description: s.Description,
		Capacity: CapacityResponse{
			FullDay:       s.Capacity.FullDay,
			SlotsRequired: s.Capacity.SlotsRequired,
			BufferSlots:   s.Capacity.BufferSlots,
		},
		Quote: q,
	}
}

func displayPence(p int64) string {
	if p == 0 {
		return "Included"
	}
	return money.FormatPence(p)
}
