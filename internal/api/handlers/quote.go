package handlers

import (
	"github.com/m04kA/GardenBookingService/internal/engine/quote"
	"github.com/m04kA/GardenBookingService/pkg/money"
)

// QuoteLineResponse one breakdown row
type QuoteLineResponse struct {
	Kind        string  `json:"kind"`
	Label       string  `json:"label"`
	AmountPence int64   `json:"amountPence"`
	Percent     float64 `json:"percent,omitempty"`
	Display     string  `json:"display"`
}

// QuoteResponse total and itemised breakdown
type QuoteResponse struct {
	TotalPence          int64               `json:"totalPence"`
	Total               string              `json:"total"`
	SubtotalPence       int64               `json:"subtotalPence"`
	MinimumCallOutPence int64               `json:"minimumCallOutPence"`
	FloorApplied        bool                `json:"floorApplied"`
	DistanceUnknown     bool                `json:"distanceUnknown"`
	Lines               []QuoteLineResponse `json:"lines"`
}

// FromQuote converts a calculator result
func FromQuote(q *quote.Quote) *QuoteResponse {
	if q == nil {
		return nil
	}

	resp := &QuoteResponse{
		TotalPence:          q.TotalPence,
		Total:               money.FormatPence(q.TotalPence),
		SubtotalPence:       q.SubtotalPence,
		MinimumCallOutPence: q.MinimumCallOutPence,
		FloorApplied:        q.FloorApplied,
		DistanceUnknown:     q.DistanceUnknown,
		Lines:               make([]QuoteLineResponse, 0, len(q.Lines)),
	}

	for _, l := range q.Lines {
		resp.Lines = append(resp.Lines, QuoteLineResponse{
			Kind:        string(l.Kind),
			Label:       l.Label,
			AmountPence: l.AmountPence,
			Percent:     l.Percent,
			Display:     l.Display,
		})
	}

	return resp
}
