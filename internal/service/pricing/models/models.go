package models

import (
	"time"

	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/pkg/money"
)

// UpsertOverrideRequest sets the minimum call-out of a service
type UpsertOverrideRequest struct {
	MinimumCallOutPence int64
	UpdatedBy           string
}

// OverrideResponse static and overridden minimum call-out of a service
type OverrideResponse struct {
	ServiceKey         string     `json:"serviceKey"`
	ServiceName        string     `json:"serviceName"`
	StaticMinimumPence int64      `json:"staticMinimumPence"`
	OverrideMinimum    *int64     `json:"overrideMinimumPence,omitempty"`
	EffectiveMinimum   int64      `json:"effectiveMinimumPence"`
	EffectiveDisplay   string     `json:"effectiveMinimumDisplay"`
	UpdatedBy          string     `json:"updatedBy,omitempty"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

// OverrideListResponse every catalog service with its override, if any
type OverrideListResponse struct {
	Overrides []OverrideResponse `json:"overrides"`
}

// FromService builds the response; override may be nil
func FromService(s domain.Service, override *domain.PricingOverride) *OverrideResponse {
	resp := &OverrideResponse{
		ServiceKey:         s.Key,
		ServiceName:        s.Name,
		StaticMinimumPence: s.Quote.MinimumCallOutPence,
		EffectiveMinimum:   s.Quote.MinimumCallOutPence,
	}

	if override != nil {
		minimum := override.MinimumCallOutPence
		updatedAt := override.UpdatedAt
		resp.OverrideMinimum = &minimum
		resp.EffectiveMinimum = minimum
		resp.UpdatedBy = override.UpdatedBy
		resp.UpdatedAt = &updatedAt
	}

	resp.EffectiveDisplay = money.FormatPence(resp.EffectiveMinimum)
	return resp
}
