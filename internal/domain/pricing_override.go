package domain

import "time"

// PricingOverride runtime override of a service's static price table,
// managed from the dashboard. Merged into the catalog before pricing.
type PricingOverride struct {
	ServiceKey          string
	MinimumCallOutPence int64
	UpdatedBy           string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
