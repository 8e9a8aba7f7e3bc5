package calculate_quote

import (
	"context"

	"github.com/m04kA/GardenBookingService/internal/domain"
)

// PricingOverrideRepository remote pricing overrides
type PricingOverrideRepository interface {
	List(ctx context.Context) ([]domain.PricingOverride, error)
}

// DistanceClient postcode -> miles from the business base
type DistanceClient interface {
	MilesWithGracefulDegradation(ctx context.Context, postcode string) (float64, error)
}

// Metrics quote counter
type Metrics interface {
	ObserveQuote(service string, floored bool)
}

// Logger interface for logging
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
