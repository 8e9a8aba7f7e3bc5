package pricing

import (
	"context"

	"github.com/m04kA/GardenBookingService/internal/domain"
)

// OverrideRepository pricing override storage
type OverrideRepository interface {
	Get(ctx context.Context, serviceKey string) (*domain.PricingOverride, error)
	List(ctx context.Context) ([]domain.PricingOverride, error)
	Upsert(ctx context.Context, override *domain.PricingOverride) (*domain.PricingOverride, error)
	Delete(ctx context.Context, serviceKey string) error
}

// Catalog static service table
type Catalog interface {
	Get(key string) (domain.Service, error)
	All() []domain.Service
}

// Logger printf-style logger
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
