package manage_pricing

import (
	"context"

	"github.com/m04kA/GardenBookingService/internal/service/pricing/models"
)

type PricingService interface {
	List(ctx context.Context) (*models.OverrideListResponse, error)
	Get(ctx context.Context, serviceKey string) (*models.OverrideResponse, error)
	Upsert(ctx context.Context, serviceKey string, req *models.UpsertOverrideRequest) (*models.OverrideResponse, error)
	Delete(ctx context.Context, serviceKey string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
