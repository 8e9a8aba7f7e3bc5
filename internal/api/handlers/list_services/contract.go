package list_services

import (
	"context"

	"github.com/m04kA/GardenBookingService/internal/domain"
)

type CatalogProvider interface {
	Services(ctx context.Context) []domain.Service
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
