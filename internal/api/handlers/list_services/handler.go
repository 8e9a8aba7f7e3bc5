package list_services

import (
	"net/http"

	"github.com/m04kA/GardenBookingService/internal/api/handlers"
)

type Handler struct {
	catalog CatalogProvider
	logger  Logger
}

func NewHandler(catalog CatalogProvider, logger Logger) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  logger,
	}
}

// Handle GET /api/v1/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	services := h.catalog.Services(r.Context())

	h.logger.Info("GET /services - %d services listed", len(services))
	handlers.RespondJSON(w, http.StatusOK, FromServices(services))
}
