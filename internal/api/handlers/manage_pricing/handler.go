package manage_pricing

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/GardenBookingService/internal/api/handlers"
	"github.com/m04kA/GardenBookingService/internal/service/pricing"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgUnknownService     = "unknown service"
	msgOverrideNotFound   = "no override set for this service"
)

// Handler manager endpoints for minimum call-out overrides
type Handler struct {
	service PricingService
	logger  Logger
}

func NewHandler(service PricingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleList GET /api/v1/manager/pricing
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("GET /manager/pricing - Failed to list overrides: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}

// HandleGet GET /api/v1/manager/pricing/{service}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	serviceKey := mux.Vars(r)["service"]

	override, err := h.service.Get(r.Context(), serviceKey)
	if err != nil {
		h.respondServiceError(w, "GET", serviceKey, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, override)
}

// HandleUpdate PUT /api/v1/manager/pricing/{service}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	serviceKey := mux.Vars(r)["service"]

	var req UpdateOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /manager/pricing/{service} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("PUT /manager/pricing/{service} - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	override, err := h.service.Upsert(r.Context(), serviceKey, req.ToServiceRequest())
	if err != nil {
		h.respondServiceError(w, "PUT", serviceKey, err)
		return
	}

	h.logger.Info("PUT /manager/pricing/{service} - Override set: service=%s, minimum=%d",
		serviceKey, override.EffectiveMinimum)
	handlers.RespondJSON(w, http.StatusOK, override)
}

// HandleDelete DELETE /api/v1/manager/pricing/{service}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	serviceKey := mux.Vars(r)["service"]

	if err := h.service.Delete(r.Context(), serviceKey); err != nil {
		h.respondServiceError(w, "DELETE", serviceKey, err)
		return
	}

	h.logger.Info("DELETE /manager/pricing/{service} - Override removed: service=%s", serviceKey)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, method, serviceKey string, err error) {
	switch {
	case errors.Is(err, pricing.ErrUnknownService):
		handlers.RespondNotFound(w, msgUnknownService)

	case errors.Is(err, pricing.ErrOverrideNotFound):
		handlers.RespondNotFound(w, msgOverrideNotFound)

	case errors.Is(err, pricing.ErrInvalidInput):
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("%s /manager/pricing/{service} - Failed: service=%s, error=%v", method, serviceKey, err)
		handlers.RespondInternalError(w)
	}
}
