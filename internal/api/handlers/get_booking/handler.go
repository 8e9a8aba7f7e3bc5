package get_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/GardenBookingService/internal/api/handlers"
	"github.com/m04kA/GardenBookingService/internal/api/middleware"
	"github.com/m04kA/GardenBookingService/internal/service/bookings"
	"github.com/m04kA/GardenBookingService/internal/service/bookings/models"
)

const (
	msgInvalidReference = "invalid booking reference"
	msgNotFound         = "booking not found"
	msgMissingEmail     = "email query parameter is required"
	msgForbidden        = "access denied"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{reference}?email=...
// The manager token replaces the email check.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]

	caller := models.Caller{
		Email:   r.URL.Query().Get("email"),
		Manager: middleware.IsManager(r.Context()),
	}
	if !caller.Manager && caller.Email == "" {
		h.logger.Warn("GET /bookings/{reference} - Missing email: reference=%s", reference)
		handlers.RespondUnauthorized(w, msgMissingEmail)
		return
	}

	booking, err := h.service.GetByReference(r.Context(), reference, caller)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidReference)

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{reference} - Booking not found: reference=%s", reference)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /bookings/{reference} - Access denied: reference=%s", reference)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /bookings/{reference} - Failed to get booking: reference=%s, error=%v", reference, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/{reference} - Booking retrieved: reference=%s, manager=%t", reference, caller.Manager)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
