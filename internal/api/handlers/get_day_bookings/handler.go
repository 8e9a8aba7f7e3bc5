package get_day_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/GardenBookingService/internal/api/handlers"
	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/service/bookings"
	"github.com/m04kA/GardenBookingService/internal/service/bookings/models"
)

const (
	msgInvalidDate            = "invalid date, expected YYYY-MM-DD"
	msgInvalidIncludeInactive = "includeInactive must be true or false"
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

// Handle GET /api/v1/manager/days/{date}/bookings?includeInactive=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := mux.Vars(r)["date"]

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /manager/days/{date}/bookings - Invalid date %q: %v", dateStr, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &models.GetDayRequest{Date: date}
	if raw := r.URL.Query().Get("includeInactive"); raw != "" {
		req.IncludeInactive, err = strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidIncludeInactive)
			return
		}
	}

	day, err := h.service.GetDay(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /manager/days/{date}/bookings - Failed to get day: date=%s, error=%v", dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /manager/days/{date}/bookings - Day retrieved: date=%s, bookings=%d",
		dateStr, len(day.Bookings))
	handlers.RespondJSON(w, http.StatusOK, day)
}
