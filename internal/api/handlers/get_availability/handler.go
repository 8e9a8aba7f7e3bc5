package get_availability

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/GardenBookingService/internal/api/handlers"
	"github.com/m04kA/GardenBookingService/internal/domain"
	getAvailability "github.com/m04kA/GardenBookingService/internal/usecase/get_availability"
)

const (
	msgInvalidDate    = "invalid date, expected YYYY-MM-DD"
	msgDateInPast     = "date is in the past"
	msgDateTooFar     = "date is too far in the future"
	msgUnknownService = "we can't book this service online, please contact us directly"
	msgInvalidInput   = "invalid request"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability?date=YYYY-MM-DD&service=&time=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /availability - Invalid date %q: %v", query.Get("date"), err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &getAvailability.Request{
		Date:       date,
		ServiceKey: query.Get("service"),
	}
	if query.Has("time") {
		t := query.Get("time")
		req.Time = &t
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrUnknownService):
			h.logger.Warn("GET /availability - Unknown service: %q", req.ServiceKey)
			handlers.RespondNotFound(w, msgUnknownService)

		case errors.Is(err, getAvailability.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailability.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /availability - Failed to resolve availability: date=%s, error=%v",
				date.Format(domain.DateFormat), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
