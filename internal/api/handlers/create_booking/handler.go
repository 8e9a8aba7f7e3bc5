package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/GardenBookingService/internal/api/handlers"
	createBooking "github.com/m04kA/GardenBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid booking date, expected YYYY-MM-DD"
	msgSlotNotAvailable   = "the selected time is no longer available"
	msgUnknownService     = "we can't book this service online, please contact us directly"
	msgDateInPast         = "booking date is in the past"
	msgDateTooFar         = "booking date is too far in the future"
	msgInvalidTimeSlot    = "invalid start time, pick one of the working day's slots"
	msgTooLateToBook      = "this slot has already started, pick a later one"
	msgInvalidPostcode    = "invalid UK postcode"
	msgConcurrentBooking  = "someone else is booking this day right now, please try again"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /bookings - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse date %q: %v", req.Date, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var unavailable *createBooking.SlotUnavailableError
		switch {
		case errors.As(err, &unavailable):
			h.logger.Warn("POST /bookings - Slot not available: service=%s, date=%s, time=%s, reason=%s",
				req.Service, req.Date, req.Time, unavailable.Reason)
			handlers.RespondJSON(w, http.StatusConflict,
				FromSlotUnavailable(unavailable, http.StatusConflict, msgSlotNotAvailable))

		case errors.Is(err, createBooking.ErrConcurrentBooking):
			h.logger.Warn("POST /bookings - Concurrent booking: date=%s", req.Date)
			handlers.RespondConflict(w, msgConcurrentBooking)

		case errors.Is(err, createBooking.ErrUnknownService):
			h.logger.Warn("POST /bookings - Unknown service: %q", req.Service)
			handlers.RespondNotFound(w, msgUnknownService)

		case errors.Is(err, createBooking.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrInvalidPostcode):
			handlers.RespondBadRequest(w, msgInvalidPostcode)

		case errors.Is(err, createBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: service=%s, date=%s, error=%v",
				req.Service, req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: reference=%s, service=%s, date=%s",
		result.Booking.Reference, result.Booking.ServiceKey, req.Date)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
