package calculate_quote

import (
	"errors"
	"net/http"

	"github.com/m04kA/GardenBookingService/internal/api/handlers"
	calculateQuote "github.com/m04kA/GardenBookingService/internal/usecase/calculate_quote"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgUnknownService     = "we can't price this service online, please contact us directly"
	msgInvalidPostcode    = "invalid UK postcode"
)

type Handler struct {
	useCase CalculateQuoteUseCase
	logger  Logger
}

func NewHandler(useCase CalculateQuoteUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/quotes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /quotes - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /quotes - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, calculateQuote.ErrUnknownService):
			h.logger.Warn("POST /quotes - Unknown service: %q", req.Service)
			handlers.RespondNotFound(w, msgUnknownService)

		case errors.Is(err, calculateQuote.ErrInvalidPostcode):
			handlers.RespondBadRequest(w, msgInvalidPostcode)

		case errors.Is(err, calculateQuote.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /quotes - Failed to calculate quote: service=%s, error=%v", req.Service, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
