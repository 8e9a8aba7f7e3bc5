package calculate_quote

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GardenBookingService/internal/catalog"
	calculateQuote "github.com/m04kA/GardenBookingService/internal/usecase/calculate_quote"
	"github.com/m04kA/GardenBookingService/pkg/logger"
	"github.com/m04kA/GardenBookingService/pkg/metrics"
)

func newHandler() *Handler {
	uc := calculateQuote.NewUseCase(catalog.Default(), nil, nil, (*metrics.Metrics)(nil), logger.NewNop())
	return NewHandler(uc, logger.NewNop())
}

func post(h *Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body)))
	return rec
}

func TestHandle_Quote(t *testing.T) {
	rec := post(newHandler(), `{
		"service": "lawn-cutting",
		"options": {"size": 1, "area": 1},
		"extras": {"edging": true},
		"distanceMiles": 4.2
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "lawn-cutting", resp.Service)
	require.NotNil(t, resp.Quote)
	assert.Equal(t, int64(5500), resp.Quote.TotalPence)
	assert.Equal(t, "£55.00", resp.Quote.Total)
	assert.False(t, resp.Quote.DistanceUnknown)
	assert.NotEmpty(t, resp.Quote.Lines)
}

func TestHandle_UnknownDistanceAddsNote(t *testing.T) {
	rec := post(newHandler(), `{"service": "lawn-cutting"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Quote.DistanceUnknown)
	assert.Nil(t, resp.DistanceMiles)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"unknown service", `{"service": "patio-laying"}`, http.StatusNotFound},
		{"missing service", `{}`, http.StatusBadRequest},
		{"negative distance", `{"service": "lawn-cutting", "distanceMiles": -1}`, http.StatusBadRequest},
		{"unknown option", `{"service": "lawn-cutting", "options": {"colour": 0}}`, http.StatusBadRequest},
		{"not json", `service=lawn-cutting`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(newHandler(), tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
