package update_booking_status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GardenBookingService/internal/service/bookings"
	"github.com/m04kA/GardenBookingService/internal/service/bookings/models"
	"github.com/m04kA/GardenBookingService/pkg/logger"
)

type stubService struct {
	err    error
	called bool
}

func (s *stubService) UpdateStatus(_ context.Context, ref string, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.called = true
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingResponse{Reference: ref, Status: req.Status}, nil
}

func patch(svc *stubService, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/manager/bookings/ref-1/status", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"reference": "ref-1"})
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	rec := patch(&stubService{}, `{"status":"no_show"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ref-1", got.Reference)
	assert.Equal(t, "no_show", got.Status)
}

func TestHandle_RejectsBeforeService(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"status":`},
		{"missing status", `{}`},
		{"cancel is not a manager status", `{"status":"cancelled_by_business"}`},
		{"unknown field", `{"status":"completed","by":"me"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			rec := patch(svc, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, svc.called)
		})
	}
}

func TestHandle_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid reference", bookings.ErrInvalidInput, http.StatusBadRequest},
		{"not found", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"already cancelled", bookings.ErrInvalidStatus, http.StatusConflict},
		{"storage", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := patch(&stubService{err: tt.err}, `{"status":"completed"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
