package get_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/GardenBookingService/internal/api/middleware"
	"github.com/m04kA/GardenBookingService/internal/service/bookings"
	"github.com/m04kA/GardenBookingService/internal/service/bookings/models"
	"github.com/m04kA/GardenBookingService/pkg/logger"
)

const reference = "5f1c2d9e-1b7a-4c43-9d1e-3f5b6a7c8d90"

type stubService struct {
	got *models.Caller
}

func (s *stubService) GetByReference(_ context.Context, ref string, caller models.Caller) (*models.BookingResponse, error) {
	s.got = &caller
	if !caller.Manager && caller.Email != "jane@example.com" {
		return nil, bookings.ErrAccessDenied
	}
	return &models.BookingResponse{Reference: ref}, nil
}

func get(svc *stubService, query string, manager bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+reference+query, nil)
	req = mux.SetURLVars(req, map[string]string{"reference": reference})
	if manager {
		req = req.WithContext(middleware.WithManager(req.Context()))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		manager    bool
		wantStatus int
	}{
		{"customer", "?email=jane@example.com", false, http.StatusOK},
		{"wrong email", "?email=john@example.com", false, http.StatusForbidden},
		{"no email", "", false, http.StatusUnauthorized},
		{"manager", "", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(&stubService{}, tt.query, tt.manager)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
