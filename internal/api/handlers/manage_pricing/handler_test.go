package manage_pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GardenBookingService/internal/service/pricing"
	"github.com/m04kA/GardenBookingService/internal/service/pricing/models"
	"github.com/m04kA/GardenBookingService/pkg/logger"
)

type stubService struct {
	upserted *models.UpsertOverrideRequest
	err      error
}

func (s *stubService) List(context.Context) (*models.OverrideListResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.OverrideListResponse{Overrides: []models.OverrideResponse{{ServiceKey: "lawn-mowing"}}}, nil
}

func (s *stubService) Get(_ context.Context, key string) (*models.OverrideResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.OverrideResponse{ServiceKey: key, EffectiveMinimum: 4000}, nil
}

func (s *stubService) Upsert(_ context.Context, key string, req *models.UpsertOverrideRequest) (*models.OverrideResponse, error) {
	s.upserted = req
	if s.err != nil {
		return nil, s.err
	}
	minimum := req.MinimumCallOutPence
	return &models.OverrideResponse{ServiceKey: key, OverrideMinimum: &minimum, EffectiveMinimum: minimum}, nil
}

func (s *stubService) Delete(context.Context, string) error {
	return s.err
}

func newRouter(svc PricingService) *mux.Router {
	h := NewHandler(svc, logger.NewNop())
	r := mux.NewRouter()
	r.HandleFunc("/pricing", h.HandleList).Methods(http.MethodGet)
	r.HandleFunc("/pricing/{service}", h.HandleGet).Methods(http.MethodGet)
	r.HandleFunc("/pricing/{service}", h.HandleUpdate).Methods(http.MethodPut)
	r.HandleFunc("/pricing/{service}", h.HandleDelete).Methods(http.MethodDelete)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestHandleUpdate(t *testing.T) {
	svc := &stubService{}
	rec := do(newRouter(svc), http.MethodPut, "/pricing/hedge-trimming", `{"minimumCallOutPence":5500,"updatedBy":"owner"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5500), svc.upserted.MinimumCallOutPence)
	assert.Equal(t, "owner", svc.upserted.UpdatedBy)

	var resp models.OverrideResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "hedge-trimming", resp.ServiceKey)
	assert.Equal(t, int64(5500), resp.EffectiveMinimum)
}

func TestHandleUpdate_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing minimum", `{"updatedBy":"owner"}`},
		{"negative minimum", `{"minimumCallOutPence":-1}`},
		{"above cap", `{"minimumCallOutPence":500001}`},
		{"unknown field", `{"minimumCallOutPence":100,"price":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			rec := do(newRouter(svc), http.MethodPut, "/pricing/hedge-trimming", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, svc.upserted)
		})
	}
}

func TestHandleUpdate_ZeroMinimumAllowed(t *testing.T) {
	svc := &stubService{}
	rec := do(newRouter(svc), http.MethodPut, "/pricing/hedge-trimming", `{"minimumCallOutPence":0}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleDelete(t *testing.T) {
	rec := do(newRouter(&stubService{}), http.MethodDelete, "/pricing/hedge-trimming", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(newRouter(&stubService{err: pricing.ErrOverrideNotFound}), http.MethodDelete, "/pricing/hedge-trimming", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandle_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unknown service", pricing.ErrUnknownService, http.StatusNotFound},
		{"invalid input", pricing.ErrInvalidInput, http.StatusBadRequest},
		{"storage", pricing.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{err: fmt.Errorf("%w: test", tt.err)}
			rec := do(newRouter(svc), http.MethodGet, "/pricing/nope", "")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	rec := do(newRouter(&stubService{err: pricing.ErrInternal}), http.MethodGet, "/pricing", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
