package get_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GardenBookingService/internal/catalog"
	"github.com/m04kA/GardenBookingService/internal/domain"
	getAvailability "github.com/m04kA/GardenBookingService/internal/usecase/get_availability"
	"github.com/m04kA/GardenBookingService/pkg/logger"
	"github.com/m04kA/GardenBookingService/pkg/metrics"
)

type fakeRepo struct {
	bookings []*domain.Booking
}

func (f *fakeRepo) ListByDay(context.Context, domain.DayBookingsFilter) ([]*domain.Booking, error) {
	return f.bookings, nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newHandler(t *testing.T, bookings ...*domain.Booking) *Handler {
	t.Helper()
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	uc := getAvailability.NewUseCase(&fakeRepo{bookings: bookings}, nil, catalog.Default(), (*metrics.Metrics)(nil),
		getAvailability.Settings{AdvanceBookingDays: 30, Location: london}, logger.NewNop()).
		WithTimeProvider(fixedClock{now: time.Date(2025, 6, 10, 9, 0, 0, 0, london)})
	return NewHandler(uc, logger.NewNop())
}

func get(h *Handler, query string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability?"+query, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) AvailabilityResponse {
	t.Helper()
	var resp AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandle_RequestedSlot(t *testing.T) {
	h := newHandler(t, &domain.Booking{
		ServiceKey: "weeding", Status: domain.StatusConfirmed, StartSlot: 4, SlotsRequired: 2, BufferSlots: 1,
	})

	rec := get(h, "date=2025-06-11&service=lawn-cutting&time=12:00")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode(t, rec)
	assert.Equal(t, "2025-06-11", resp.Date)
	assert.Equal(t, 1, resp.TotalBookings)
	assert.True(t, resp.Slots["12:00 - 13:00"].Booked)
	assert.True(t, resp.Slots["14:00 - 15:00"].IsBuffer)
	assert.Len(t, resp.SlotVerdicts, domain.SlotsPerDay)

	require.NotNil(t, resp.RequestedSlot)
	assert.Equal(t, "12:00 - 13:00", *resp.RequestedSlot)
	require.NotNil(t, resp.Available)
	assert.False(t, *resp.Available)
	require.NotNil(t, resp.Reason)
	assert.Equal(t, "JOB_CONFLICT", *resp.Reason)
	assert.True(t, resp.Day.Available)
	assert.Equal(t, 2, resp.Day.RemainingCapacity)
}

func TestHandle_MalformedTimeFallsBackToDayVerdict(t *testing.T) {
	rec := get(newHandler(t), "date=2025-06-11&service=lawn-cutting&time=teatime")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode(t, rec)
	assert.True(t, resp.TimeIgnored)
	assert.Nil(t, resp.Available)
	assert.True(t, resp.Day.Available)
}

func TestHandle_Sunday(t *testing.T) {
	rec := get(newHandler(t), "date=2025-06-15")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode(t, rec)
	assert.True(t, resp.NonWorkingDay)
	assert.False(t, resp.Day.Available)
	assert.Equal(t, "NON_WORKING_DAY", resp.Day.Reason)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"missing date", "service=lawn-cutting", http.StatusBadRequest},
		{"bad date", "date=11-06-2025", http.StatusBadRequest},
		{"past date", "date=2025-06-01", http.StatusBadRequest},
		{"too far ahead", "date=2025-09-01", http.StatusBadRequest},
		{"unknown service", "date=2025-06-11&service=patio-laying", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(newHandler(t), tt.query)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_TodayStartedSlotIsTooLate(t *testing.T) {
	rec := get(newHandler(t), "date=2025-06-10&service=lawn-cutting&time=08:00")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode(t, rec)
	require.NotNil(t, resp.Available)
	assert.False(t, *resp.Available)
	require.NotNil(t, resp.Reason)
	assert.Equal(t, "TOO_LATE", *resp.Reason)
	assert.False(t, resp.SlotVerdicts[1].Available)
	assert.True(t, resp.SlotVerdicts[2].Available)
}
