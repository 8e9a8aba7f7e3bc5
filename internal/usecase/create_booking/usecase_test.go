package create_booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GardenBookingService/internal/catalog"
	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/engine/availability"
	bookingRepo "github.com/m04kA/GardenBookingService/internal/infra/storage/booking"
	"github.com/m04kA/GardenBookingService/internal/usecase/calculate_quote"
	"github.com/m04kA/GardenBookingService/pkg/logger"
	"github.com/m04kA/GardenBookingService/pkg/ptr"
)

type memoryRepo struct {
	bookings  []*domain.Booking
	locked    []time.Time
	createErr error
	listErr   error
}

func (m *memoryRepo) LockDay(_ context.Context, date time.Time) error {
	m.locked = append(m.locked, date)
	return nil
}

func (m *memoryRepo) ListByDay(_ context.Context, filter domain.DayBookingsFilter) ([]*domain.Booking, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*domain.Booking, 0)
	for _, b := range m.bookings {
		if domain.IsSameDay(b.BookingDate, filter.StartDate) && b.IsActive() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	b.ID = int64(len(m.bookings) + 1)
	m.bookings = append(m.bookings, b)
	return b, nil
}

type passThroughTx struct{ calls int }

func (p *passThroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type fakeCache struct{ invalidated []time.Time }

func (f *fakeCache) Invalidate(_ context.Context, date time.Time) error {
	f.invalidated = append(f.invalidated, date)
	return nil
}

type fakeMetrics struct{ outcomes []string }

func (f *fakeMetrics) ObserveBooking(outcome string) { f.outcomes = append(f.outcomes, outcome) }
func (f *fakeMetrics) ObserveVerdict(_, _ string) {}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// Tuesday 10 June 2025, 09:30 UTC
var now = time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

func day(d int) time.Time { return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC) }

type fixture struct {
	uc      *UseCase
	repo    *memoryRepo
	tx      *passThroughTx
	cache   *fakeCache
	metrics *fakeMetrics
}

func newFixture(existing ...*domain.Booking) *fixture {
	f := &fixture{
		repo:    &memoryRepo{bookings: existing},
		tx:      &passThroughTx{},
		cache:   &fakeCache{},
		metrics: &fakeMetrics{},
	}
	quoter := calculate_quote.NewUseCase(catalog.Default(), nil, nil, &nopQuoteMetrics{}, logger.NewNop())
	f.uc = NewUseCase(f.repo, quoter, f.cache, f.tx, f.metrics, Settings{
		AdvanceBookingDays: 60,
		Location:           time.UTC,
	}, logger.NewNop()).WithTimeProvider(fixedClock{now: now})
	return f
}

type nopQuoteMetrics struct{}

func (nopQuoteMetrics) ObserveQuote(string, bool) {}

func validRequest(service, slot string, date time.Time) *Request {
	return &Request{
		Date:          date,
		ServiceKey:    service,
		Time:          slot,
		CustomerName:  "Sam Taylor",
		CustomerEmail: "sam@example.co.uk",
		CustomerPhone: "07700 900123",
		Postcode:      "BS8 1TH",
		Address:       "1 Park Row, Bristol",
	}
}

func confirmed(service string, date time.Time, start, slots, buffer int) *domain.Booking {
	return &domain.Booking{
		Reference:     uuid.NewString(),
		ServiceKey:    service,
		BookingDate:   date,
		StartSlot:     start,
		Status:        domain.StatusConfirmed,
		SlotsRequired: slots,
		BufferSlots:   buffer,
	}
}

func TestExecute_CreatesBookingWithSnapshot(t *testing.T) {
	f := newFixture()

	req := validRequest("hedge-trimming", "10:00", day(11))
	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	b := resp.Booking
	_, parseErr := uuid.Parse(b.Reference)
	assert.NoError(t, parseErr)
	assert.Equal(t, 2, b.StartSlot)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	assert.Equal(t, 3, b.SlotsRequired)
	assert.Equal(t, 2, b.BufferSlots)
	assert.False(t, b.FullDay)
	assert.Equal(t, resp.Quote.TotalPence, b.PricePence)
	require.NotNil(t, b.PriceNote, "distance was never looked up")

	assert.Equal(t, 1, f.tx.calls)
	assert.Len(t, f.repo.locked, 1)
	assert.Equal(t, []time.Time{day(11)}, f.cache.invalidated)
	assert.Equal(t, []string{"created"}, f.metrics.outcomes)
}

func TestExecute_FullDayNormalizedToFirstSlot(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest("garden-clearance", "13:00", day(11)))
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Booking.StartSlot)
	assert.True(t, resp.Booking.FullDay)
}

func TestExecute_RejectedWithAlternatives(t *testing.T) {
	f := newFixture(confirmed("weeding", day(11), 3, 1, 0))

	_, err := f.uc.Execute(context.Background(), validRequest("lawn-cutting", "09:00", day(11)))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	var unavailable *SlotUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, availability.ReasonBufferConflict, unavailable.Reason)
	// 09:00 and 10:00 would run their buffer into the 11:00 job
	assert.Contains(t, unavailable.Alternatives, 0)
	assert.NotContains(t, unavailable.Alternatives, 1)
	assert.NotContains(t, unavailable.Alternatives, 2)
	assert.NotContains(t, unavailable.Alternatives, 3)
	assert.Contains(t, unavailable.Alternatives, 4)

	assert.Len(t, f.repo.bookings, 1)
	assert.Empty(t, f.cache.invalidated)
	assert.Equal(t, []string{"rejected_BUFFER_CONFLICT"}, f.metrics.outcomes)
}

func TestExecute_DailyCap(t *testing.T) {
	f := newFixture(
		confirmed("a", day(11), 0, 1, 0),
		confirmed("b", day(11), 2, 1, 0),
		confirmed("c", day(11), 4, 1, 0),
	)

	_, err := f.uc.Execute(context.Background(), validRequest("lawn-cutting", "16:00", day(11)))

	var unavailable *SlotUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, availability.ReasonDailyCapReached, unavailable.Reason)
	assert.Empty(t, unavailable.Alternatives)
}

func TestExecute_SecondSubmissionForSameSlotLoses(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), validRequest("hedge-trimming", "08:00", day(12)))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), validRequest("hedge-trimming", "08:00", day(12)))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Len(t, f.repo.bookings, 1)
}

func TestExecute_CancelledBookingsFreeTheDay(t *testing.T) {
	cancelled := confirmed("garden-clearance", day(11), 0, domain.SlotsPerDay, 0)
	cancelled.FullDay = true
	cancelled.Status = domain.StatusCancelledByCustomer
	f := newFixture(cancelled)

	_, err := f.uc.Execute(context.Background(), validRequest("lawn-cutting", "08:00", day(11)))
	assert.NoError(t, err)
}

func TestExecute_NonWorkingDay(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), validRequest("lawn-cutting", "10:00", day(15)))

	var unavailable *SlotUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, availability.ReasonNonWorkingDay, unavailable.Reason)
	assert.Zero(t, f.tx.calls)
}

func TestExecute_InputErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"missing name", func(r *Request) { r.CustomerName = " " }, ErrInvalidInput},
		{"bad email", func(r *Request) { r.CustomerEmail = "sam" }, ErrInvalidInput},
		{"missing address", func(r *Request) { r.Address = "" }, ErrInvalidInput},
		{"long notes", func(r *Request) { r.Notes = ptr.Ptr(string(make([]byte, domain.MaxNotesLength+1))) }, ErrInvalidInput},
		{"slot outside hours", func(r *Request) { r.Time = "18:00" }, ErrInvalidTimeSlot},
		{"slot garbage", func(r *Request) { r.Time = "soon" }, ErrInvalidTimeSlot},
		{"past date", func(r *Request) { r.Date = day(9) }, ErrInvalidDate},
		{"too far ahead", func(r *Request) { r.Date = day(10).AddDate(0, 0, 61) }, ErrDateTooFarInFuture},
		{"unknown service", func(r *Request) { r.ServiceKey = "pond-building" }, ErrUnknownService},
		{"bad option", func(r *Request) { r.Options = map[string]int{"size": 7} }, ErrInvalidInput},
		{"slot already started", func(r *Request) { r.Date = day(10); r.Time = "09:00" }, ErrTooLateToBook},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := validRequest("lawn-cutting", "14:00", day(11))
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.repo.bookings)
		})
	}
}

func TestExecute_LaterSlotTodayIsAccepted(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), validRequest("lawn-cutting", "10:00", day(10)))
	assert.NoError(t, err)
}

func TestExecute_RepositoryErrors(t *testing.T) {
	f := newFixture()
	f.repo.createErr = fmt.Errorf("%w: could not serialize access", bookingRepo.ErrSerialization)

	_, err := f.uc.Execute(context.Background(), validRequest("lawn-cutting", "14:00", day(11)))
	assert.ErrorIs(t, err, ErrConcurrentBooking)
	assert.Equal(t, []string{"concurrent"}, f.metrics.outcomes)

	f = newFixture()
	f.repo.listErr = errors.New("connection reset")

	_, err = f.uc.Execute(context.Background(), validRequest("lawn-cutting", "14:00", day(11)))
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, []string{"error"}, f.metrics.outcomes)
}

func TestSlotUnavailableError_Message(t *testing.T) {
	err := &SlotUnavailableError{Reason: availability.ReasonJobConflict, Alternatives: []int{0, 5}}
	assert.Contains(t, err.Error(), "JOB_CONFLICT")
	assert.Contains(t, err.Error(), "13:00 - 14:00")
}

func TestExecute_SameDayAlternativesSkipStartedSlots(t *testing.T) {
	f := newFixture(confirmed("lawn-cutting", day(10), 4, 1, 2))

	_, err := f.uc.Execute(context.Background(), validRequest("lawn-cutting", "11:00", day(10)))

	var unavailable *SlotUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, availability.ReasonBufferConflict, unavailable.Reason)
	// 08:00 and 09:00 fit around the 12:00 job but have already started at 09:30
	assert.Equal(t, []int{7, 8}, unavailable.Alternatives)

	for _, alt := range unavailable.Alternatives {
		retry := validRequest("lawn-cutting", domain.SlotLabel(alt), day(10))
		_, err := newFixture(confirmed("lawn-cutting", day(10), 4, 1, 2)).uc.Execute(context.Background(), retry)
		assert.NoError(t, err, domain.SlotLabel(alt))
	}
}
