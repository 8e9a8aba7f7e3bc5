package get_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GardenBookingService/internal/catalog"
	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/engine/availability"
	"github.com/m04kA/GardenBookingService/pkg/logger"
	"github.com/m04kA/GardenBookingService/pkg/ptr"
)

type fakeRepo struct {
	bookings []*domain.Booking
	err      error
	calls    int
	onList   func() // runs while the bookings are being read
}

func (f *fakeRepo) ListByDay(_ context.Context, _ domain.DayBookingsFilter) ([]*domain.Booking, error) {
	f.calls++
	if f.onList != nil {
		f.onList()
	}
	return f.bookings, f.err
}

type fakeCache struct {
	state      *domain.DayBookingState
	version    int64
	getErr     error
	versionErr error
	sets       int
}

func (f *fakeCache) Get(_ context.Context, _ time.Time) (*domain.DayBookingState, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	return f.state, f.state != nil, nil
}

func (f *fakeCache) Version(_ context.Context, _ time.Time) (int64, error) {
	return f.version, f.versionErr
}

func (f *fakeCache) Set(_ context.Context, _ time.Time, version int64, state *domain.DayBookingState) (bool, error) {
	f.sets++
	if version != f.version {
		return false, nil
	}
	f.state = state
	return true, nil
}

func (f *fakeCache) invalidate() {
	f.version++
	f.state = nil
}

type fakeMetrics struct {
	verdicts []string
	cache    []string
}

func (f *fakeMetrics) ObserveVerdict(level, reason string) {
	f.verdicts = append(f.verdicts, level+":"+reason)
}

func (f *fakeMetrics) ObserveCache(result string) {
	f.cache = append(f.cache, result)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type holidaySet map[string]bool

func (h holidaySet) IsHoliday(date time.Time) bool { return h[date.Format(domain.DateFormat)] }

var london = mustLocation("Europe/London")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Tuesday 10 June 2025, 09:00
var now = time.Date(2025, 6, 10, 9, 0, 0, 0, london)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, london)
}

func newUseCase(repo *fakeRepo, cache DayStateCache, m *fakeMetrics, holidays domain.HolidayChecker) *UseCase {
	return NewUseCase(repo, cache, catalog.Default(), m, Settings{
		AdvanceBookingDays: 30,
		Location:           london,
		Holidays:           holidays,
	}, logger.NewNop()).WithTimeProvider(fixedClock{now: now})
}

func TestExecute_EmptyDay(t *testing.T) {
	repo := &fakeRepo{}
	m := &fakeMetrics{}
	uc := newUseCase(repo, nil, m, nil)

	resp, err := uc.Execute(context.Background(), &Request{Date: day(11), ServiceKey: "lawn-cutting", Time: ptr.Ptr("09:00")})
	require.NoError(t, err)

	assert.False(t, resp.NonWorkingDay)
	assert.True(t, resp.Result.Day.Available)
	assert.Equal(t, 3, resp.Result.Day.RemainingCapacity)
	require.NotNil(t, resp.Result.Requested)
	assert.Equal(t, 1, resp.Result.Requested.Slot)
	assert.True(t, resp.Result.Requested.Available)
	assert.Equal(t, []string{"day:", "slot:"}, m.verdicts)
}

func TestExecute_BufferConflictWithLaterJob(t *testing.T) {
	repo := &fakeRepo{bookings: []*domain.Booking{
		{ServiceKey: "weeding", Status: domain.StatusConfirmed, StartSlot: 3, SlotsRequired: 1},
	}}
	uc := newUseCase(repo, nil, &fakeMetrics{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{Date: day(11), ServiceKey: "lawn-cutting", Time: ptr.Ptr("09:00 - 10:00")})
	require.NoError(t, err)

	require.NotNil(t, resp.Result.Requested)
	assert.False(t, resp.Result.Requested.Available)
	assert.Equal(t, availability.ReasonBufferConflict, resp.Result.Requested.Reason)
	assert.True(t, resp.Result.Day.Available)
}

func TestExecute_Sunday(t *testing.T) {
	repo := &fakeRepo{}
	uc := newUseCase(repo, nil, &fakeMetrics{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{Date: day(15), ServiceKey: "lawn-cutting", Time: ptr.Ptr("10:00")})
	require.NoError(t, err)

	assert.True(t, resp.NonWorkingDay)
	assert.False(t, resp.Result.Day.Available)
	assert.Equal(t, availability.ReasonNonWorkingDay, resp.Result.Day.Reason)
	require.NotNil(t, resp.Result.Requested)
	assert.False(t, resp.Result.Requested.Available)
	assert.Zero(t, repo.calls)
}

func TestExecute_BankHoliday(t *testing.T) {
	uc := newUseCase(&fakeRepo{}, nil, &fakeMetrics{}, holidaySet{"2025-06-12": true})

	resp, err := uc.Execute(context.Background(), &Request{Date: day(12)})
	require.NoError(t, err)
	assert.True(t, resp.NonWorkingDay)
}

func TestExecute_NoServiceUsesDayLevelCheck(t *testing.T) {
	repo := &fakeRepo{bookings: []*domain.Booking{
		{ServiceKey: "garden-clearance", Status: domain.StatusConfirmed, FullDay: true, SlotsRequired: domain.SlotsPerDay},
	}}
	uc := newUseCase(repo, nil, &fakeMetrics{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{Date: day(11)})
	require.NoError(t, err)

	assert.True(t, resp.State.FullDayBooked)
	assert.Equal(t, availability.ReasonFullDayBooked, resp.Result.Day.Reason)
}

func TestExecute_MalformedTimeFallsBackToDayVerdict(t *testing.T) {
	uc := newUseCase(&fakeRepo{}, nil, &fakeMetrics{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{Date: day(11), ServiceKey: "lawn-cutting", Time: ptr.Ptr("9.30am")})
	require.NoError(t, err)

	assert.True(t, resp.TimeIgnored)
	assert.Nil(t, resp.Result.Requested)
	assert.True(t, resp.Result.Day.Available)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		repoErr error
		wantErr error
	}{
		{"missing date", &Request{}, nil, ErrInvalidInput},
		{"past date", &Request{Date: day(9)}, nil, ErrInvalidDate},
		{"beyond window", &Request{Date: day(10).AddDate(0, 0, 31)}, nil, ErrDateTooFarInFuture},
		{"unknown service", &Request{Date: day(11), ServiceKey: "pond-building"}, nil, ErrUnknownService},
		{"repository failure", &Request{Date: day(11)}, errors.New("db down"), ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(&fakeRepo{err: tt.repoErr}, nil, &fakeMetrics{}, nil)
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_CacheHitSkipsRepository(t *testing.T) {
	repo := &fakeRepo{}
	cache := &fakeCache{state: &domain.DayBookingState{TotalBookings: domain.DailyBookingCap}}
	m := &fakeMetrics{}
	uc := newUseCase(repo, cache, m, nil)

	resp, err := uc.Execute(context.Background(), &Request{Date: day(11), ServiceKey: "lawn-cutting"})
	require.NoError(t, err)

	assert.Zero(t, repo.calls)
	assert.Equal(t, availability.ReasonDailyCapReached, resp.Result.Day.Reason)
	assert.Equal(t, []string{"hit"}, m.cache)
}

func TestExecute_CacheMissFillsCache(t *testing.T) {
	repo := &fakeRepo{}
	cache := &fakeCache{}
	m := &fakeMetrics{}
	uc := newUseCase(repo, cache, m, nil)

	_, err := uc.Execute(context.Background(), &Request{Date: day(11)})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 1, cache.sets)
	assert.NotNil(t, cache.state)
	assert.Equal(t, []string{"miss"}, m.cache)
}

func TestExecute_BookingDuringMissKeepsStaleStateOut(t *testing.T) {
	cache := &fakeCache{version: 4}
	repo := &fakeRepo{}
	// a booking commits and invalidates the date after the version was taken
	repo.onList = func() { cache.invalidate() }
	uc := newUseCase(repo, cache, &fakeMetrics{}, nil)

	_, err := uc.Execute(context.Background(), &Request{Date: day(11)})
	require.NoError(t, err)

	assert.Equal(t, 1, cache.sets)
	assert.Nil(t, cache.state)
	assert.Equal(t, int64(5), cache.version)

	// the next miss reads the new version and fills the cache
	repo.onList = nil
	repo.bookings = []*domain.Booking{
		{ServiceKey: "weeding", Status: domain.StatusConfirmed, StartSlot: 3, SlotsRequired: 1},
	}
	_, err = uc.Execute(context.Background(), &Request{Date: day(11)})
	require.NoError(t, err)

	require.NotNil(t, cache.state)
	assert.Equal(t, 1, cache.state.TotalBookings)
}

func TestExecute_UnreadableVersionSkipsCacheFill(t *testing.T) {
	repo := &fakeRepo{}
	cache := &fakeCache{versionErr: errors.New("redis down")}
	uc := newUseCase(repo, cache, &fakeMetrics{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{Date: day(11)})
	require.NoError(t, err)

	assert.True(t, resp.Result.Day.Available)
	assert.Equal(t, 1, repo.calls)
	assert.Zero(t, cache.sets)
}

func TestExecute_CacheFailureIsBypassed(t *testing.T) {
	repo := &fakeRepo{}
	m := &fakeMetrics{}
	uc := newUseCase(repo, &fakeCache{getErr: errors.New("redis down")}, m, nil)

	resp, err := uc.Execute(context.Background(), &Request{Date: day(11)})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	assert.True(t, resp.Result.Day.Available)
	assert.Equal(t, []string{"error"}, m.cache)
}

func TestExecute_TodayClosesStartedSlots(t *testing.T) {
	uc := newUseCase(&fakeRepo{}, nil, &fakeMetrics{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{Date: day(10), ServiceKey: "lawn-cutting", Time: ptr.Ptr("08:00")})
	require.NoError(t, err)

	require.NotNil(t, resp.Result.Requested)
	assert.False(t, resp.Result.Requested.Available)
	assert.Equal(t, availability.ReasonTooLate, resp.Result.Requested.Reason)
	// 08:00 and 09:00 have started at 09:00
	assert.Equal(t, availability.ReasonTooLate, resp.Result.Slots[1].Reason)
	assert.Equal(t, []int{2, 3, 4, 5, 6, 7, 8}, availability.AvailableSlots(resp.Result.Slots))
	assert.True(t, resp.Result.Day.Available)
	assert.Equal(t, 7, resp.Result.Day.BookableStarts)
}

func TestExecute_TodayFullDayServiceIsTooLate(t *testing.T) {
	uc := newUseCase(&fakeRepo{}, nil, &fakeMetrics{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{Date: day(10), ServiceKey: "garden-clearance"})
	require.NoError(t, err)

	assert.False(t, resp.Result.Day.Available)
	assert.Equal(t, availability.ReasonTooLate, resp.Result.Day.Reason)
}
