package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/GardenBookingService/internal/catalog"
	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/engine/availability"
)

// Settings business calendar settings
type Settings struct {
	AdvanceBookingDays int
	Location           *time.Location
	Holidays           domain.HolidayChecker // nil when open on bank holidays
}

// UseCase availability of a day for a service
type UseCase struct {
	bookingRepo  BookingRepository
	cache        DayStateCache
	catalog      Catalog
	metrics      Metrics
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase creates the use case. cache may be nil.
func NewUseCase(
	bookingRepo BookingRepository,
	cache DayStateCache,
	catalog Catalog,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		cache:        cache,
		catalog:      catalog,
		metrics:      metrics,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider replaces the clock
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute derives the day's booking state and runs the resolver on it
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: date=%s, service=%q", req.Date.Format(domain.DateFormat), req.ServiceKey)

	// 1. Validate input
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	date := domain.CalendarDate(req.Date, uc.settings.Location)
	now := uc.timeProvider.Now().In(uc.settings.Location)

	// 2. Booking window
	if err := validateDate(date, now, uc.settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailability: date validation failed: %v", err)
		return nil, err
	}

	// 3. Capacity rule of the selected service; unknown keys fail closed
	var rule *domain.CapacityRule
	if req.ServiceKey != "" {
		service, err := uc.catalog.Get(req.ServiceKey)
		if err != nil {
			if errors.Is(err, catalog.ErrUnknownService) {
				uc.logger.Warn("GetAvailability: unknown service %q", req.ServiceKey)
				return nil, fmt.Errorf("%w: %s", ErrUnknownService, req.ServiceKey)
			}
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		rule = &service.Capacity
	}

	// 4. Requested start slot; a malformed time falls back to the day verdict
	var requestedSlot *int
	timeIgnored := false
	if req.Time != nil && *req.Time != "" {
		slot, err := domain.ParseSlot(*req.Time)
		if err != nil {
			uc.logger.Warn("GetAvailability: ignoring requested time %q: %v", *req.Time, err)
			timeIgnored = true
		} else {
			requestedSlot = &slot
		}
	}

	resp := &Response{
		Date:        date,
		ServiceKey:  req.ServiceKey,
		TimeIgnored: timeIgnored,
	}

	// 5. Sundays and closure holidays are never operable
	if !domain.IsWorkingDay(date, uc.settings.Holidays) {
		uc.logger.Info("GetAvailability: %s is not a working day", date.Format(domain.DateFormat))
		resp.NonWorkingDay = true
		resp.State = &domain.DayBookingState{}
		resp.Result = nonWorkingDayResult(requestedSlot)
		uc.metrics.ObserveVerdict("day", string(availability.ReasonNonWorkingDay))
		return resp, nil
	}

	// 6. Day booking state
	state, err := uc.loadState(ctx, date)
	if err != nil {
		return nil, err
	}
	resp.State = state

	// 7. Resolve; on the day itself started slots are gone
	resp.Result = availability.CloseStartedSlots(
		availability.Resolve(state, rule, requestedSlot),
		rule,
		domain.FirstBookableSlot(date, now),
	)

	uc.metrics.ObserveVerdict("day", string(resp.Result.Day.Reason))
	if resp.Result.Requested != nil {
		uc.metrics.ObserveVerdict("slot", string(resp.Result.Requested.Reason))
	}

	uc.logger.Info("GetAvailability: date=%s, service=%q, total=%d, available=%t, reason=%s, bookable=%d",
		date.Format(domain.DateFormat), req.ServiceKey, state.TotalBookings,
		resp.Result.Day.Available, resp.Result.Day.Reason, resp.Result.Day.BookableStarts)

	return resp, nil
}

// loadState reads through the cache; cache failures are logged and bypassed.
// The cache version is taken before the bookings are read so a booking created or
// cancelled meanwhile keeps the older state out of the cache.
func (uc *UseCase) loadState(ctx context.Context, date time.Time) (*domain.DayBookingState, error) {
	cacheable := false
	var version int64
	if uc.cache != nil {
		state, ok, err := uc.cache.Get(ctx, date)
		switch {
		case err != nil:
			uc.metrics.ObserveCache("error")
			uc.logger.Warn("GetAvailability: day state cache unavailable, reading bookings: %v", err)
		case ok:
			uc.metrics.ObserveCache("hit")
			return state, nil
		default:
			uc.metrics.ObserveCache("miss")
			version, err = uc.cache.Version(ctx, date)
			if err != nil {
				uc.logger.Warn("GetAvailability: failed to read day state version, not caching: %v", err)
			}
			cacheable = err == nil
		}
	}

	bookings, err := uc.bookingRepo.ListByDay(ctx, domain.DayBookingsFilter{
		StartDate: date,
		EndDate:   date,
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	state := domain.NewDayBookingState(bookings)

	if cacheable {
		stored, err := uc.cache.Set(ctx, date, version, state)
		switch {
		case err != nil:
			uc.logger.Warn("GetAvailability: failed to cache day state: %v", err)
		case !stored:
			uc.logger.Info("GetAvailability: %s changed while loading, day state not cached", date.Format(domain.DateFormat))
		}
	}

	return state, nil
}

func nonWorkingDayResult(requestedSlot *int) availability.Result {
	res := availability.Result{
		Day:   availability.DayVerdict{Reason: availability.ReasonNonWorkingDay},
		Slots: make([]availability.SlotVerdict, domain.SlotsPerDay),
	}
	for i := range res.Slots {
		res.Slots[i] = availability.SlotVerdict{
			Slot:   i,
			Label:  domain.SlotLabel(i),
			Reason: availability.ReasonNonWorkingDay,
		}
	}
	if requestedSlot != nil && domain.IsValidSlot(*requestedSlot) {
		v := res.Slots[*requestedSlot]
		res.Requested = &v
	}
	return res
}
