package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/engine/availability"
	bookingRepo "github.com/m04kA/GardenBookingService/internal/infra/storage/booking"
	"github.com/m04kA/GardenBookingService/internal/usecase/calculate_quote"
	"github.com/m04kA/GardenBookingService/pkg/ptr"
)

// Settings business calendar settings
type Settings struct {
	AdvanceBookingDays int
	Location           *time.Location
	Holidays           domain.HolidayChecker
}

// UseCase booking submission with the authoritative availability re-check
type UseCase struct {
	bookingRepo  BookingRepository
	quoter       Quoter
	cache        DayStateCache
	txManager    TransactionManager
	metrics      Metrics
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase creates the use case. cache may be nil.
func NewUseCase(
	bookingRepo BookingRepository,
	quoter Quoter,
	cache DayStateCache,
	txManager TransactionManager,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		quoter:       quoter,
		cache:        cache,
		txManager:    txManager,
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

// Execute prices the booking, then re-runs the resolver on fresh day state
// inside a serializable transaction and inserts the booking if the slot still fits.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: service=%q, date=%s, time=%q",
		req.ServiceKey, req.Date.Format(domain.DateFormat), req.Time)

	resp, err := uc.execute(ctx, req)
	uc.metrics.ObserveBooking(outcome(err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Validate input
	slot, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	date := domain.CalendarDate(req.Date, uc.settings.Location)
	now := uc.timeProvider.Now().In(uc.settings.Location)

	// 2. Booking window
	if err := validateDate(date, now, uc.settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 3. Sundays and closure holidays
	if !domain.IsWorkingDay(date, uc.settings.Holidays) {
		uc.logger.Warn("CreateBooking: %s is not a working day", date.Format(domain.DateFormat))
		return nil, &SlotUnavailableError{Reason: availability.ReasonNonWorkingDay}
	}

	// 4. Price the submitted quote state; this also resolves the service
	priced, err := uc.quoter.Execute(ctx, &calculate_quote.Request{
		ServiceKey: req.ServiceKey,
		Options:    req.Options,
		Extras:     req.Extras,
		Postcode:   req.Postcode,
		Time:       ptr.Ptr(fmt.Sprintf("%02d:00", domain.SlotStartHour(slot))),
	})
	if err != nil {
		return nil, uc.mapQuoteError(err)
	}
	service := priced.Service

	// a full-day job claims the whole day whatever start was picked
	if service.Capacity.FullDay {
		slot = 0
	}

	// 5. Same-day bookings must start later than now
	if err := validateBookingTime(date, slot, now); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	// 6. Authoritative re-check and insert
	var created *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.bookingRepo.LockDay(txCtx, date); err != nil {
			return uc.mapRepoError("lock day", err)
		}

		bookings, err := uc.bookingRepo.ListByDay(txCtx, domain.DayBookingsFilter{
			StartDate: date,
			EndDate:   date,
		})
		if err != nil {
			return uc.mapRepoError("get bookings", err)
		}

		state := domain.NewDayBookingState(bookings)
		result := availability.CloseStartedSlots(
			availability.Resolve(state, &service.Capacity, &slot),
			&service.Capacity,
			domain.FirstBookableSlot(date, now),
		)
		verdict := result.Requested

		uc.metrics.ObserveVerdict("submit", string(verdict.Reason))

		if !verdict.Available {
			alternatives := availability.AvailableSlots(result.Slots)
			uc.logger.Warn("CreateBooking: %s on %s rejected: %s, %d alternatives",
				verdict.Label, date.Format(domain.DateFormat), verdict.Reason, len(alternatives))
			return &SlotUnavailableError{Reason: verdict.Reason, Alternatives: alternatives}
		}

		booking := newBooking(req, date, slot, service, priced)

		created, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return uc.mapRepoError("create booking", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// 7. The cached state of the day is stale now
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, date); err != nil {
			uc.logger.Warn("CreateBooking: failed to invalidate day state cache: %v", err)
		}
	}

	uc.logger.Info("CreateBooking: created booking ref=%s, service=%s, date=%s, slot=%s, price=%d",
		created.Reference, created.ServiceKey, date.Format(domain.DateFormat),
		domain.SlotLabel(created.StartSlot), created.PricePence)

	return &Response{Booking: created, Quote: priced.Quote}, nil
}

// newBooking snapshots the capacity rule and price taken at booking time
func newBooking(req *Request, date time.Time, slot int, service domain.Service, priced *calculate_quote.Response) *domain.Booking {
	booking := &domain.Booking{
		Reference:   uuid.NewString(),
		ServiceKey:  service.Key,
		BookingDate: date,
		StartSlot:   slot,
		Status:      domain.StatusConfirmed,

		SlotsRequired: service.Capacity.SlotsRequired,
		BufferSlots:   service.Capacity.BufferSlots,
		FullDay:       service.Capacity.FullDay,

		ServiceName:   service.Name,
		PricePence:    priced.Quote.TotalPence,
		DistanceMiles: priced.DistanceMiles,

		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Postcode:      req.Postcode,
		Address:       req.Address,
		Notes:         req.Notes,
	}

	if priced.Quote.DistanceUnknown {
		booking.PriceNote = ptr.Ptr("distance unknown, surcharge may apply on arrival")
	}

	return booking
}

func (uc *UseCase) mapQuoteError(err error) error {
	switch {
	case errors.Is(err, calculate_quote.ErrUnknownService):
		uc.logger.Warn("CreateBooking: %v", err)
		return fmt.Errorf("%w: %v", ErrUnknownService, err)
	case errors.Is(err, calculate_quote.ErrInvalidPostcode):
		return fmt.Errorf("%w: %v", ErrInvalidPostcode, err)
	case errors.Is(err, calculate_quote.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		uc.logger.Error("CreateBooking: failed to price booking: %v", err)
		return fmt.Errorf("%w: failed to price booking: %v", ErrInternal, err)
	}
}

func (uc *UseCase) mapRepoError(op string, err error) error {
	if errors.Is(err, bookingRepo.ErrSerialization) {
		uc.logger.Warn("CreateBooking: %s: concurrent booking: %v", op, err)
		return fmt.Errorf("%w: %v", ErrConcurrentBooking, err)
	}
	uc.logger.Error("CreateBooking: failed to %s: %v", op, err)
	return fmt.Errorf("%w: failed to %s: %v", ErrInternal, op, err)
}

func outcome(err error) string {
	var unavailable *SlotUnavailableError
	switch {
	case err == nil:
		return "created"
	case errors.As(err, &unavailable):
		return "rejected_" + string(unavailable.Reason)
	case errors.Is(err, ErrConcurrentBooking):
		return "concurrent"
	case errors.Is(err, ErrInternal):
		return "error"
	default:
		return "invalid"
	}
}
