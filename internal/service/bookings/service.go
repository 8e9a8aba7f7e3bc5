package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/GardenBookingService/internal/domain"
	bookingRepo "github.com/m04kA/GardenBookingService/internal/infra/storage/booking"
	"github.com/m04kA/GardenBookingService/internal/service/bookings/models"
)

// Service booking lookup, cancellation and the manager's day view
type Service struct {
	bookingRepo BookingRepository
	cache       DayStateCache
	txManager   TransactionManager
	logger      Logger
}

// NewService creates the service. cache may be nil.
func NewService(
	bookingRepo BookingRepository,
	cache DayStateCache,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		cache:       cache,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByReference returns a booking to its customer or to the manager
func (s *Service) GetByReference(ctx context.Context, reference string, caller models.Caller) (*models.BookingResponse, error) {
	s.logger.Info("GetByReference: fetching booking ref=%s, manager=%t", reference, caller.Manager)

	if err := validateReference(reference); err != nil {
		return nil, err
	}

	booking, err := s.getBooking(ctx, "GetByReference", reference)
	if err != nil {
		return nil, err
	}

	if err := checkAccess(booking, caller); err != nil {
		s.logger.Warn("GetByReference: access denied to booking ref=%s", reference)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// Cancel frees the booking's slots.
// The customer cancels with the booking email (cancelled_by_customer),
// the manager cancels any booking (cancelled_by_business).
func (s *Service) Cancel(ctx context.Context, reference string, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking ref=%s, manager=%t", reference, req.Caller.Manager)

	if err := validateReference(reference); err != nil {
		return nil, err
	}
	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var cancelled *domain.Booking
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// row is locked until commit
		booking, err := s.getBooking(txCtx, "Cancel", reference)
		if err != nil {
			return err
		}

		if err := checkAccess(booking, req.Caller); err != nil {
			s.logger.Warn("Cancel: access denied to booking ref=%s", reference)
			return err
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking ref=%s cannot be cancelled, status=%s", reference, booking.Status)
			return ErrCannotCancel
		}

		cancelStatus := domain.StatusCancelledByCustomer
		if req.Caller.Manager {
			cancelStatus = domain.StatusCancelledByBusiness
		}

		if err := s.bookingRepo.Cancel(txCtx, booking.ID, cancelStatus, req.CancellationReason); err != nil {
			return s.mapRepoError("Cancel", reference, err)
		}

		cancelled, err = s.getBooking(txCtx, "Cancel", reference)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, cancelled)

	s.logger.Info("Cancel: cancelled booking ref=%s with status=%s", reference, cancelled.Status)
	return models.FromDomainBooking(cancelled), nil
}

// UpdateStatus manager closes out an active booking as completed or no-show
func (s *Service) UpdateStatus(ctx context.Context, reference string, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking ref=%s to status=%s", reference, req.Status)

	if err := validateReference(reference); err != nil {
		return nil, err
	}

	newStatus, ok := domain.ParseBookingStatus(req.Status)
	if !ok || (newStatus != domain.StatusCompleted && newStatus != domain.StatusNoShow) {
		s.logger.Warn("UpdateStatus: status=%q cannot be set for booking ref=%s", req.Status, reference)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	var updated *domain.Booking
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, "UpdateStatus", reference)
		if err != nil {
			return err
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("UpdateStatus: booking ref=%s is already closed, status=%s", reference, booking.Status)
			return fmt.Errorf("%w: booking is %s", ErrInvalidStatus, booking.Status)
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, booking.ID, newStatus); err != nil {
			return s.mapRepoError("UpdateStatus", reference, err)
		}

		updated, err = s.getBooking(txCtx, "UpdateStatus", reference)
		return err
	})
	if err != nil {
		return nil, err
	}

	if !updated.IsActive() {
		s.invalidate(ctx, updated)
	}

	s.logger.Info("UpdateStatus: booking ref=%s is now %s", reference, updated.Status)
	return models.FromDomainBooking(updated), nil
}

// GetDay bookings of a day with the derived occupancy, for the manager dashboard
func (s *Service) GetDay(ctx context.Context, req *models.GetDayRequest) (*models.DayResponse, error) {
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	date := domain.DateOnly(req.Date)

	s.logger.Info("GetDay: fetching bookings for %s, includeInactive=%t",
		date.Format(domain.DateFormat), req.IncludeInactive)

	var bookings []*domain.Booking
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		bookings, err = s.bookingRepo.ListByDay(txCtx, domain.DayBookingsFilter{
			StartDate:       date,
			EndDate:         date,
			IncludeInactive: req.IncludeInactive,
		})
		return err
	})
	if err != nil {
		s.logger.Error("GetDay: repository error for %s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: GetDay - repository error: %v", ErrInternal, err)
	}

	// inactive bookings are listed but never occupy the day
	state := domain.NewDayBookingState(bookings)

	s.logger.Info("GetDay: %s has %d active bookings", date.Format(domain.DateFormat), state.TotalBookings)
	return models.FromDayState(date, state, bookings), nil
}

func (s *Service) getBooking(ctx context.Context, op, reference string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, s.mapRepoError(op, reference, err)
	}
	return booking, nil
}

func (s *Service) mapRepoError(op, reference string, err error) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("%s: booking ref=%s not found", op, reference)
		return ErrBookingNotFound
	}
	s.logger.Error("%s: repository error for booking ref=%s: %v", op, reference, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func (s *Service) invalidate(ctx context.Context, booking *domain.Booking) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, booking.BookingDate); err != nil {
		s.logger.Warn("failed to invalidate day state cache for %s: %v",
			booking.BookingDate.Format(domain.DateFormat), err)
	}
}

func validateReference(reference string) error {
	if _, err := uuid.Parse(reference); err != nil {
		return fmt.Errorf("%w: malformed booking reference", ErrInvalidInput)
	}
	return nil
}

// checkAccess the manager sees every booking, a customer only their own
func checkAccess(booking *domain.Booking, caller models.Caller) error {
	if caller.Manager {
		return nil
	}
	email := strings.TrimSpace(caller.Email)
	if email == "" || !strings.EqualFold(email, booking.CustomerEmail) {
		return ErrAccessDenied
	}
	return nil
}
