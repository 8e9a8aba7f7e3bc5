package bookingform

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/engine/availability"
	"github.com/m04kA/GardenBookingService/internal/engine/quote"
	"github.com/m04kA/GardenBookingService/internal/integrations/bookingapi"
)

// Customer contact details sent with the booking
type Customer struct {
	Name     string
	Email    string
	Phone    string
	Postcode string
	Address  string
	Notes    *string
}

// View snapshot of everything the form renders
type View struct {
	Service  domain.Service
	Date     time.Time // zero until a date is picked
	Slot     *int
	Quote    *quote.Quote
	QuoteErr error

	Availability   availability.Result
	NonWorkingDay  bool
	UnknownService bool // the API has no such service; nothing is bookable, contact the business
	Advisory       bool // day state could not be fetched; the server re-checks on submit

	Rejection    availability.Reason // last submission rejection, if any
	Alternatives []int               // bookable starts after a rejection
}

// Session in-progress booking form.
// Every input recomputes the quote and the slot verdicts synchronously; day state
// is fetched per date with last-request-wins ordering.
type Session struct {
	mu sync.Mutex

	api     API
	service domain.Service
	logger  Logger

	state quote.State
	date  time.Time
	slot  *int

	day            *domain.DayBookingState
	firstOpen      int // earlier start slots have already started today
	nonWorkingDay  bool
	unknownService bool
	dateRejected   bool
	advisory       bool
	generation     uint64

	q        *quote.Quote
	quoteErr error
	result   availability.Result

	rejection    availability.Reason
	alternatives []int
}

// NewSession opens a form for the service with default selections
func NewSession(api API, service domain.Service, logger Logger) *Session {
	s := &Session{
		api:     api,
		service: service,
		logger:  logger,
		state:   quote.DefaultState(service.Quote),
		day:     &domain.DayBookingState{},
	}
	s.recompute()
	return s
}

// SelectOption picks a choice of an option group
func (s *Session) SelectOption(id string, choice int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.state.Options[id]
	s.state.Options[id] = choice
	if err := s.tryQuote(); err != nil {
		if had {
			s.state.Options[id] = prev
		} else {
			delete(s.state.Options, id)
		}
		return err
	}
	s.recompute()
	return nil
}

// ToggleExtra checks or unchecks an extra
func (s *Session) ToggleExtra(id string, checked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.state.Extras[id]
	s.state.Extras[id] = checked
	if err := s.tryQuote(); err != nil {
		if had {
			s.state.Extras[id] = prev
		} else {
			delete(s.state.Extras, id)
		}
		return err
	}
	s.recompute()
	return nil
}

// SetDistance sets the travel distance; nil means unknown
func (s *Session) SetDistance(miles *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state.DistanceMiles
	s.state.DistanceMiles = miles
	if err := s.tryQuote(); err != nil {
		s.state.DistanceMiles = prev
		return err
	}
	s.recompute()
	return nil
}

// SelectSlot picks a start slot; nil clears the selection
func (s *Session) SelectSlot(slot *int) error {
	if slot != nil && !domain.IsValidSlot(*slot) {
		return fmt.Errorf("%w: %d", domain.ErrInvalidSlot, *slot)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.slot = slot
	s.state.StartHour = nil
	if slot != nil {
		hour := domain.SlotStartHour(*slot)
		s.state.StartHour = &hour
	}
	s.recompute()
	return nil
}

// SelectDate fetches the day's booking state.
// A response for a date that is no longer the latest selection is discarded with
// ErrStaleResponse. Only an unreachable or failing API fails open: the day is
// treated as empty and the view is marked Advisory. An unknown service closes
// every slot (ErrUnknownService); a date the API refuses leaves no slot verdicts
// (ErrDateRejected).
func (s *Session) SelectDate(ctx context.Context, date time.Time) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.date = date
	s.rejection = availability.ReasonNone
	s.alternatives = nil
	s.mu.Unlock()

	resp, err := s.api.GetAvailability(ctx, date, s.service.Key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Info("bookingform: discarding day state for %s, superseded", date.Format(domain.DateFormat))
		return ErrStaleResponse
	}

	err = s.applyDay(resp, err)
	s.recompute()
	return err
}

// Submit books the selected slot. On a server rejection the day state is
// refreshed and the remaining bookable starts are exposed in the view.
func (s *Session) Submit(ctx context.Context, customer Customer) (*bookingapi.BookingCreated, error) {
	s.mu.Lock()
	if s.date.IsZero() {
		s.mu.Unlock()
		return nil, ErrNoDate
	}
	if s.slot == nil {
		s.mu.Unlock()
		return nil, ErrNoSlot
	}
	if s.unknownService {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, s.service.Key)
	}
	if s.dateRejected {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrDateRejected, s.date.Format(domain.DateFormat))
	}
	if !s.advisory && s.result.Requested != nil && !s.result.Requested.Available {
		reason := s.result.Requested.Reason
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSlotNotAvailable, reason)
	}

	req := &bookingapi.BookingRequest{
		Date:          s.date.Format(domain.DateFormat),
		Service:       s.service.Key,
		Time:          domain.SlotLabel(*s.slot),
		Options:       copyOptions(s.state.Options),
		Extras:        copyExtras(s.state.Extras),
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		Postcode:      customer.Postcode,
		Address:       customer.Address,
		Notes:         customer.Notes,
	}
	date := s.date
	s.mu.Unlock()

	created, err := s.api.CreateBooking(ctx, req)
	if err == nil {
		return created, nil
	}

	var unavailable *bookingapi.SlotUnavailableError
	if !errors.As(err, &unavailable) {
		return nil, err
	}

	s.logger.Warn("bookingform: %s at %s rejected: %s", date.Format(domain.DateFormat), req.Time, unavailable.Reason)
	s.refreshAfterRejection(ctx, date, unavailable)
	return nil, fmt.Errorf("%w: %s", ErrSlotRejected, unavailable.Reason)
}

// View current state of the form
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Service:       s.service,
		Date:          s.date,
		Quote:         s.q,
		QuoteErr:      s.quoteErr,
		Availability:  s.result,
		NonWorkingDay:  s.nonWorkingDay,
		UnknownService: s.unknownService,
		Advisory:       s.advisory,
		Rejection:      s.rejection,
		Alternatives:   append([]int(nil), s.alternatives...),
	}
	if s.slot != nil {
		slot := *s.slot
		v.Slot = &slot
	}
	return v
}

// refreshAfterRejection re-runs the resolver on fresh day state. The server's
// alternatives are used when the refresh fails.
func (s *Session) refreshAfterRejection(ctx context.Context, date time.Time, rejected *bookingapi.SlotUnavailableError) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	resp, err := s.api.GetAvailability(ctx, date, s.service.Key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return
	}

	s.rejection = rejected.Reason
	if err != nil {
		s.logger.Warn("bookingform: refresh after rejection failed, using server alternatives: %v", err)
		s.alternatives = append([]int(nil), rejected.Alternatives...)
		s.recompute()
		return
	}

	_ = s.applyDay(resp, nil)
	s.recompute()
	s.alternatives = availability.AvailableSlots(s.result.Slots)
}

func (s *Session) applyDay(resp *bookingapi.Availability, err error) error {
	date := s.date.Format(domain.DateFormat)

	s.day = &domain.DayBookingState{}
	s.firstOpen = 0
	s.nonWorkingDay = false
	s.unknownService = false
	s.dateRejected = false
	s.advisory = false

	switch {
	case err == nil:
		s.day = resp.DayState()
		s.firstOpen = resp.FirstOpenSlot()
		s.nonWorkingDay = resp.NonWorkingDay
		return nil

	case errors.Is(err, bookingapi.ErrNotFound):
		s.logger.Warn("bookingform: service %q unknown to the API: %v", s.service.Key, err)
		s.unknownService = true
		return fmt.Errorf("%w: %s: %w", ErrUnknownService, s.service.Key, err)

	case dayStateUnavailable(err):
		s.logger.Warn("bookingform: day state unavailable for %s, continuing without it: %v", date, err)
		s.advisory = true
		return nil

	default:
		s.logger.Warn("bookingform: %s refused by the API: %v", date, err)
		s.dateRejected = true
		return fmt.Errorf("%w: %s: %w", ErrDateRejected, date, err)
	}
}

// dayStateUnavailable errors that say nothing about the date or the service
func dayStateUnavailable(err error) bool {
	return errors.Is(err, bookingapi.ErrInternal) ||
		errors.Is(err, bookingapi.ErrServiceUnavailable) ||
		errors.Is(err, bookingapi.ErrInvalidResponse) ||
		errors.Is(err, bookingapi.ErrRateLimited) ||
		errors.Is(err, context.DeadlineExceeded)
}

// recompute refreshes the quote and the slot verdicts from the current inputs
func (s *Session) recompute() {
	s.q, s.quoteErr = quote.Calculate(s.service.Quote, s.state)

	switch {
	case s.dateRejected:
		s.result = availability.Result{}
	case s.unknownService:
		s.result = closedDay(availability.ReasonUnknownService, s.slot)
	case s.nonWorkingDay:
		s.result = closedDay(availability.ReasonNonWorkingDay, s.slot)
	default:
		rule := s.service.Capacity
		s.result = availability.CloseStartedSlots(availability.Resolve(s.day, &rule, s.slot), &rule, s.firstOpen)
	}
}

func (s *Session) tryQuote() error {
	_, err := quote.Calculate(s.service.Quote, s.state)
	return err
}

// closedDay every slot unavailable for reason
func closedDay(reason availability.Reason, slot *int) availability.Result {
	res := availability.Result{
		Day:   availability.DayVerdict{Reason: reason},
		Slots: make([]availability.SlotVerdict, domain.SlotsPerDay),
	}
	for i := range res.Slots {
		res.Slots[i] = availability.SlotVerdict{Slot: i, Label: domain.SlotLabel(i), Reason: reason}
	}
	if slot != nil {
		v := res.Slots[*slot]
		res.Requested = &v
	}
	return res
}

func copyOptions(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyExtras(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
