package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidService returned when a service definition breaks a config invariant
var ErrInvalidService = errors.New("invalid service definition")

// CapacityRule how much of the working day a service consumes
type CapacityRule struct {
	FullDay       bool // occupies the whole day, cannot coexist with other bookings
	SlotsRequired int  // contiguous slots of the job itself, starting at the booked slot
	BufferSlots   int  // slots after the job that must stay free (travel/wind-down)
}

// Validate checks the rule invariants
func (r CapacityRule) Validate() error {
	if r.SlotsRequired < 1 || r.SlotsRequired > MaxSlotsRequired {
		return fmt.Errorf("%w: slotsRequired must be in [1, %d]", ErrInvalidService, MaxSlotsRequired)
	}
	if r.BufferSlots < 0 || r.BufferSlots > MaxBufferSlots {
		return fmt.Errorf("%w: bufferSlots must be in [0, %d]", ErrInvalidService, MaxBufferSlots)
	}
	return nil
}

// MinimalCapacityRule rule used for day-level checks when no service is selected
var MinimalCapacityRule = CapacityRule{SlotsRequired: 1}

// Choice one mutually exclusive value of an option group
type Choice struct {
	Text       string
	ValuePence int64
}

// Option group of mutually exclusive choices (e.g. lawn size)
type Option struct {
	ID      string
	Label   string
	Choices []Choice
}

// Extra independently toggleable add-on.
// Either a flat price or a multiplier of the subtotal so far.
type Extra struct {
	ID               string
	Label            string
	PricePence       int64
	CheckedByDefault bool
	Multiplier       *float64
}

// IsMultiplier true if the extra is priced as a fraction of the subtotal
func (e Extra) IsMultiplier() bool {
	return e.Multiplier != nil
}

// QuoteConfig price table of a service
type QuoteConfig struct {
	Options             []Option
	Extras              []Extra
	MinimumCallOutPence int64
	AfterHoursSurcharge bool // out-of-hours start times attract a surcharge
}

// Validate checks the quote configuration invariants
func (q QuoteConfig) Validate() error {
	if q.MinimumCallOutPence < 0 {
		return fmt.Errorf("%w: minimum call-out must not be negative", ErrInvalidService)
	}

	ids := make(map[string]struct{}, len(q.Options)+len(q.Extras))
	for _, o := range q.Options {
		if o.ID == "" {
			return fmt.Errorf("%w: option without id", ErrInvalidService)
		}
		if _, dup := ids[o.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidService, o.ID)
		}
		ids[o.ID] = struct{}{}
		if len(o.Choices) == 0 {
			return fmt.Errorf("%w: option %q has no choices", ErrInvalidService, o.ID)
		}
		for _, c := range o.Choices {
			if c.ValuePence < 0 {
				return fmt.Errorf("%w: option %q has a negative choice", ErrInvalidService, o.ID)
			}
		}
	}

	for _, e := range q.Extras {
		if e.ID == "" {
			return fmt.Errorf("%w: extra without id", ErrInvalidService)
		}
		if _, dup := ids[e.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidService, e.ID)
		}
		ids[e.ID] = struct{}{}
		if e.PricePence < 0 {
			return fmt.Errorf("%w: extra %q has a negative price", ErrInvalidService, e.ID)
		}
		if e.Multiplier != nil && *e.Multiplier < 0 {
			return fmt.Errorf("%w: extra %q has a negative multiplier", ErrInvalidService, e.ID)
		}
	}

	return nil
}

// Service bookable service with its capacity rule and price table
type Service struct {
	Key         string
	Name        string
	Description string
	Capacity    CapacityRule
	Quote       QuoteConfig
}

// Validate checks the whole service definition
func (s Service) Validate() error {
	if s.Key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidService)
	}
	if err := s.Capacity.Validate(); err != nil {
		return fmt.Errorf("service %q: %w", s.Key, err)
	}
	if err := s.Quote.Validate(); err != nil {
		return fmt.Errorf("service %q: %w", s.Key, err)
	}
	return nil
}
