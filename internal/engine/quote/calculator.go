package quote

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/pkg/money"
)

// Pricing policy applied on top of every service's price table
const (
	FreeRadiusMiles    = 15.0
	PencePerExcessMile = 50.0

	// out-of-hours window for services with an after-hours surcharge:
	// start before 08:00 or at/after 18:00
	AfterHoursBeforeHour = 8
	AfterHoursFromHour   = 18
	AfterHoursRate       = 0.5
)

var (
	// ErrInvalidSelection unknown option/extra id or choice out of range
	ErrInvalidSelection = errors.New("quote: invalid selection")

	// ErrInvalidDistance negative or non-finite distance
	ErrInvalidDistance = errors.New("quote: invalid distance")

	// ErrInvalidStartHour start hour outside 0..23
	ErrInvalidStartHour = errors.New("quote: invalid start hour")
)

// DistanceUnknownNote shown instead of a travel line when the distance lookup failed
const DistanceUnknownNote = "Distance unknown, surcharge may apply on arrival"

// LineKind what produced a breakdown line
type LineKind string

const (
	LineOption     LineKind = "option"
	LineExtra      LineKind = "extra"
	LineMultiplier LineKind = "multiplier"
	LineDistance   LineKind = "distance"
	LineAfterHours LineKind = "after_hours"
	LineNote       LineKind = "note"
)

// Line one row of the breakdown.
// Percentage lines carry the percent applied and the amount it implied.
type Line struct {
	Kind        LineKind
	Label       string
	AmountPence int64
	Percent     float64 // 0 for non-percentage lines, e.g. 50 for +50%
	Display     string
}

// IsPercentage true for lines priced as a percentage of the running subtotal
func (l Line) IsPercentage() bool {
	return l.Percent != 0
}

// State in-progress quote selections.
// Missing option ids take the first choice; missing extras take their default.
type State struct {
	Options       map[string]int  // option id -> choice index
	Extras        map[string]bool // extra id -> checked
	DistanceMiles *float64        // nil when unknown
	StartHour     *int            // nil when no time selected
}

// DefaultState initial state of a freshly opened booking form
func DefaultState(cfg domain.QuoteConfig) State {
	st := State{
		Options: make(map[string]int, len(cfg.Options)),
		Extras:  make(map[string]bool, len(cfg.Extras)),
	}
	for _, o := range cfg.Options {
		st.Options[o.ID] = 0
	}
	for _, e := range cfg.Extras {
		st.Extras[e.ID] = e.CheckedByDefault
	}
	return st
}

// Quote calculator output
type Quote struct {
	TotalPence          int64
	SubtotalPence       int64 // running total before the minimum call-out floor
	MinimumCallOutPence int64
	FloorApplied        bool
	DistanceUnknown     bool
	Lines               []Line
}

// Calculate prices a booking in fixed stage order:
// options, flat extras, multiplier extras, distance, after-hours, minimum floor.
// The floor clamps the total and is not itemised.
func Calculate(cfg domain.QuoteConfig, st State) (*Quote, error) {
	if err := validateState(cfg, st); err != nil {
		return nil, err
	}

	q := &Quote{MinimumCallOutPence: cfg.MinimumCallOutPence}
	var subtotal int64

	// 1. one choice per option group
	for _, o := range cfg.Options {
		c := o.Choices[st.Options[o.ID]]
		subtotal += c.ValuePence
		q.Lines = append(q.Lines, amountLine(LineOption, o.Label+": "+c.Text, c.ValuePence))
	}

	// 2. flat extras
	var multiplierSum float64
	var multiplierLabels []string
	for _, e := range cfg.Extras {
		if !isChecked(e, st) {
			continue
		}
		if e.IsMultiplier() {
			multiplierSum += *e.Multiplier
			multiplierLabels = append(multiplierLabels, e.Label)
			continue
		}
		subtotal += e.PricePence
		q.Lines = append(q.Lines, amountLine(LineExtra, e.Label, e.PricePence))
	}

	// 3. multiplier extras, applied once on the flat subtotal
	if len(multiplierLabels) > 0 {
		amount := roundPence(float64(subtotal) * multiplierSum)
		subtotal += amount
		q.Lines = append(q.Lines, percentLine(LineMultiplier, strings.Join(multiplierLabels, ", "), amount, multiplierSum))
	}

	// 4. distance beyond the free radius
	switch {
	case st.DistanceMiles == nil:
		q.DistanceUnknown = true
		q.Lines = append(q.Lines, Line{Kind: LineNote, Label: DistanceUnknownNote})
	case *st.DistanceMiles > FreeRadiusMiles:
		excess := *st.DistanceMiles - FreeRadiusMiles
		amount := roundPence(excess * PencePerExcessMile)
		subtotal += amount
		label := fmt.Sprintf("Travel (%s miles beyond %s-mile radius)", formatMiles(excess), formatMiles(FreeRadiusMiles))
		q.Lines = append(q.Lines, amountLine(LineDistance, label, amount))
	}

	// 5. out-of-hours surcharge on everything so far
	if cfg.AfterHoursSurcharge && st.StartHour != nil && IsAfterHours(*st.StartHour) {
		amount := roundPence(float64(subtotal) * AfterHoursRate)
		subtotal += amount
		q.Lines = append(q.Lines, percentLine(LineAfterHours, "Out-of-hours call-out", amount, AfterHoursRate))
	}

	// 6. minimum call-out floor
	q.SubtotalPence = subtotal
	q.TotalPence = subtotal
	if subtotal < cfg.MinimumCallOutPence {
		q.TotalPence = cfg.MinimumCallOutPence
		q.FloorApplied = true
	}

	return q, nil
}

// IsAfterHours start hour before 08:00 or at/after 18:00
func IsAfterHours(hour int) bool {
	return hour < AfterHoursBeforeHour || hour >= AfterHoursFromHour
}

func validateState(cfg domain.QuoteConfig, st State) error {
	options := make(map[string]domain.Option, len(cfg.Options))
	for _, o := range cfg.Options {
		options[o.ID] = o
	}
	for id, idx := range st.Options {
		o, ok := options[id]
		if !ok {
			return fmt.Errorf("%w: unknown option %q", ErrInvalidSelection, id)
		}
		if idx < 0 || idx >= len(o.Choices) {
			return fmt.Errorf("%w: option %q has no choice %d", ErrInvalidSelection, id, idx)
		}
	}

	extras := make(map[string]struct{}, len(cfg.Extras))
	for _, e := range cfg.Extras {
		extras[e.ID] = struct{}{}
	}
	for id := range st.Extras {
		if _, ok := extras[id]; !ok {
			return fmt.Errorf("%w: unknown extra %q", ErrInvalidSelection, id)
		}
	}

	if st.DistanceMiles != nil {
		d := *st.DistanceMiles
		if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidDistance, d)
		}
	}

	if st.StartHour != nil && (*st.StartHour < 0 || *st.StartHour > 23) {
		return fmt.Errorf("%w: %d", ErrInvalidStartHour, *st.StartHour)
	}

	return nil
}

func isChecked(e domain.Extra, st State) bool {
	if checked, ok := st.Extras[e.ID]; ok {
		return checked
	}
	return e.CheckedByDefault
}

func amountLine(kind LineKind, label string, amount int64) Line {
	display := money.FormatPence(amount)
	if amount == 0 {
		display = "Included"
	}
	return Line{Kind: kind, Label: label, AmountPence: amount, Display: display}
}

func percentLine(kind LineKind, label string, amount int64, fraction float64) Line {
	percent := math.Round(fraction*10000) / 100
	return Line{
		Kind:        kind,
		Label:       label,
		AmountPence: amount,
		Percent:     percent,
		Display:     money.FormatPercent(fraction),
	}
}

func roundPence(v float64) int64 {
	return int64(math.Round(v))
}

func formatMiles(m float64) string {
	return strconv.FormatFloat(math.Round(m*10)/10, 'f', -1, 64)
}
