package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/pkg/ptr"
)

func lawnConfig() domain.QuoteConfig {
	return domain.QuoteConfig{
		Options: []domain.Option{
			{ID: "size", Label: "Lawn size", Choices: []domain.Choice{
				{Text: "Small", ValuePence: 3000},
				{Text: "Medium", ValuePence: 4000},
				{Text: "Large", ValuePence: 5500},
			}},
			{ID: "area", Label: "Area", Choices: []domain.Choice{
				{Text: "Front only", ValuePence: 0},
				{Text: "Front & back", ValuePence: 1000},
			}},
		},
		Extras: []domain.Extra{
			{ID: "edging", Label: "Edging", PricePence: 500},
			{ID: "clippings", Label: "Clippings removal", PricePence: 0, CheckedByDefault: true},
			{ID: "stripes", Label: "Striping", Multiplier: ptr.Ptr(0.1)},
		},
		MinimumCallOutPence: 3000,
	}
}

func emergencyConfig() domain.QuoteConfig {
	return domain.QuoteConfig{
		Options: []domain.Option{
			{ID: "job", Label: "Job", Choices: []domain.Choice{
				{Text: "Single limb", ValuePence: 18000},
				{Text: "Whole tree", ValuePence: 45000},
			}},
		},
		MinimumCallOutPence: 15000,
		AfterHoursSurcharge: true,
	}
}

func sumLines(q *Quote) int64 {
	var total int64
	for _, l := range q.Lines {
		total += l.AmountPence
	}
	return total
}

func TestCalculate_LawnWithEdging(t *testing.T) {
	st := State{
		Options:       map[string]int{"size": 1, "area": 1},
		Extras:        map[string]bool{"edging": true},
		DistanceMiles: ptr.Ptr(4.0),
	}

	q, err := Calculate(lawnConfig(), st)
	require.NoError(t, err)

	assert.Equal(t, int64(5500), q.TotalPence)
	assert.False(t, q.FloorApplied)
	assert.False(t, q.DistanceUnknown)

	require.Len(t, q.Lines, 4)
	assert.Equal(t, "Lawn size: Medium", q.Lines[0].Label)
	assert.Equal(t, "£40.00", q.Lines[0].Display)
	assert.Equal(t, "Clippings removal", q.Lines[3].Label)
	assert.Equal(t, "Included", q.Lines[3].Display)
}

func TestCalculate_MultiplierOnFlatSubtotal(t *testing.T) {
	st := State{
		Options:       map[string]int{"size": 1, "area": 1},
		Extras:        map[string]bool{"edging": true, "stripes": true},
		DistanceMiles: ptr.Ptr(20.0),
	}

	q, err := Calculate(lawnConfig(), st)
	require.NoError(t, err)

	// 5500 + 10% = 6050, then 5 miles * 50p = 250
	assert.Equal(t, int64(6300), q.TotalPence)

	var multiplier *Line
	for i := range q.Lines {
		if q.Lines[i].Kind == LineMultiplier {
			multiplier = &q.Lines[i]
		}
	}
	require.NotNil(t, multiplier)
	assert.Equal(t, int64(550), multiplier.AmountPence)
	assert.Equal(t, "+10%", multiplier.Display)
	assert.True(t, multiplier.IsPercentage())
}

func TestCalculate_EmergencyAfterHours(t *testing.T) {
	q, err := Calculate(emergencyConfig(), State{DistanceMiles: ptr.Ptr(3.0), StartHour: ptr.Ptr(19)})
	require.NoError(t, err)

	assert.Equal(t, int64(27000), q.TotalPence)
	last := q.Lines[len(q.Lines)-1]
	assert.Equal(t, LineAfterHours, last.Kind)
	assert.Equal(t, int64(9000), last.AmountPence)
	assert.Equal(t, "+50%", last.Display)
}

func TestCalculate_EmergencyInHours(t *testing.T) {
	q, err := Calculate(emergencyConfig(), State{DistanceMiles: ptr.Ptr(3.0), StartHour: ptr.Ptr(10)})
	require.NoError(t, err)

	assert.Equal(t, int64(18000), q.TotalPence)
}

func TestCalculate_AfterHoursOnlyForFlaggedServices(t *testing.T) {
	q, err := Calculate(lawnConfig(), State{DistanceMiles: ptr.Ptr(3.0), StartHour: ptr.Ptr(19)})
	require.NoError(t, err)

	for _, l := range q.Lines {
		assert.NotEqual(t, LineAfterHours, l.Kind)
	}
}

func TestCalculate_DistanceSurchargeThenFloor(t *testing.T) {
	cfg := domain.QuoteConfig{
		Options: []domain.Option{
			{ID: "visit", Label: "Visit", Choices: []domain.Choice{{Text: "Standard", ValuePence: 1000}}},
		},
		MinimumCallOutPence: 3000,
	}

	q, err := Calculate(cfg, State{DistanceMiles: ptr.Ptr(20.0)})
	require.NoError(t, err)

	// 1000 + 250 = 1250, floored
	assert.Equal(t, int64(1250), q.SubtotalPence)
	assert.Equal(t, int64(3000), q.TotalPence)
	assert.True(t, q.FloorApplied)
	assert.Equal(t, q.SubtotalPence, sumLines(q), "floor must not be itemised")
}

func TestCalculate_DistanceAboveFloor(t *testing.T) {
	cfg := domain.QuoteConfig{
		Options: []domain.Option{
			{ID: "visit", Label: "Visit", Choices: []domain.Choice{{Text: "Standard", ValuePence: 3000}}},
		},
		MinimumCallOutPence: 3000,
	}

	q, err := Calculate(cfg, State{DistanceMiles: ptr.Ptr(20.0)})
	require.NoError(t, err)

	assert.Equal(t, int64(3250), q.TotalPence)
	assert.False(t, q.FloorApplied)
	assert.Equal(t, LineDistance, q.Lines[len(q.Lines)-1].Kind)
}

func TestCalculate_WithinFreeRadius(t *testing.T) {
	q, err := Calculate(lawnConfig(), State{DistanceMiles: ptr.Ptr(FreeRadiusMiles)})
	require.NoError(t, err)

	for _, l := range q.Lines {
		assert.NotEqual(t, LineDistance, l.Kind)
	}
}

func TestCalculate_DistanceUnknown(t *testing.T) {
	q, err := Calculate(lawnConfig(), State{})
	require.NoError(t, err)

	assert.True(t, q.DistanceUnknown)
	var note *Line
	for i := range q.Lines {
		if q.Lines[i].Kind == LineNote {
			note = &q.Lines[i]
		}
	}
	require.NotNil(t, note)
	assert.Equal(t, DistanceUnknownNote, note.Label)
	assert.Zero(t, note.AmountPence)
}

func TestCalculate_DefaultsToFirstChoice(t *testing.T) {
	q, err := Calculate(lawnConfig(), State{DistanceMiles: ptr.Ptr(1.0)})
	require.NoError(t, err)

	// Small + Front only + clippings (default on)
	assert.Equal(t, int64(3000), q.SubtotalPence)
	assert.Equal(t, q.TotalPence, q.SubtotalPence)
}

func TestCalculate_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		wantErr error
	}{
		{"unknown option", State{Options: map[string]int{"colour": 0}}, ErrInvalidSelection},
		{"choice out of range", State{Options: map[string]int{"size": 3}}, ErrInvalidSelection},
		{"negative choice", State{Options: map[string]int{"size": -1}}, ErrInvalidSelection},
		{"unknown extra", State{Extras: map[string]bool{"fountain": true}}, ErrInvalidSelection},
		{"negative distance", State{DistanceMiles: ptr.Ptr(-1.0)}, ErrInvalidDistance},
		{"bad hour", State{StartHour: ptr.Ptr(24)}, ErrInvalidStartHour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(lawnConfig(), tt.state)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCalculate_Monotonicity(t *testing.T) {
	cfg := lawnConfig()
	base := State{
		Options:       map[string]int{"size": 0, "area": 0},
		Extras:        map[string]bool{"edging": false, "clippings": false, "stripes": false},
		DistanceMiles: ptr.Ptr(10.0),
	}
	baseQuote, err := Calculate(cfg, base)
	require.NoError(t, err)

	for _, id := range []string{"edging", "clippings", "stripes"} {
		st := DefaultState(cfg)
		st.Options = base.Options
		st.DistanceMiles = base.DistanceMiles
		for k := range st.Extras {
			st.Extras[k] = k == id
		}
		q, err := Calculate(cfg, st)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, q.TotalPence, baseQuote.TotalPence, "checking %s lowered the total", id)
	}

	for _, d := range []float64{10, 15, 16, 25, 60} {
		st := base
		st.DistanceMiles = ptr.Ptr(d)
		q, err := Calculate(cfg, st)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, q.TotalPence, baseQuote.TotalPence)
	}
}

func TestCalculate_FloorIdempotence(t *testing.T) {
	cfg := lawnConfig()
	st := State{DistanceMiles: ptr.Ptr(2.0)}

	first, err := Calculate(cfg, st)
	require.NoError(t, err)

	cfg.MinimumCallOutPence = first.TotalPence
	second, err := Calculate(cfg, st)
	require.NoError(t, err)

	assert.Equal(t, first.TotalPence, second.TotalPence)
}

func TestCalculate_BreakdownCompleteness(t *testing.T) {
	states := []State{
		{},
		{Options: map[string]int{"size": 2, "area": 1}, Extras: map[string]bool{"stripes": true}, DistanceMiles: ptr.Ptr(33.3)},
		{Extras: map[string]bool{"edging": true, "clippings": false}, DistanceMiles: ptr.Ptr(15.1)},
	}

	for _, st := range states {
		q, err := Calculate(lawnConfig(), st)
		require.NoError(t, err)
		assert.Equal(t, q.SubtotalPence, sumLines(q))
		assert.GreaterOrEqual(t, q.TotalPence, q.MinimumCallOutPence)
	}

	q, err := Calculate(emergencyConfig(), State{Options: map[string]int{"job": 1}, DistanceMiles: ptr.Ptr(17.0), StartHour: ptr.Ptr(6)})
	require.NoError(t, err)
	assert.Equal(t, q.SubtotalPence, sumLines(q))
	assert.Equal(t, q.TotalPence, q.SubtotalPence)
}

func TestIsAfterHours(t *testing.T) {
	assert.True(t, IsAfterHours(7))
	assert.False(t, IsAfterHours(8))
	assert.False(t, IsAfterHours(17))
	assert.True(t, IsAfterHours(18))
	assert.True(t, IsAfterHours(0))
}
