package catalog

import (
	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/pkg/ptr"
)

// Default built-in catalog used when no catalog file is configured
func Default() *Catalog {
	c, err := New(defaultServices())
	if err != nil {
		panic("catalog: built-in catalog is invalid: " + err.Error())
	}
	return c
}

func defaultServices() []domain.Service {
	return []domain.Service{
		{
			Key:         "lawn-cutting",
			Name:        "Lawn cutting",
			Description: "Mowing, edging on request, clippings taken away.",
			Capacity:    domain.CapacityRule{SlotsRequired: 1, BufferSlots: 2},
			Quote: domain.QuoteConfig{
				Options: []domain.Option{
					{ID: "size", Label: "Lawn size", Choices: []domain.Choice{
						{Text: "Small (up to 50m²)", ValuePence: 3000},
						{Text: "Medium (50-150m²)", ValuePence: 4000},
						{Text: "Large (over 150m²)", ValuePence: 5500},
					}},
					{ID: "area", Label: "Area", Choices: []domain.Choice{
						{Text: "Front or back only", ValuePence: 0},
						{Text: "Front & back", ValuePence: 1000},
					}},
				},
				Extras: []domain.Extra{
					{ID: "edging", Label: "Edging", PricePence: 500},
					{ID: "clippings", Label: "Clippings removal", PricePence: 0, CheckedByDefault: true},
					{ID: "overgrown", Label: "Overgrown (last cut 6+ weeks ago)", Multiplier: ptr.Ptr(0.25)},
				},
				MinimumCallOutPence: 3000,
			},
		},
		{
			Key:         "hedge-trimming",
			Name:        "Hedge trimming",
			Description: "Trimming and shaping, waste removed.",
			Capacity:    domain.CapacityRule{SlotsRequired: 3, BufferSlots: 2},
			Quote: domain.QuoteConfig{
				Options: []domain.Option{
					{ID: "length", Label: "Total hedge length", Choices: []domain.Choice{
						{Text: "Up to 10m", ValuePence: 6000},
						{Text: "10-25m", ValuePence: 9500},
						{Text: "Over 25m", ValuePence: 14000},
					}},
					{ID: "height", Label: "Height", Choices: []domain.Choice{
						{Text: "Under 2m", ValuePence: 0},
						{Text: "2-3m (ladders)", ValuePence: 2500},
					}},
				},
				Extras: []domain.Extra{
					{ID: "waste", Label: "Waste removal", PricePence: 2000, CheckedByDefault: true},
					{ID: "both-sides", Label: "Both sides", Multiplier: ptr.Ptr(0.5)},
				},
				MinimumCallOutPence: 6000,
			},
		},
		{
			Key:         "weeding",
			Name:        "Weeding & borders",
			Description: "Hand weeding of beds and borders.",
			Capacity:    domain.CapacityRule{SlotsRequired: 2, BufferSlots: 1},
			Quote: domain.QuoteConfig{
				Options: []domain.Option{
					{ID: "beds", Label: "Beds", Choices: []domain.Choice{
						{Text: "One or two beds", ValuePence: 4500},
						{Text: "Three to five beds", ValuePence: 7000},
					}},
				},
				Extras: []domain.Extra{
					{ID: "mulch", Label: "Bark mulch top-up", PricePence: 3500},
				},
				MinimumCallOutPence: 4000,
			},
		},
		{
			Key:         "garden-clearance",
			Name:        "Garden clearance",
			Description: "Full-day clearance of an overgrown garden.",
			Capacity:    domain.CapacityRule{FullDay: true, SlotsRequired: domain.SlotsPerDay},
			Quote: domain.QuoteConfig{
				Options: []domain.Option{
					{ID: "size", Label: "Garden size", Choices: []domain.Choice{
						{Text: "Small", ValuePence: 25000},
						{Text: "Medium", ValuePence: 35000},
						{Text: "Large", ValuePence: 48000},
					}},
				},
				Extras: []domain.Extra{
					{ID: "skip", Label: "Skip hire", PricePence: 22000},
					{ID: "tip-runs", Label: "Tip runs", PricePence: 0, CheckedByDefault: true},
				},
				MinimumCallOutPence: 25000,
			},
		},
		{
			Key:         "emergency-tree-surgery",
			Name:        "Emergency tree work",
			Description: "Storm damage and dangerous limbs. Out-of-hours call-outs available.",
			Capacity:    domain.CapacityRule{SlotsRequired: 2, BufferSlots: 1},
			Quote: domain.QuoteConfig{
				Options: []domain.Option{
					{ID: "job", Label: "Job", Choices: []domain.Choice{
						{Text: "Single limb", ValuePence: 18000},
						{Text: "Small tree", ValuePence: 30000},
						{Text: "Large tree (make safe)", ValuePence: 45000},
					}},
				},
				Extras: []domain.Extra{
					{ID: "chipping", Label: "Chip and remove", PricePence: 4000},
				},
				MinimumCallOutPence: 15000,
				AfterHoursSurcharge: true,
			},
		},
	}
}
