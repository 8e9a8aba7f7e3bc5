package catalog

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/GardenBookingService/internal/domain"
)

type fileCatalog struct {
	Services []fileService `toml:"services"`
}

type fileService struct {
	Key                 string       `toml:"key"`
	Name                string       `toml:"name"`
	Description         string       `toml:"description"`
	FullDay             bool         `toml:"full_day"`
	SlotsRequired       int          `toml:"slots_required"`
	BufferSlots         int          `toml:"buffer_slots"`
	MinimumCallOutPence int64        `toml:"minimum_call_out_pence"`
	AfterHoursSurcharge bool         `toml:"after_hours_surcharge"`
	Options             []fileOption `toml:"options"`
	Extras              []fileExtra  `toml:"extras"`
}

type fileOption struct {
	ID      string       `toml:"id"`
	Label   string       `toml:"label"`
	Choices []fileChoice `toml:"choices"`
}

type fileChoice struct {
	Text       string `toml:"text"`
	ValuePence int64  `toml:"value_pence"`
}

type fileExtra struct {
	ID               string   `toml:"id"`
	Label            string   `toml:"label"`
	PricePence       int64    `toml:"price_pence"`
	CheckedByDefault bool     `toml:"checked_by_default"`
	Multiplier       *float64 `toml:"multiplier"`
}

// Load reads a catalog from a TOML file
func Load(path string) (*Catalog, error) {
	var f fileCatalog
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return fromFile(f)
}

// Parse reads a catalog from TOML text
func Parse(data string) (*Catalog, error) {
	var f fileCatalog
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return fromFile(f)
}

func fromFile(f fileCatalog) (*Catalog, error) {
	services := make([]domain.Service, 0, len(f.Services))
	for _, fs := range f.Services {
		services = append(services, fs.toDomain())
	}
	return New(services)
}

func (fs fileService) toDomain() domain.Service {
	slots := fs.SlotsRequired
	if fs.FullDay && slots == 0 {
		slots = domain.SlotsPerDay
	}

	s := domain.Service{
		Key:         fs.Key,
		Name:        fs.Name,
		Description: fs.Description,
		Capacity: domain.CapacityRule{
			FullDay:       fs.FullDay,
			SlotsRequired: slots,
			BufferSlots:   fs.BufferSlots,
		},
		Quote: domain.QuoteConfig{
			MinimumCallOutPence: fs.MinimumCallOutPence,
			AfterHoursSurcharge: fs.AfterHoursSurcharge,
		},
	}

	for _, o := range fs.Options {
		opt := domain.Option{ID: o.ID, Label: o.Label}
		for _, c := range o.Choices {
			opt.Choices = append(opt.Choices, domain.Choice{Text: c.Text, ValuePence: c.ValuePence})
		}
		s.Quote.Options = append(s.Quote.Options, opt)
	}

	for _, e := range fs.Extras {
		s.Quote.Extras = append(s.Quote.Extras, domain.Extra{
			ID:               e.ID,
			Label:            e.Label,
			PricePence:       e.PricePence,
			CheckedByDefault: e.CheckedByDefault,
			Multiplier:       e.Multiplier,
		})
	}

	return s
}
