package catalog

import (
	"errors"
	"fmt"

	"github.com/m04kA/GardenBookingService/internal/domain"
)

var (
	// ErrUnknownService no configuration for the service key
	ErrUnknownService = errors.New("catalog: unknown service")

	// ErrInvalidCatalog duplicate keys or a service breaking its invariants
	ErrInvalidCatalog = errors.New("catalog: invalid catalog")
)

// Catalog static service configuration keyed by service id.
// Immutable after construction; WithOverrides returns a new catalog.
type Catalog struct {
	services []domain.Service
	byKey    map[string]int
}

// New validates the services and builds a catalog preserving their order
func New(services []domain.Service) (*Catalog, error) {
	c := &Catalog{
		services: make([]domain.Service, 0, len(services)),
		byKey:    make(map[string]int, len(services)),
	}

	for _, s := range services {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
		if _, dup := c.byKey[s.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate service %q", ErrInvalidCatalog, s.Key)
		}
		c.byKey[s.Key] = len(c.services)
		c.services = append(c.services, s)
	}

	return c, nil
}

// Get service by key. Unknown keys fail closed with ErrUnknownService.
func (c *Catalog) Get(key string) (domain.Service, error) {
	idx, ok := c.byKey[key]
	if !ok {
		return domain.Service{}, fmt.Errorf("%w: %q", ErrUnknownService, key)
	}
	return c.services[idx], nil
}

// Has reports whether the key is configured
func (c *Catalog) Has(key string) bool {
	_, ok := c.byKey[key]
	return ok
}

// All services in catalog order
func (c *Catalog) All() []domain.Service {
	out := make([]domain.Service, len(c.services))
	copy(out, c.services)
	return out
}

// WithOverrides merges remote pricing overrides into a copy of the catalog.
// Overrides for unknown services are skipped and returned so the caller can log them.
func (c *Catalog) WithOverrides(overrides []domain.PricingOverride) (*Catalog, []string) {
	if len(overrides) == 0 {
		return c, nil
	}

	merged := &Catalog{
		services: make([]domain.Service, len(c.services)),
		byKey:    c.byKey,
	}
	copy(merged.services, c.services)

	var skipped []string
	for _, o := range overrides {
		idx, ok := c.byKey[o.ServiceKey]
		if !ok {
			skipped = append(skipped, o.ServiceKey)
			continue
		}
		merged.services[idx].Quote.MinimumCallOutPence = o.MinimumCallOutPence
	}

	return merged, skipped
}
