package calculate_quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/GardenBookingService/internal/catalog"
	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/engine/quote"
	distanceClient "github.com/m04kA/GardenBookingService/internal/integrations/distance"
)

// UseCase prices a booking form state
type UseCase struct {
	catalog      *catalog.Catalog
	overrideRepo PricingOverrideRepository
	distance     DistanceClient
	metrics      Metrics
	logger       Logger
}

// NewUseCase creates the use case. overrideRepo and distance may be nil.
func NewUseCase(
	catalog *catalog.Catalog,
	overrideRepo PricingOverrideRepository,
	distance DistanceClient,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalog:      catalog,
		overrideRepo: overrideRepo,
		distance:     distance,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute merges pricing overrides, resolves the distance and runs the calculator
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CalculateQuote: service=%q, postcode=%q", req.ServiceKey, req.Postcode)

	// 1. Validate input
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CalculateQuote: validation failed: %v", err)
		return nil, err
	}

	// 2. Static price table merged with remote overrides, once per request
	service, err := uc.service(ctx, req.ServiceKey)
	if err != nil {
		return nil, err
	}

	// 3. Distance: given, looked up, or unknown
	miles, err := uc.resolveDistance(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Start hour for the out-of-hours surcharge
	st := quote.State{
		Options:       req.Options,
		Extras:        req.Extras,
		DistanceMiles: miles,
	}
	timeIgnored := false
	if req.Time != nil && *req.Time != "" {
		hour, err := domain.ParseHour(*req.Time)
		if err != nil {
			uc.logger.Warn("CalculateQuote: ignoring requested time %q: %v", *req.Time, err)
			timeIgnored = true
		} else {
			st.StartHour = &hour
		}
	}

	// 5. Price
	q, err := quote.Calculate(service.Quote, st)
	if err != nil {
		uc.logger.Warn("CalculateQuote: invalid quote state for %s: %v", service.Key, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	uc.metrics.ObserveQuote(service.Key, q.FloorApplied)
	uc.logger.Info("CalculateQuote: service=%s, total=%d, subtotal=%d, floored=%t, distanceUnknown=%t",
		service.Key, q.TotalPence, q.SubtotalPence, q.FloorApplied, q.DistanceUnknown)

	return &Response{
		Service:       service,
		Quote:         q,
		DistanceMiles: miles,
		TimeIgnored:   timeIgnored,
	}, nil
}

// Services the catalog with overrides applied, for the booking form
func (uc *UseCase) Services(ctx context.Context) []domain.Service {
	return uc.mergedCatalog(ctx).All()
}

func (uc *UseCase) service(ctx context.Context, key string) (domain.Service, error) {
	service, err := uc.mergedCatalog(ctx).Get(key)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownService) {
			uc.logger.Warn("CalculateQuote: unknown service %q", key)
			return domain.Service{}, fmt.Errorf("%w: %s", ErrUnknownService, key)
		}
		return domain.Service{}, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	return service, nil
}

// mergedCatalog falls back to the static table when overrides cannot be loaded
func (uc *UseCase) mergedCatalog(ctx context.Context) *catalog.Catalog {
	if uc.overrideRepo == nil {
		return uc.catalog
	}

	overrides, err := uc.overrideRepo.List(ctx)
	if err != nil {
		uc.logger.Error("CalculateQuote: failed to load pricing overrides, using static prices: %v", err)
		return uc.catalog
	}

	merged, skipped := uc.catalog.WithOverrides(overrides)
	if len(skipped) > 0 {
		uc.logger.Warn("CalculateQuote: overrides for unknown services ignored: %v", skipped)
	}
	return merged
}

func (uc *UseCase) resolveDistance(ctx context.Context, req *Request) (*float64, error) {
	if req.DistanceMiles != nil {
		return req.DistanceMiles, nil
	}
	if req.Postcode == "" || uc.distance == nil {
		return nil, nil
	}

	miles, err := uc.distance.MilesWithGracefulDegradation(ctx, req.Postcode)
	if err != nil {
		if errors.Is(err, distanceClient.ErrInvalidPostcode) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPostcode, req.Postcode)
		}
		// not found or geocoder down: quote with an unknown distance
		uc.logger.Warn("CalculateQuote: distance unknown for %q: %v", req.Postcode, err)
		return nil, nil
	}

	return &miles, nil
}
