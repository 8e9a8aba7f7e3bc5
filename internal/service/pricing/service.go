package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/GardenBookingService/internal/catalog"
	"github.com/m04kA/GardenBookingService/internal/domain"
	pricingRepo "github.com/m04kA/GardenBookingService/internal/infra/storage/pricing"
	"github.com/m04kA/GardenBookingService/internal/service/pricing/models"
)

// MaxMinimumCallOutPence upper bound accepted for an override (£5,000)
const MaxMinimumCallOutPence = 500000

// Service manager-side pricing overrides.
// Only the minimum call-out can be overridden; the price table itself stays static.
type Service struct {
	overrideRepo OverrideRepository
	catalog      Catalog
	logger       Logger
}

// NewService creates the pricing service
func NewService(overrideRepo OverrideRepository, catalog Catalog, logger Logger) *Service {
	return &Service{
		overrideRepo: overrideRepo,
		catalog:      catalog,
		logger:       logger,
	}
}

// List every catalog service with its static and effective minimum
func (s *Service) List(ctx context.Context) (*models.OverrideListResponse, error) {
	s.logger.Info("List: fetching pricing overrides")

	overrides, err := s.overrideRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	byKey := make(map[string]*domain.PricingOverride, len(overrides))
	for i := range overrides {
		byKey[overrides[i].ServiceKey] = &overrides[i]
	}

	services := s.catalog.All()
	resp := &models.OverrideListResponse{Overrides: make([]models.OverrideResponse, 0, len(services))}
	for _, svc := range services {
		resp.Overrides = append(resp.Overrides, *models.FromService(svc, byKey[svc.Key]))
	}

	return resp, nil
}

// Get static and effective minimum of one service
func (s *Service) Get(ctx context.Context, serviceKey string) (*models.OverrideResponse, error) {
	s.logger.Info("Get: fetching pricing override for service=%q", serviceKey)

	svc, err := s.service(serviceKey)
	if err != nil {
		return nil, err
	}

	override, err := s.overrideRepo.Get(ctx, svc.Key)
	if err != nil && !errors.Is(err, pricingRepo.ErrOverrideNotFound) {
		s.logger.Error("Get: repository error for service=%s: %v", svc.Key, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromService(svc, override), nil
}

// Upsert sets the minimum call-out override of a service
func (s *Service) Upsert(ctx context.Context, serviceKey string, req *models.UpsertOverrideRequest) (*models.OverrideResponse, error) {
	s.logger.Info("Upsert: service=%q, minimum=%d, by=%q", serviceKey, req.MinimumCallOutPence, req.UpdatedBy)

	svc, err := s.service(serviceKey)
	if err != nil {
		return nil, err
	}

	if req.MinimumCallOutPence < 0 || req.MinimumCallOutPence > MaxMinimumCallOutPence {
		s.logger.Warn("Upsert: minimum %d out of range for service=%s", req.MinimumCallOutPence, svc.Key)
		return nil, fmt.Errorf("%w: minimum call-out must be in [0, %d] pence", ErrInvalidInput, MaxMinimumCallOutPence)
	}

	saved, err := s.overrideRepo.Upsert(ctx, &domain.PricingOverride{
		ServiceKey:          svc.Key,
		MinimumCallOutPence: req.MinimumCallOutPence,
		UpdatedBy:           strings.TrimSpace(req.UpdatedBy),
	})
	if err != nil {
		s.logger.Error("Upsert: repository error for service=%s: %v", svc.Key, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: minimum call-out of %s is now %d", svc.Key, saved.MinimumCallOutPence)
	return models.FromService(svc, saved), nil
}

// Delete drops the override; the static minimum applies again
func (s *Service) Delete(ctx context.Context, serviceKey string) error {
	s.logger.Info("Delete: removing pricing override for service=%q", serviceKey)

	svc, err := s.service(serviceKey)
	if err != nil {
		return err
	}

	if err := s.overrideRepo.Delete(ctx, svc.Key); err != nil {
		if errors.Is(err, pricingRepo.ErrOverrideNotFound) {
			s.logger.Warn("Delete: no override for service=%s", svc.Key)
			return ErrOverrideNotFound
		}
		s.logger.Error("Delete: repository error for service=%s: %v", svc.Key, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	return nil
}

func (s *Service) service(key string) (domain.Service, error) {
	svc, err := s.catalog.Get(key)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownService) {
			s.logger.Warn("unknown service %q", key)
			return domain.Service{}, fmt.Errorf("%w: %s", ErrUnknownService, key)
		}
		return domain.Service{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return svc, nil
}
