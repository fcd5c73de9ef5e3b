package catalog

import (
	"context"

	"cleanmarket/internal/domain"
)

// CatalogRepository is the read path onto the reference tables.
type CatalogRepository interface {
	ListActiveServices(ctx context.Context) ([]domain.Service, error)
	ListActiveAreaSizes(ctx context.Context) ([]domain.AreaSize, error)
	ListActiveTimeSlots(ctx context.Context) ([]domain.TimeSlot, error)
}

type Service struct {
	catalog CatalogRepository
}

func NewService(catalog CatalogRepository) *Service {
	return &Service{catalog: catalog}
}

func (s *Service) GetActiveServices(ctx context.Context) ([]domain.Service, error) {
	return s.catalog.ListActiveServices(ctx)
}

func (s *Service) GetActiveAreaSizes(ctx context.Context) ([]domain.AreaSize, error) {
	return s.catalog.ListActiveAreaSizes(ctx)
}

func (s *Service) GetActiveTimeSlots(ctx context.Context) ([]domain.TimeSlot, error) {
	return s.catalog.ListActiveTimeSlots(ctx)
}
