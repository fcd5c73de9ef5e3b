package repository

import (
	"context"
	"time"

	"cleanmarket/internal/domain"

	"gorm.io/gorm"
)

// CatalogRepository serves the reference tables: services, area sizes
// and time slots. The booking engine only reads from it.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type serviceModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	BasePrice float64   `gorm:"column:base_price"`
	IsActive  bool      `gorm:"column:is_active"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (serviceModel) TableName() string { return "services" }

type areaSizeModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	Name       string    `gorm:"column:name"`
	Multiplier float64   `gorm:"column:multiplier"`
	IsActive   bool      `gorm:"column:is_active"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (areaSizeModel) TableName() string { return "area_sizes" }

type timeSlotModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	TimeRange string    `gorm:"column:time_range"`
	IsActive  bool      `gorm:"column:is_active"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (timeSlotModel) TableName() string { return "time_slots" }

func (r *CatalogRepository) CreateService(ctx context.Context, s *domain.Service) error {
	m := serviceModel{ID: s.ID, Name: s.Name, BasePrice: s.BasePrice, IsActive: s.IsActive}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	s.ID = m.ID
	return nil
}

func (r *CatalogRepository) CreateAreaSize(ctx context.Context, a *domain.AreaSize) error {
	m := areaSizeModel{ID: a.ID, Name: a.Name, Multiplier: a.Multiplier, IsActive: a.IsActive}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	a.ID = m.ID
	return nil
}

func (r *CatalogRepository) CreateTimeSlot(ctx context.Context, t *domain.TimeSlot) error {
	m := timeSlotModel{ID: t.ID, TimeRange: t.TimeRange, IsActive: t.IsActive}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	t.ID = m.ID
	return nil
}

func (r *CatalogRepository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	var m serviceModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, tx.Error
	}
	return &domain.Service{
		ID: m.ID, Name: m.Name, BasePrice: m.BasePrice, IsActive: m.IsActive,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}, nil
}

func (r *CatalogRepository) GetAreaSize(ctx context.Context, id int64) (*domain.AreaSize, error) {
	var m areaSizeModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, tx.Error
	}
	return &domain.AreaSize{
		ID: m.ID, Name: m.Name, Multiplier: m.Multiplier, IsActive: m.IsActive,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}, nil
}

func (r *CatalogRepository) GetTimeSlot(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	var m timeSlotModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, tx.Error
	}
	return &domain.TimeSlot{
		ID: m.ID, TimeRange: m.TimeRange, IsActive: m.IsActive,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}, nil
}

func (r *CatalogRepository) ListActiveServices(ctx context.Context) ([]domain.Service, error) {
	var ms []serviceModel
	if tx := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&ms); tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Service, 0, len(ms))
	for _, m := range ms {
		out = append(out, domain.Service{
			ID: m.ID, Name: m.Name, BasePrice: m.BasePrice, IsActive: m.IsActive,
			CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
		})
	}
	return out, nil
}

func (r *CatalogRepository) ListActiveAreaSizes(ctx context.Context) ([]domain.AreaSize, error) {
	var ms []areaSizeModel
	if tx := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&ms); tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.AreaSize, 0, len(ms))
	for _, m := range ms {
		out = append(out, domain.AreaSize{
			ID: m.ID, Name: m.Name, Multiplier: m.Multiplier, IsActive: m.IsActive,
			CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
		})
	}
	return out, nil
}

func (r *CatalogRepository) ListActiveTimeSlots(ctx context.Context) ([]domain.TimeSlot, error) {
	var ms []timeSlotModel
	if tx := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&ms); tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.TimeSlot, 0, len(ms))
	for _, m := range ms {
		out = append(out, domain.TimeSlot{
			ID: m.ID, TimeRange: m.TimeRange, IsActive: m.IsActive,
			CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
		})
	}
	return out, nil
}
