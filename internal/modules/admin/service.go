package admin

import (
	"context"
	"errors"
	"fmt"

	"cleanmarket/internal/domain"
	"cleanmarket/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrBookingNotFound = errors.New("booking not found")
)

// StatsReader serves the dashboard rollups. Each count is its own
// query; the numbers are a point-in-time read, not a snapshot.
type StatsReader interface {
	CountUsersByRole(ctx context.Context) (map[string]int64, error)
	CountBookingsByStatus(ctx context.Context) (map[string]int64, error)
	CountCleanersByStatus(ctx context.Context) (map[string]int64, error)
	RevenueCompleted(ctx context.Context) (float64, error)
	RevenueByService(ctx context.Context) ([]repository.ServiceRevenue, error)
}

// BookingAdmin is the privileged write surface onto bookings.
type BookingAdmin interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetDetails(ctx context.Context, id int64) (*repository.BookingDetails, error)
	ListAll(ctx context.Context, status string) ([]repository.BookingDetails, error)
	ForceStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (int64, error)
}

type Dashboard struct {
	UsersByRole      map[string]int64            `json:"users_by_role"`
	BookingsByStatus map[string]int64            `json:"bookings_by_status"`
	CleanersByStatus map[string]int64            `json:"cleaners_by_status"`
	Revenue          float64                     `json:"revenue"`
	RevenueByService []repository.ServiceRevenue `json:"revenue_by_service"`
}

type Service struct {
	stats    StatsReader
	bookings BookingAdmin
}

func NewService(stats StatsReader, bookings BookingAdmin) *Service {
	return &Service{stats: stats, bookings: bookings}
}

func (s *Service) GetDashboard(ctx context.Context) (*Dashboard, error) {
	users, err := s.stats.CountUsersByRole(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.stats.CountBookingsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	cleaners, err := s.stats.CountCleanersByStatus(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.stats.RevenueCompleted(ctx)
	if err != nil {
		return nil, err
	}
	perService, err := s.stats.RevenueByService(ctx)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		UsersByRole:      users,
		BookingsByStatus: bookings,
		CleanersByStatus: cleaners,
		Revenue:          revenue,
		RevenueByService: perService,
	}, nil
}

func (s *Service) ListBookings(ctx context.Context, status string) ([]repository.BookingDetails, error) {
	if status != "" && status != "all" {
		if _, err := domain.ParseBookingStatus(status); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err)
		}
	}
	if status == "all" {
		status = ""
	}
	return s.bookings.ListAll(ctx, status)
}

// ForceStatus sets a booking's status directly, bypassing the cleaner
// transition table. Support/operations escape hatch only.
func (s *Service) ForceStatus(ctx context.Context, bookingID int64, status string) (*repository.BookingDetails, error) {
	parsed, err := domain.ParseBookingStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	rows, err := s.bookings.ForceStatus(ctx, bookingID, parsed)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrBookingNotFound
	}

	d, err := s.bookings.GetDetails(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return d, nil
}
