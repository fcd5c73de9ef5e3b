package booking

import (
	"context"

	"cleanmarket/internal/domain"
	"cleanmarket/internal/repository"
)

// BookingRepository is the persistence surface the lifecycle engine needs.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetDetails(ctx context.Context, id int64) (*repository.BookingDetails, error)
	GetDetailsForCustomer(ctx context.Context, id, customerID int64) (*repository.BookingDetails, error)
	ListByCustomer(ctx context.Context, customerID int64, status string) ([]repository.BookingDetails, error)
	ListByCleaner(ctx context.Context, cleanerID int64, status string) ([]repository.BookingDetails, error)
	ListAvailable(ctx context.Context) ([]repository.BookingDetails, error)
	Claim(ctx context.Context, bookingID, cleanerID int64) (int64, error)
	UpdateStatusForCleaner(ctx context.Context, bookingID, cleanerID int64, from, to domain.BookingStatus) (int64, error)
	CancelPendingForCustomer(ctx context.Context, bookingID, customerID int64) (int64, error)
	CustomerStats(ctx context.Context, customerID int64) (*repository.BookingStats, error)
	CleanerStats(ctx context.Context, cleanerID int64) (*repository.BookingStats, error)
}

// CatalogReader is the read-only view onto the reference catalog.
type CatalogReader interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetAreaSize(ctx context.Context, id int64) (*domain.AreaSize, error)
	GetTimeSlot(ctx context.Context, id int64) (*domain.TimeSlot, error)
}

// UserDirectory resolves user ids handed to us by the auth layer.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
