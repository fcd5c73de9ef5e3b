package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"cleanmarket/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateReview is returned when the composite unique index on
// (booking_id, customer_id) rejects an insert. The index, not a
// check-then-insert, is what guarantees at most one review per pair.
var ErrDuplicateReview = errors.New("review already exists for booking")

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	BookingID  int64     `gorm:"column:booking_id;uniqueIndex:idx_reviews_booking_customer"`
	CustomerID int64     `gorm:"column:customer_id;uniqueIndex:idx_reviews_booking_customer"`
	CleanerID  int64     `gorm:"column:cleaner_id;index"`
	Rating     int       `gorm:"column:rating"`
	Comment    *string   `gorm:"column:comment;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func toDomainReview(m reviewModel) *domain.Review {
	var comment string
	if m.Comment != nil {
		comment = *m.Comment
	}

	return &domain.Review{
		ID:         m.ID,
		BookingID:  m.BookingID,
		CustomerID: m.CustomerID,
		CleanerID:  m.CleanerID,
		Rating:     m.Rating,
		Comment:    comment,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toReviewModel(rv *domain.Review) reviewModel {
	var comment *string
	if rv.Comment != "" {
		v := rv.Comment
		comment = &v
	}

	return reviewModel{
		ID:         rv.ID,
		BookingID:  rv.BookingID,
		CustomerID: rv.CustomerID,
		CleanerID:  rv.CleanerID,
		Rating:     rv.Rating,
		Comment:    comment,
		CreatedAt:  rv.CreatedAt,
		UpdatedAt:  rv.UpdatedAt,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := toReviewModel(rv)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			return ErrDuplicateReview
		}
		return tx.Error
	}
	*rv = *toDomainReview(m)
	return nil
}

func (r *ReviewRepository) GetByBookingAndCustomer(ctx context.Context, bookingID, customerID int64) (*domain.Review, error) {
	var m reviewModel
	tx := r.db.WithContext(ctx).
		Where("booking_id = ? AND customer_id = ?", bookingID, customerID).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainReview(m), nil
}

func (r *ReviewRepository) GetByBooking(ctx context.Context, bookingID int64) (*domain.Review, error) {
	var m reviewModel
	tx := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainReview(m), nil
}

func (r *ReviewRepository) Exists(ctx context.Context, bookingID, customerID int64) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("booking_id = ? AND customer_id = ?", bookingID, customerID).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

// Update overwrites rating and comment in place; no history is kept.
func (r *ReviewRepository) Update(ctx context.Context, rv *domain.Review) error {
	m := toReviewModel(rv)
	tx := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("id = ?", rv.ID).
		Updates(map[string]any{
			"rating":     m.Rating,
			"comment":    m.Comment,
			"updated_at": time.Now(),
		})
	return tx.Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// sqlite driver does not wrap its constraint errors
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
