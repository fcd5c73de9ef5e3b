package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cleanmarket/internal/domain"
	"cleanmarket/internal/repository"

	"gorm.io/gorm"
)

const maxCommentLen = 500

// ReviewRepository persists reviews. Create must fail with
// repository.ErrDuplicateReview when the (booking, customer) pair
// already has one.
type ReviewRepository interface {
	Create(ctx context.Context, rv *domain.Review) error
	GetByBookingAndCustomer(ctx context.Context, bookingID, customerID int64) (*domain.Review, error)
	GetByBooking(ctx context.Context, bookingID int64) (*domain.Review, error)
	Exists(ctx context.Context, bookingID, customerID int64) (bool, error)
	Update(ctx context.Context, rv *domain.Review) error
}

// BookingGate is the eligibility view onto the booking engine.
type BookingGate interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

type Service struct {
	reviews  ReviewRepository
	bookings BookingGate
}

func NewService(reviews ReviewRepository, bookings BookingGate) *Service {
	return &Service{reviews: reviews, bookings: bookings}
}

// Create attaches a review to the customer's completed booking. The
// cleaner id is copied from the booking here and never re-resolved.
// Duplicate protection is the repository's unique index; the Exists
// check only gives callers a friendlier error on the common path.
func (s *Service) Create(ctx context.Context, customerID int64, req CreateReviewRequest) (*domain.Review, error) {
	if err := validateRating(req.Rating, req.Comment); err != nil {
		return nil, err
	}

	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, ErrBookingNotFound
	}
	if b.Status != domain.BookingCompleted {
		return nil, fmt.Errorf("%w: booking is %s", ErrNotCompleted, b.Status)
	}
	if b.CleanerID == nil {
		return nil, ErrNoCleaner
	}

	exists, err := s.reviews.Exists(ctx, req.BookingID, customerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	rv := &domain.Review{
		BookingID:  req.BookingID,
		CustomerID: customerID,
		CleanerID:  *b.CleanerID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
	}

	if err := s.reviews.Create(ctx, rv); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	return rv, nil
}

// Update overwrites the rating and comment of an existing review.
func (s *Service) Update(ctx context.Context, bookingID, customerID int64, req UpdateReviewRequest) (*domain.Review, error) {
	if err := validateRating(req.Rating, req.Comment); err != nil {
		return nil, err
	}

	rv, err := s.reviews.GetByBookingAndCustomer(ctx, bookingID, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rv.Rating = req.Rating
	rv.Comment = strings.TrimSpace(req.Comment)

	if err := s.reviews.Update(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *Service) HasReviewed(ctx context.Context, bookingID, customerID int64) (bool, error) {
	return s.reviews.Exists(ctx, bookingID, customerID)
}

func (s *Service) GetByBooking(ctx context.Context, bookingID int64) (*domain.Review, error) {
	rv, err := s.reviews.GetByBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rv, nil
}

func validateRating(rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if len(strings.TrimSpace(comment)) > maxCommentLen {
		return fmt.Errorf("%w: comment must be at most %d characters", ErrValidation, maxCommentLen)
	}
	return nil
}
