package review

import (
	"context"
	"testing"

	"cleanmarket/internal/domain"
	"cleanmarket/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	args := m.Called(ctx, rv)
	if rv != nil {
		rv.ID = 55 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockReviewRepository) GetByBookingAndCustomer(ctx context.Context, bookingID, customerID int64) (*domain.Review, error) {
	args := m.Called(ctx, bookingID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByBooking(ctx context.Context, bookingID int64) (*domain.Review, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) Exists(ctx context.Context, bookingID, customerID int64) (bool, error) {
	args := m.Called(ctx, bookingID, customerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, rv *domain.Review) error {
	args := m.Called(ctx, rv)
	return args.Error(0)
}

type MockBookingGate struct {
	mock.Mock
}

func (m *MockBookingGate) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func completedBooking(customerID, cleanerID int64) *domain.Booking {
	return &domain.Booking{
		ID:         100,
		CustomerID: customerID,
		CleanerID:  &cleanerID,
		Status:     domain.BookingCompleted,
	}
}

func TestCreate_Success(t *testing.T) {
	reviews := new(MockReviewRepository)
	bookings := new(MockBookingGate)
	svc := NewService(reviews, bookings)

	bookings.On("GetByID", mock.Anything, int64(100)).Return(completedBooking(42, 7), nil)
	reviews.On("Exists", mock.Anything, int64(100), int64(42)).Return(false, nil)
	reviews.On("Create", mock.Anything, mock.Anything).Return(nil)

	rv, err := svc.Create(context.Background(), 42, CreateReviewRequest{
		BookingID: 100,
		Rating:    5,
		Comment:   "Spotless",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), rv.CleanerID, "cleaner must be copied from the booking")
	assert.Equal(t, 5, rv.Rating)
}

func TestCreate_NotCompleted(t *testing.T) {
	reviews := new(MockReviewRepository)
	bookings := new(MockBookingGate)
	svc := NewService(reviews, bookings)

	cleaner := int64(7)
	bookings.On("GetByID", mock.Anything, int64(100)).Return(&domain.Booking{
		ID: 100, CustomerID: 42, CleanerID: &cleaner, Status: domain.BookingInProgress,
	}, nil)

	_, err := svc.Create(context.Background(), 42, CreateReviewRequest{BookingID: 100, Rating: 5})

	assert.ErrorIs(t, err, ErrNotCompleted)
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_NoCleaner(t *testing.T) {
	reviews := new(MockReviewRepository)
	bookings := new(MockBookingGate)
	svc := NewService(reviews, bookings)

	// completed with no cleaner can only come from an admin force-set
	bookings.On("GetByID", mock.Anything, int64(100)).Return(&domain.Booking{
		ID: 100, CustomerID: 42, Status: domain.BookingCompleted,
	}, nil)

	_, err := svc.Create(context.Background(), 42, CreateReviewRequest{BookingID: 100, Rating: 5})
	assert.ErrorIs(t, err, ErrNoCleaner)
}

func TestCreate_NotOwnBooking(t *testing.T) {
	reviews := new(MockReviewRepository)
	bookings := new(MockBookingGate)
	svc := NewService(reviews, bookings)

	bookings.On("GetByID", mock.Anything, int64(100)).Return(completedBooking(43, 7), nil)

	_, err := svc.Create(context.Background(), 42, CreateReviewRequest{BookingID: 100, Rating: 5})
	assert.ErrorIs(t, err, ErrBookingNotFound)
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_AlreadyReviewed(t *testing.T) {
	reviews := new(MockReviewRepository)
	bookings := new(MockBookingGate)
	svc := NewService(reviews, bookings)

	bookings.On("GetByID", mock.Anything, int64(100)).Return(completedBooking(42, 7), nil)
	reviews.On("Exists", mock.Anything, int64(100), int64(42)).Return(true, nil)

	_, err := svc.Create(context.Background(), 42, CreateReviewRequest{BookingID: 100, Rating: 4})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestCreate_DuplicateRace(t *testing.T) {
	reviews := new(MockReviewRepository)
	bookings := new(MockBookingGate)
	svc := NewService(reviews, bookings)

	// the existence check passes but the unique index rejects the insert
	bookings.On("GetByID", mock.Anything, int64(100)).Return(completedBooking(42, 7), nil)
	reviews.On("Exists", mock.Anything, int64(100), int64(42)).Return(false, nil)
	reviews.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateReview)

	_, err := svc.Create(context.Background(), 42, CreateReviewRequest{BookingID: 100, Rating: 4})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestCreate_RatingOutOfRange(t *testing.T) {
	reviews := new(MockReviewRepository)
	bookings := new(MockBookingGate)
	svc := NewService(reviews, bookings)

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := svc.Create(context.Background(), 42, CreateReviewRequest{BookingID: 100, Rating: rating})
		assert.ErrorIs(t, err, ErrValidation, "rating %d should be rejected", rating)
	}
	bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdate_Success(t *testing.T) {
	reviews := new(MockReviewRepository)
	bookings := new(MockBookingGate)
	svc := NewService(reviews, bookings)

	reviews.On("GetByBookingAndCustomer", mock.Anything, int64(100), int64(42)).Return(&domain.Review{
		ID: 55, BookingID: 100, CustomerID: 42, CleanerID: 7, Rating: 5, Comment: "Spotless",
	}, nil)
	reviews.On("Update", mock.Anything, mock.Anything).Return(nil)

	rv, err := svc.Update(context.Background(), 100, 42, UpdateReviewRequest{Rating: 3, Comment: "Second visit was worse"})

	assert.NoError(t, err)
	assert.Equal(t, 3, rv.Rating)
	assert.Equal(t, "Second visit was worse", rv.Comment)
	assert.Equal(t, int64(7), rv.CleanerID, "cleaner reference must not change on update")
}

func TestUpdate_NotFound(t *testing.T) {
	reviews := new(MockReviewRepository)
	bookings := new(MockBookingGate)
	svc := NewService(reviews, bookings)

	reviews.On("GetByBookingAndCustomer", mock.Anything, int64(100), int64(42)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Update(context.Background(), 100, 42, UpdateReviewRequest{Rating: 3})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByBooking_None(t *testing.T) {
	reviews := new(MockReviewRepository)
	bookings := new(MockBookingGate)
	svc := NewService(reviews, bookings)

	reviews.On("GetByBooking", mock.Anything, int64(100)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetByBooking(context.Background(), 100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHasReviewed(t *testing.T) {
	reviews := new(MockReviewRepository)
	bookings := new(MockBookingGate)
	svc := NewService(reviews, bookings)

	reviews.On("Exists", mock.Anything, int64(100), int64(42)).Return(true, nil)

	ok, err := svc.HasReviewed(context.Background(), 100, 42)
	assert.NoError(t, err)
	assert.True(t, ok)
}
