package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"cleanmarket/internal/domain"
	"cleanmarket/internal/pkg/validator"
	"cleanmarket/internal/repository"

	"gorm.io/gorm"
)

const (
	maxDistrictLen = 150
	maxDetailLen   = 200
	maxNameLen     = 100
	maxNotesLen    = 500
)

// optional leading +, then 8-15 digits
var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

type Service struct {
	bookings BookingRepository
	catalog  CatalogReader
	users    UserDirectory
}

func NewService(bookings BookingRepository, catalog CatalogReader, users UserDirectory) *Service {
	return &Service{
		bookings: bookings,
		catalog:  catalog,
		users:    users,
	}
}

// CreateBooking validates the request, snapshots the price from the
// catalog and persists a pending, unassigned booking.
func (s *Service) CreateBooking(ctx context.Context, customerID int64, req CreateBookingRequest) (*repository.BookingDetails, error) {
	district := strings.TrimSpace(req.AddressDistrict)
	detail := strings.TrimSpace(req.AddressDetail)
	name := strings.TrimSpace(req.ContactName)
	phone := strings.TrimSpace(req.ContactPhone)
	notes := strings.TrimSpace(req.Notes)

	switch {
	case district == "" || len(district) > maxDistrictLen:
		return nil, fmt.Errorf("%w: address district must be 1-%d characters", ErrValidation, maxDistrictLen)
	case detail == "" || len(detail) > maxDetailLen:
		return nil, fmt.Errorf("%w: address detail must be 1-%d characters", ErrValidation, maxDetailLen)
	case name == "" || len(name) > maxNameLen:
		return nil, fmt.Errorf("%w: contact name must be 1-%d characters", ErrValidation, maxNameLen)
	case len(notes) > maxNotesLen:
		return nil, fmt.Errorf("%w: notes must be at most %d characters", ErrValidation, maxNotesLen)
	case !phonePattern.MatchString(phone):
		return nil, fmt.Errorf("%w: contact phone must be 8-15 digits with optional leading +", ErrValidation)
	}

	date, err := time.ParseInLocation("2006-01-02", req.BookingDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: booking date must be YYYY-MM-DD", ErrValidation)
	}
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, fmt.Errorf("%w: booking date cannot be in the past", ErrValidation)
	}

	if _, err := s.users.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	svc, err := s.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	area, err := s.catalog.GetAreaSize(ctx, req.AreaSizeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAreaSizeNotFound
		}
		return nil, err
	}
	if _, err := s.catalog.GetTimeSlot(ctx, req.TimeSlotID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeSlotNotFound
		}
		return nil, err
	}

	// price is fixed here and never recomputed
	total := svc.BasePrice * area.Multiplier
	total = math.Round(total*100) / 100

	b := &domain.Booking{
		CustomerID:   customerID,
		ServiceID:    req.ServiceID,
		AreaSizeID:   req.AreaSizeID,
		TimeSlotID:   req.TimeSlotID,
		BookingDate:  date,
		Address:      detail + ", " + district,
		ContactName:  name,
		ContactPhone: phone,
		Notes:        notes,
		TotalPrice:   total,
		Status:       domain.BookingPending,
	}

	if fields := validator.Validate(b); fields != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, fields)
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	return s.bookings.GetDetails(ctx, b.ID)
}

// ClaimBooking assigns a pending, unclaimed booking to the cleaner. The
// repository claim is a single conditional update, so exactly one of N
// concurrent claimers wins; the rest land in the diagnosis below.
func (s *Service) ClaimBooking(ctx context.Context, bookingID, cleanerID int64) (*repository.BookingDetails, error) {
	if _, err := s.users.GetByID(ctx, cleanerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCleanerNotFound
		}
		return nil, err
	}

	rows, err := s.bookings.Claim(ctx, bookingID, cleanerID)
	if err != nil {
		return nil, err
	}
	if rows == 1 {
		return s.bookings.GetDetails(ctx, bookingID)
	}

	// claim lost; figure out why
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.CleanerID != nil {
		return nil, ErrAlreadyAssigned
	}
	return nil, fmt.Errorf("%w: booking is %s", ErrNotAssignable, b.Status)
}

// AdvanceStatus moves a booking along the cleaner-driven state machine.
// Only the assigned cleaner may advance, and only along legal edges.
func (s *Service) AdvanceStatus(ctx context.Context, bookingID, cleanerID int64, newStatus string) (*repository.BookingDetails, error) {
	next, err := domain.ParseBookingStatus(newStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if b.CleanerID == nil {
		// unclaimed bookings have no cleaner-driven edges at all
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, next)
	}
	if *b.CleanerID != cleanerID {
		return nil, ErrNotJobOwner
	}

	if !b.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, next)
	}

	rows, err := s.bookings.UpdateStatusForCleaner(ctx, bookingID, cleanerID, b.Status, next)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// status moved underneath us between the read and the update
		cur, err := s.bookings.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur.Status, next)
	}

	return s.bookings.GetDetails(ctx, bookingID)
}

// CustomerCancel cancels the customer's own booking while it is still
// pending. Once a cleaner has claimed it, only the cleaner or an admin
// can cancel.
func (s *Service) CustomerCancel(ctx context.Context, bookingID, customerID int64) error {
	rows, err := s.bookings.CancelPendingForCustomer(ctx, bookingID, customerID)
	if err != nil {
		return err
	}
	if rows == 1 {
		return nil
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if b.CustomerID != customerID {
		// do not leak existence of other customers' bookings
		return ErrNotFound
	}
	return fmt.Errorf("%w: booking is %s", ErrCancelNotAllowed, b.Status)
}

func (s *Service) ListMyBookings(ctx context.Context, customerID int64, status string) ([]repository.BookingDetails, error) {
	filter, err := statusFilter(status)
	if err != nil {
		return nil, err
	}
	return s.bookings.ListByCustomer(ctx, customerID, filter)
}

func (s *Service) GetMyBooking(ctx context.Context, bookingID, customerID int64) (*repository.BookingDetails, error) {
	d, err := s.bookings.GetDetailsForCustomer(ctx, bookingID, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *Service) CustomerDashboard(ctx context.Context, customerID int64) (*repository.BookingStats, error) {
	return s.bookings.CustomerStats(ctx, customerID)
}

func (s *Service) CleanerDashboard(ctx context.Context, cleanerID int64) (*repository.BookingStats, error) {
	return s.bookings.CleanerStats(ctx, cleanerID)
}

func (s *Service) AvailableJobs(ctx context.Context) ([]repository.BookingDetails, error) {
	return s.bookings.ListAvailable(ctx)
}

func (s *Service) MyJobs(ctx context.Context, cleanerID int64, status string) ([]repository.BookingDetails, error) {
	filter, err := statusFilter(status)
	if err != nil {
		return nil, err
	}
	return s.bookings.ListByCleaner(ctx, cleanerID, filter)
}

func statusFilter(status string) (string, error) {
	if status == "" || status == "all" {
		return "", nil
	}
	parsed, err := domain.ParseBookingStatus(status)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrValidation, err)
	}
	return string(parsed), nil
}
