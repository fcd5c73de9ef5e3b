package review

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("review not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrNotCompleted    = errors.New("can only review completed bookings")
	ErrNoCleaner       = errors.New("cannot review booking without assigned cleaner")
	ErrAlreadyReviewed = errors.New("booking already reviewed")
)
