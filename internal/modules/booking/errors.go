package booking

import "errors"

var (
	ErrValidation = errors.New("validation error")

	ErrNotFound         = errors.New("booking not found")
	ErrServiceNotFound  = errors.New("service not found")
	ErrAreaSizeNotFound = errors.New("area size not found")
	ErrTimeSlotNotFound = errors.New("time slot not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCleanerNotFound  = errors.New("cleaner not found")

	// state conflicts
	ErrAlreadyAssigned   = errors.New("booking already assigned to another cleaner")
	ErrNotAssignable     = errors.New("booking cannot be assigned")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrCancelNotAllowed  = errors.New("only pending bookings can be cancelled")

	// authorization
	ErrNotJobOwner = errors.New("booking is assigned to another cleaner")
)
