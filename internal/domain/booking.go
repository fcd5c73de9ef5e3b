package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// ParseBookingStatus rejects anything outside the closed status set.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled:
		return BookingStatus(s), nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

// cleanerTransitions is the only place transition legality is defined.
// pending leaves the table via the claim path, not via a status update.
var cleanerTransitions = map[BookingStatus][]BookingStatus{
	BookingConfirmed:  {BookingInProgress, BookingCancelled},
	BookingInProgress: {BookingCompleted, BookingCancelled},
}

// CanTransition reports whether a cleaner may move a booking from s to next.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	for _, allowed := range cleanerTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Booking struct {
	ID           int64         `json:"id"`
	CustomerID   int64         `json:"customer_id" validate:"required"`
	CleanerID    *int64        `json:"cleaner_id,omitempty"`
	ServiceID    int64         `json:"service_id" validate:"required"`
	AreaSizeID   int64         `json:"area_size_id" validate:"required"`
	TimeSlotID   int64         `json:"time_slot_id" validate:"required"`
	BookingDate  time.Time     `json:"booking_date" validate:"required"`
	Address      string        `json:"address"`
	ContactName  string        `json:"contact_name"`
	ContactPhone string        `json:"contact_phone"`
	Notes        string        `json:"notes,omitempty"`
	TotalPrice   float64       `json:"total_price" validate:"gte=0"`
	Status       BookingStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	Customer *User `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Cleaner  *User `json:"cleaner,omitempty" gorm:"foreignKey:CleanerID"`
}
