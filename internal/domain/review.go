package domain

import "time"

// Review is one-to-one with a completed booking. CleanerID is copied
// from the booking at creation time and never re-resolved.
type Review struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"booking_id" validate:"required"`
	CustomerID int64     `json:"customer_id" validate:"required"`
	CleanerID  int64     `json:"cleaner_id"`
	Rating     int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
