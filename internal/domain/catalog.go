package domain

import "time"

// Reference catalog rows. Read-only from the booking engine's side;
// admins edit them out of band.

type Service struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required"`
	BasePrice float64   `json:"base_price" validate:"gte=0"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AreaSize struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name" validate:"required"`
	Multiplier float64   `json:"multiplier" validate:"gt=0"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type TimeSlot struct {
	ID        int64     `json:"id"`
	TimeRange string    `json:"time_range" validate:"required"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
