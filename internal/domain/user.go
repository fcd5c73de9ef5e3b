package domain

import "time"

type Role string

const (
	RoleCustomer Role = "user"
	RoleCleaner  Role = "cleaner"
	RoleAdmin    Role = "admin"
)

type UserStatus string

const (
	UserPending UserStatus = "pending"
	UserActive  UserStatus = "active"
)

type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email" validate:"required,email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name" validate:"required"`
	Phone        string     `json:"phone,omitempty"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
