package dto

import (
	"time"

	"github.com/AlibekovAA/user-registry/internal/common/dates"
	"github.com/AlibekovAA/user-registry/internal/user/domain"
)

type CreateUserRequest struct {
	Email       string    `validate:"user_email"`
	FirstName   string    `validate:"notblank"`
	LastName    string    `validate:"notblank"`
	BirthDate   time.Time `validate:"required,past"`
	Address     string
	PhoneNumber string
}

type UpdateUserRequest struct {
	ID          domain.ID `validate:"required"`
	Email       string    `validate:"user_email"`
	FirstName   string    `validate:"notblank"`
	LastName    string    `validate:"notblank"`
	BirthDate   time.Time `validate:"required,past"`
	Address     string
	PhoneNumber string
}

type User struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	BirthDate   dates.Date `json:"birthDate"`
	Address     string     `json:"address,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
}

type UsersByBirthDateRange struct {
	Users []User `json:"users"`
}
