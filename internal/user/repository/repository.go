package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AlibekovAA/user-registry/internal/user/domain"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Repository is the user store. Lookups that match nothing return ErrUserNotFound;
// writes that would duplicate an email return ErrEmailAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	Update(ctx context.Context, user domain.User) error
	Delete(ctx context.Context, id domain.ID) error
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	// FindByBirthDateBetween matches both bounds inclusively.
	FindByBirthDateBetween(ctx context.Context, from, to time.Time) ([]domain.User, error)
}

// IsExpected reports store outcomes that are answers rather than faults.
func IsExpected(err error) bool {
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrEmailAlreadyExists)
}
