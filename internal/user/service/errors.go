package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	commonerrors "github.com/AlibekovAA/user-registry/internal/common/errors"
)

var (
	ErrValidation = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"validation failed",
	)

	ErrAgeBelowMinimum = commonerrors.NewDomainError(
		"AGE_BELOW_MINIMUM",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"user is below the minimum registration age",
	)

	ErrEmailAlreadyExists = commonerrors.NewDomainError(
		"EMAIL_ALREADY_EXISTS",
		commonerrors.CategoryConflict,
		http.StatusBadRequest,
		"User with this email already exists.",
	)

	ErrUserNotFound = commonerrors.NewDomainError(
		"USER_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"user not found",
	)

	ErrInvalidDateRange = commonerrors.NewDomainError(
		"INVALID_DATE_RANGE",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"invalid date range",
	)
)

const (
	msgDateRangeMissing = "Both 'from' and 'to' dates must be provided."
	msgDateRangeOrder   = "'From' date must not be after 'To' date."
)

func userNotFound(id any) error {
	return ErrUserNotFound.WithMessage(fmt.Sprintf("User with id: %v not found", id))
}

type Violation struct {
	Field   string
	Message string
}

// ValidationError carries every field violation found in a request.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return e.Message()
}

func (e *ValidationError) Message() string {
	messages := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		messages[i] = v.Message
	}
	return strings.Join(messages, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation.WithMessage(e.Message())
}

func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
