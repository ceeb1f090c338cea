package service

import (
	"errors"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/AlibekovAA/user-registry/internal/common/clock"
	"github.com/AlibekovAA/user-registry/internal/common/dates"
)

var emailRegex = regexp.MustCompile(`^[\w.-]+@[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*(\.[A-Za-z]{2,})$`)

// Keyed by struct field and failing tag.
var violationMessages = map[string]string{
	"ID.required":        "Id cannot be null",
	"Email.user_email":   "Invalid email",
	"FirstName.notblank": "First name cannot be empty",
	"LastName.notblank":  "Last name cannot be empty",
	"BirthDate.required": "Birth date cannot be null",
	"BirthDate.past":     "Birth date must be in the past",
}

type Validator interface {
	Validate(input any) error
}

// RequestValidator runs one validation pass over a request and reports all
// violations together as a *ValidationError.
type RequestValidator struct {
	validate *validator.Validate
	clock    clock.Clock
}

func NewRequestValidator(c clock.Clock) *RequestValidator {
	if c == nil {
		c = clock.NewRealClock()
	}

	rv := &RequestValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		clock:    c,
	}

	// Registration only fails on empty tag names or nil funcs.
	_ = rv.validate.RegisterValidation("user_email", isValidEmail)
	_ = rv.validate.RegisterValidation("notblank", validators.NotBlank)
	_ = rv.validate.RegisterValidation("past", rv.isPast)

	return rv
}

func (rv *RequestValidator) Validate(input any) error {
	err := rv.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	violations := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		message, ok := violationMessages[fe.StructField()+"."+fe.Tag()]
		if !ok {
			message = fe.Error()
		}
		violations = append(violations, Violation{Field: fe.StructField(), Message: message})
	}
	return &ValidationError{Violations: violations}
}

func IsValidEmail(email string) bool {
	return email != "" && emailRegex.MatchString(email)
}

func isValidEmail(fl validator.FieldLevel) bool {
	return IsValidEmail(fl.Field().String())
}

func (rv *RequestValidator) isPast(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	if t.IsZero() {
		return true
	}
	return dates.FromTime(t).Before(dates.Today(rv.clock.Now()))
}
