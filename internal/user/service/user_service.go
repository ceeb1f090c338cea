package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/AlibekovAA/user-registry/internal/common/clock"
	"github.com/AlibekovAA/user-registry/internal/common/constants"
	"github.com/AlibekovAA/user-registry/internal/common/dates"
	commonerrors "github.com/AlibekovAA/user-registry/internal/common/errors"
	"github.com/AlibekovAA/user-registry/internal/common/logger"
	"github.com/AlibekovAA/user-registry/internal/observability/metrics"
	"github.com/AlibekovAA/user-registry/internal/user/domain"
	"github.com/AlibekovAA/user-registry/internal/user/repository"
	"github.com/AlibekovAA/user-registry/internal/user/service/dto"
	"github.com/AlibekovAA/user-registry/internal/user/service/mapper"
)

type UserServiceDeps struct {
	Repo      repository.Repository
	Validator Validator
	Mapper    mapper.UserMapper
	Clock     clock.Clock
	Log       *logger.Logger
}

// UserServiceConfig carries business tunables. A MinAge of 0 disables the age
// rule; a negative value falls back to the default.
type UserServiceConfig struct {
	MinAge int
}

type UserService struct {
	repo      repository.Repository
	validator Validator
	mapper    mapper.UserMapper
	clock     clock.Clock
	log       *logger.Logger
	minAge    int
}

func NewUserService(deps UserServiceDeps, cfg UserServiceConfig) *UserService {
	c := deps.Clock
	if c == nil {
		c = clock.NewRealClock()
	}

	v := deps.Validator
	if v == nil {
		v = NewRequestValidator(c)
	}

	m := deps.Mapper
	if m == nil {
		m = mapper.NewUserMapper()
	}

	log := deps.Log
	if log == nil {
		log = logger.NewWithWriter(io.Discard, "users", "CRITICAL")
	}

	minAge := cfg.MinAge
	if minAge < 0 {
		minAge = constants.DefaultMinRegistrationAge
	}

	return &UserService{
		repo:      deps.Repo,
		validator: v,
		mapper:    m,
		clock:     c,
		log:       log,
		minAge:    minAge,
	}
}

func (s *UserService) MinAge() int {
	return s.minAge
}

func (s *UserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (dto.User, error) {
	if err := s.validator.Validate(req); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  req.Email,
			"action": "create_user_validation_failed",
		}).Warnf("create user validation failed: %v", err)
		s.record("create", err)
		return dto.User{}, err
	}

	if err := s.validateAge(req.BirthDate); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  req.Email,
			"action": "create_user_age_rejected",
		}).Warn(err.Error())
		s.record("create", err)
		return dto.User{}, err
	}

	if err := s.checkEmailAvailable(ctx, req.Email, 0); err != nil {
		s.record("create", err)
		return dto.User{}, err
	}

	created, err := s.repo.Create(ctx, s.mapper.ToEntity(req))
	if err != nil {
		err = s.storeError(ctx, "create", err)
		s.record("create", err)
		return dto.User{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": int64(created.ID),
		"action":  "create_user_success",
	}).Info("user created")
	s.record("create", nil)

	return s.mapper.ToDTO(created), nil
}

func (s *UserService) UpdateUser(ctx context.Context, req dto.UpdateUserRequest) error {
	err := s.updateUser(ctx, req)
	s.record("update", err)
	return err
}

func (s *UserService) updateUser(ctx context.Context, req dto.UpdateUserRequest) error {
	if err := s.validator.Validate(req); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": int64(req.ID),
			"action":  "update_user_validation_failed",
		}).Warnf("update user validation failed: %v", err)
		return err
	}

	existing, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return userNotFound(req.ID)
		}
		return s.storeError(ctx, "update_find", err)
	}

	if err := s.validateAge(req.BirthDate); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": int64(req.ID),
			"action":  "update_user_age_rejected",
		}).Warn(err.Error())
		return err
	}

	if req.Email != existing.Email {
		if err := s.checkEmailAvailable(ctx, req.Email, existing.ID); err != nil {
			return err
		}
	}

	s.mapper.ApplyUpdate(&existing, req)

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return userNotFound(req.ID)
		}
		return s.storeError(ctx, "update", err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": int64(existing.ID),
		"action":  "update_user_success",
	}).Info("user updated")
	return nil
}

func (s *UserService) DeleteUserByID(ctx context.Context, id domain.ID) error {
	err := s.deleteUser(ctx, id)
	s.record("delete", err)
	return err
}

func (s *UserService) deleteUser(ctx context.Context, id domain.ID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": int64(id),
				"action":  "delete_user_not_found",
			}).Warn("delete failed: user not found")
			return userNotFound(id)
		}
		return s.storeError(ctx, "delete_find", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return userNotFound(id)
		}
		return s.storeError(ctx, "delete", err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": int64(id),
		"action":  "delete_user_success",
	}).Info("user deleted")
	return nil
}

// FindUsersByBirthDateRange returns users born within [from, to]. A zero Date
// counts as a missing bound.
func (s *UserService) FindUsersByBirthDateRange(ctx context.Context, from, to dates.Date) (dto.UsersByBirthDateRange, error) {
	if err := ValidateDateRange(from, to); err != nil {
		s.record("range_query", err)
		return dto.UsersByBirthDateRange{}, err
	}

	users, err := s.repo.FindByBirthDateBetween(ctx, from.Time, to.Time)
	if err != nil {
		err = s.storeError(ctx, "range_query", err)
		s.record("range_query", err)
		return dto.UsersByBirthDateRange{}, err
	}

	metrics.UsersReturnedByRangeQuery.Observe(float64(len(users)))
	s.log.WithFields(ctx, logger.Fields{
		"from":   from.String(),
		"to":     to.String(),
		"count":  len(users),
		"action": "range_query_success",
	}).Debug("birth date range query")
	s.record("range_query", nil)

	return dto.UsersByBirthDateRange{Users: mapper.UsersToDTO(s.mapper, users)}, nil
}

// ValidateDateRange requires both bounds and from <= to.
func ValidateDateRange(from, to dates.Date) error {
	if from.IsZero() || to.IsZero() {
		return ErrInvalidDateRange.WithMessage(msgDateRangeMissing)
	}
	if from.After(to.Time) {
		return ErrInvalidDateRange.WithMessage(msgDateRangeOrder)
	}
	return nil
}

func (s *UserService) validateAge(birthDate time.Time) error {
	born := dates.FromTime(birthDate).Time
	if dates.YearsBetween(born, dates.Today(s.clock.Now())) < s.minAge {
		return ErrAgeBelowMinimum.WithMessage(
			fmt.Sprintf("User must be at least %d years old to register.", s.minAge),
		)
	}
	return nil
}

// checkEmailAvailable fails when email belongs to a user other than self.
// Pass 0 as self on create.
func (s *UserService) checkEmailAvailable(ctx context.Context, email string, self domain.ID) error {
	owner, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return nil
	case err != nil:
		return s.storeError(ctx, "find_by_email", err)
	case owner.ID == self:
		return nil
	}

	s.log.WithFields(ctx, logger.Fields{
		"email":  email,
		"action": "email_already_exists",
	}).Warn("email already registered")
	return ErrEmailAlreadyExists
}

// storeError turns a repository failure into a domain error. Unexpected
// failures are logged here with their cause; callers only see the generic message.
func (s *UserService) storeError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrEmailAlreadyExists):
		return ErrEmailAlreadyExists
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, commonerrors.ErrCircuitOpen):
		s.log.WithFields(ctx, logger.Fields{
			"operation": op,
			"action":    "store_unavailable",
		}).Warn("user store unavailable: circuit open")
		return commonerrors.ErrServiceUnavailable.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"operation": op,
		"action":    "store_failed",
	}).Errorf("user store failure: %v", err)
	return commonerrors.ErrInternalError.WithCause(err)
}

func (s *UserService) record(operation string, err error) {
	metrics.UserOperationsTotal.WithLabelValues(operation, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	if de, ok := commonerrors.AsDomainError(err); ok {
		return de.Code()
	}
	return "error"
}
