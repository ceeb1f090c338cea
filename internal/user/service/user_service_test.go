package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/AlibekovAA/user-registry/internal/common/clock"
	"github.com/AlibekovAA/user-registry/internal/common/dates"
	commonerrors "github.com/AlibekovAA/user-registry/internal/common/errors"
	"github.com/AlibekovAA/user-registry/internal/common/logger"
	"github.com/AlibekovAA/user-registry/internal/user/domain"
	"github.com/AlibekovAA/user-registry/internal/user/repository"
	"github.com/AlibekovAA/user-registry/internal/user/service"
	"github.com/AlibekovAA/user-registry/internal/user/service/dto"
)

func setupUserService(t *testing.T) (*service.UserService, *mockUserRepo, *clock.MockClock) {
	t.Helper()

	repo := &mockUserRepo{}
	mockClock := clock.NewMockClock(testNow)
	log, _ := logger.New("", "test", "info")

	svc := service.NewUserService(
		service.UserServiceDeps{
			Repo:  repo,
			Clock: mockClock,
			Log:   log,
		},
		service.UserServiceConfig{MinAge: 18},
	)
	return svc, repo, mockClock
}

func storedUser(id domain.ID, email string) domain.User {
	return domain.User{
		ID:        id,
		Email:     email,
		FirstName: "Jane",
		LastName:  "Roe",
		BirthDate: time.Date(1985, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func updateRequest(id domain.ID, email string) dto.UpdateUserRequest {
	return dto.UpdateUserRequest{
		ID:        id,
		Email:     email,
		FirstName: "John",
		LastName:  "Doe",
		BirthDate: time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC),
		Address:   "1 Main St",
	}
}

func TestUserService_CreateUser_Success(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	var saved domain.User
	repo.createFunc = func(ctx context.Context, user domain.User) (domain.User, error) {
		saved = user
		user.ID = 42
		return user, nil
	}

	req := validCreateRequest()
	req.PhoneNumber = "+1-555-0100"

	result, err := svc.CreateUser(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if saved.Email != req.Email || saved.FirstName != req.FirstName || saved.LastName != req.LastName {
		t.Errorf("unexpected persisted user: %+v", saved)
	}
	if saved.PhoneNumber != req.PhoneNumber {
		t.Errorf("expected phone %s, got %s", req.PhoneNumber, saved.PhoneNumber)
	}
	if !saved.BirthDate.Equal(dates.New(1990, time.May, 15).Time) {
		t.Errorf("expected birth date 1990-05-15, got %v", saved.BirthDate)
	}
	if result.ID != 42 {
		t.Errorf("expected id 42, got %d", result.ID)
	}
	if result.BirthDate.String() != "1990-05-15" {
		t.Errorf("expected birth date 1990-05-15, got %s", result.BirthDate)
	}
}

func TestUserService_CreateUser_ValidationError(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	repo.createFunc = func(ctx context.Context, user domain.User) (domain.User, error) {
		t.Fatal("store must not be called for an invalid request")
		return domain.User{}, nil
	}

	req := validCreateRequest()
	req.Email = "invalidemail"

	_, err := svc.CreateUser(context.Background(), req)

	vErr, ok := service.AsValidationError(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.Violations) != 1 || vErr.Violations[0].Message != "Invalid email" {
		t.Errorf("expected single 'Invalid email' violation, got %v", vErr.Violations)
	}
}

func TestUserService_CreateUser_AgeBelowMinimum(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	repo.findByEmailFunc = func(ctx context.Context, email string) (domain.User, error) {
		t.Fatal("email check must run after the age check")
		return domain.User{}, nil
	}

	testCases := []struct {
		name      string
		birthDate time.Time
		wantErr   bool
	}{
		{"one day short of 18", time.Date(2006, 6, 2, 0, 0, 0, 0, time.UTC), true},
		{"turns 18 today", time.Date(2006, 6, 1, 0, 0, 0, 0, time.UTC), false},
		{"ten years old", time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.wantErr {
				repo.findByEmailFunc = nil
			}

			req := validCreateRequest()
			req.BirthDate = tc.birthDate

			_, err := svc.CreateUser(context.Background(), req)
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			if !errors.Is(err, service.ErrAgeBelowMinimum) {
				t.Fatalf("expected ErrAgeBelowMinimum, got %v", err)
			}
			if de, ok := commonerrors.AsDomainError(err); !ok || de.Message() != "User must be at least 18 years old to register." {
				t.Errorf("unexpected message: %v", err)
			}
		})
	}
}

func TestUserService_CreateUser_MinAgeIsConfigurable(t *testing.T) {
	repo := &mockUserRepo{}
	svc := service.NewUserService(
		service.UserServiceDeps{Repo: repo, Clock: clock.NewMockClock(testNow)},
		service.UserServiceConfig{MinAge: 40},
	)

	_, err := svc.CreateUser(context.Background(), validCreateRequest())

	if !errors.Is(err, service.ErrAgeBelowMinimum) {
		t.Fatalf("expected ErrAgeBelowMinimum, got %v", err)
	}
	if !strings.Contains(err.Error(), "at least 40 years") {
		t.Errorf("expected configured age in message, got %q", err.Error())
	}
}

func TestUserService_CreateUser_EmailAlreadyExists(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	repo.findByEmailFunc = func(ctx context.Context, email string) (domain.User, error) {
		return storedUser(7, email), nil
	}
	repo.createFunc = func(ctx context.Context, user domain.User) (domain.User, error) {
		t.Fatal("store insert must not run for a duplicate email")
		return domain.User{}, nil
	}

	_, err := svc.CreateUser(context.Background(), validCreateRequest())

	if !errors.Is(err, service.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestUserService_CreateUser_StoreUniqueViolation(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	repo.createFunc = func(ctx context.Context, user domain.User) (domain.User, error) {
		return domain.User{}, repository.ErrEmailAlreadyExists
	}

	_, err := svc.CreateUser(context.Background(), validCreateRequest())

	if !errors.Is(err, service.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestUserService_CreateUser_StoreFailure(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	dbErr := errors.New("connection reset")
	repo.createFunc = func(ctx context.Context, user domain.User) (domain.User, error) {
		return domain.User{}, dbErr
	}

	_, err := svc.CreateUser(context.Background(), validCreateRequest())

	if !errors.Is(err, commonerrors.ErrInternalError) {
		t.Fatalf("expected ErrInternalError, got %v", err)
	}
	if !errors.Is(err, dbErr) {
		t.Error("expected cause to be preserved")
	}
	de, _ := commonerrors.AsDomainError(err)
	if strings.Contains(de.Message(), "connection reset") {
		t.Error("internal details must not leak into the message")
	}
}

func TestUserService_CreateUser_CircuitOpen(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	repo.findByEmailFunc = func(ctx context.Context, email string) (domain.User, error) {
		return domain.User{}, commonerrors.ErrCircuitOpen
	}

	_, err := svc.CreateUser(context.Background(), validCreateRequest())

	if !errors.Is(err, commonerrors.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestUserService_UpdateUser_Success(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	existing := storedUser(5, "old@example.com")
	existing.CreatedAt = testNow.Add(-time.Hour)

	repo.findByIDFunc = func(ctx context.Context, id domain.ID) (domain.User, error) {
		return existing, nil
	}

	var updated domain.User
	repo.updateFunc = func(ctx context.Context, user domain.User) error {
		updated = user
		return nil
	}

	req := updateRequest(5, "new@example.com")
	if err := svc.UpdateUser(context.Background(), req); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if updated.ID != 5 {
		t.Errorf("expected id 5, got %d", updated.ID)
	}
	if updated.Email != "new@example.com" || updated.FirstName != "John" || updated.Address != "1 Main St" {
		t.Errorf("fields not overwritten: %+v", updated)
	}
	if updated.PhoneNumber != "" {
		t.Errorf("expected phone cleared, got %q", updated.PhoneNumber)
	}
	if !updated.CreatedAt.Equal(existing.CreatedAt) {
		t.Error("expected created_at to be kept")
	}
}

func TestUserService_UpdateUser_NotFound(t *testing.T) {
	svc, _, _ := setupUserService(t)

	err := svc.UpdateUser(context.Background(), updateRequest(99, "john@example.com"))

	if !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "User with id: 99 not found") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestUserService_UpdateUser_KeepOwnEmail(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	repo.findByIDFunc = func(ctx context.Context, id domain.ID) (domain.User, error) {
		return storedUser(id, "john@example.com"), nil
	}
	repo.findByEmailFunc = func(ctx context.Context, email string) (domain.User, error) {
		t.Fatal("unchanged email must not be checked")
		return domain.User{}, nil
	}

	if err := svc.UpdateUser(context.Background(), updateRequest(3, "john@example.com")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestUserService_UpdateUser_EmailTakenByAnotherUser(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	repo.findByIDFunc = func(ctx context.Context, id domain.ID) (domain.User, error) {
		return storedUser(id, "old@example.com"), nil
	}
	repo.findByEmailFunc = func(ctx context.Context, email string) (domain.User, error) {
		return storedUser(8, email), nil
	}
	repo.updateFunc = func(ctx context.Context, user domain.User) error {
		t.Fatal("update must not run when the email is taken")
		return nil
	}

	err := svc.UpdateUser(context.Background(), updateRequest(3, "taken@example.com"))

	if !errors.Is(err, service.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestUserService_UpdateUser_EmailOwnedBySelf(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	repo.findByIDFunc = func(ctx context.Context, id domain.ID) (domain.User, error) {
		return storedUser(id, "Old@Example.com"), nil
	}
	repo.findByEmailFunc = func(ctx context.Context, email string) (domain.User, error) {
		return storedUser(3, email), nil
	}

	if err := svc.UpdateUser(context.Background(), updateRequest(3, "old@example.com")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestUserService_UpdateUser_AgeBelowMinimum(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	repo.findByIDFunc = func(ctx context.Context, id domain.ID) (domain.User, error) {
		return storedUser(id, "john@example.com"), nil
	}

	req := updateRequest(3, "john@example.com")
	req.BirthDate = time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)

	err := svc.UpdateUser(context.Background(), req)

	if !errors.Is(err, service.ErrAgeBelowMinimum) {
		t.Fatalf("expected ErrAgeBelowMinimum, got %v", err)
	}
}

func TestUserService_UpdateUser_MissingID(t *testing.T) {
	svc, _, _ := setupUserService(t)

	err := svc.UpdateUser(context.Background(), updateRequest(0, "john@example.com"))

	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err.Error() != "Id cannot be null" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestUserService_DeleteUserByID_Success(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	repo.findByIDFunc = func(ctx context.Context, id domain.ID) (domain.User, error) {
		return storedUser(id, "john@example.com"), nil
	}

	var deleted domain.ID
	repo.deleteFunc = func(ctx context.Context, id domain.ID) error {
		deleted = id
		return nil
	}

	if err := svc.DeleteUserByID(context.Background(), 4); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deleted != 4 {
		t.Errorf("expected id 4 deleted, got %d", deleted)
	}
}

func TestUserService_DeleteUserByID_NotFound(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	repo.deleteFunc = func(ctx context.Context, id domain.ID) error {
		t.Fatal("delete must not run for an unknown id")
		return nil
	}

	err := svc.DeleteUserByID(context.Background(), 1)

	if !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "User with id: 1 not found") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestUserService_FindUsersByBirthDateRange(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	from := dates.New(1980, time.January, 1)
	to := dates.New(1990, time.December, 31)

	repo.findByBirthDateBetweenFunc = func(ctx context.Context, f, tt time.Time) ([]domain.User, error) {
		if !f.Equal(from.Time) || !tt.Equal(to.Time) {
			t.Errorf("unexpected bounds %v..%v", f, tt)
		}
		return []domain.User{storedUser(1, "a@example.com"), storedUser(2, "b@example.com")}, nil
	}

	result, err := svc.FindUsersByBirthDateRange(context.Background(), from, to)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(result.Users))
	}
	if result.Users[1].Email != "b@example.com" {
		t.Errorf("unexpected user: %+v", result.Users[1])
	}
}

func TestUserService_FindUsersByBirthDateRange_EmptyResult(t *testing.T) {
	svc, _, _ := setupUserService(t)

	day := dates.New(2000, time.January, 1)
	result, err := svc.FindUsersByBirthDateRange(context.Background(), day, day)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Users == nil || len(result.Users) != 0 {
		t.Errorf("expected empty non-nil list, got %v", result.Users)
	}
}

func TestUserService_FindUsersByBirthDateRange_InvalidRange(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	repo.findByBirthDateBetweenFunc = func(ctx context.Context, from, to time.Time) ([]domain.User, error) {
		t.Fatal("store must not be queried for an invalid range")
		return nil, nil
	}

	testCases := []struct {
		name    string
		from    dates.Date
		to      dates.Date
		message string
	}{
		{"missing from", dates.Date{}, dates.New(2000, 1, 1), "Both 'from' and 'to' dates must be provided."},
		{"missing to", dates.New(2000, 1, 1), dates.Date{}, "Both 'from' and 'to' dates must be provided."},
		{"missing both", dates.Date{}, dates.Date{}, "Both 'from' and 'to' dates must be provided."},
		{"from after to", dates.New(2000, 1, 2), dates.New(2000, 1, 1), "'From' date must not be after 'To' date."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.FindUsersByBirthDateRange(context.Background(), tc.from, tc.to)
			if !errors.Is(err, service.ErrInvalidDateRange) {
				t.Fatalf("expected ErrInvalidDateRange, got %v", err)
			}
			if err.Error() != tc.message {
				t.Errorf("expected %q, got %q", tc.message, err.Error())
			}
		})
	}
}
