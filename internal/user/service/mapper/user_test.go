package mapper_test

import (
	"testing"
	"time"

	"github.com/AlibekovAA/user-registry/internal/user/domain"
	"github.com/AlibekovAA/user-registry/internal/user/service/dto"
	"github.com/AlibekovAA/user-registry/internal/user/service/mapper"
)

func TestDefaultUserMapper_ToEntityTruncatesTime(t *testing.T) {
	m := mapper.NewUserMapper()

	user := m.ToEntity(dto.CreateUserRequest{
		Email:     "test@example.com",
		FirstName: "John",
		LastName:  "Doe",
		BirthDate: time.Date(1990, 5, 15, 23, 30, 0, 0, time.UTC),
	})

	if user.ID != 0 {
		t.Errorf("expected no id, got %d", user.ID)
	}
	if !user.BirthDate.Equal(time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected midnight birth date, got %v", user.BirthDate)
	}
}

func TestDefaultUserMapper_ApplyUpdateKeepsIdentity(t *testing.T) {
	m := mapper.NewUserMapper()

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	user := domain.User{ID: 9, Email: "old@example.com", PhoneNumber: "123", CreatedAt: created}

	m.ApplyUpdate(&user, dto.UpdateUserRequest{
		ID:        9,
		Email:     "new@example.com",
		FirstName: "Ann",
		LastName:  "Lee",
		BirthDate: time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	if user.ID != 9 || !user.CreatedAt.Equal(created) {
		t.Errorf("identity changed: %+v", user)
	}
	if user.Email != "new@example.com" || user.PhoneNumber != "" {
		t.Errorf("fields not overwritten: %+v", user)
	}
}

func TestUsersToDTO(t *testing.T) {
	users := []domain.User{
		{ID: 1, Email: "a@example.com", BirthDate: time.Date(1980, 2, 29, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Email: "b@example.com"},
	}

	result := mapper.UsersToDTO(mapper.NewUserMapper(), users)

	if len(result) != 2 {
		t.Fatalf("expected 2 users, got %d", len(result))
	}
	if result[0].BirthDate.String() != "1980-02-29" {
		t.Errorf("unexpected birth date %s", result[0].BirthDate)
	}
	if result[1].ID != 2 {
		t.Errorf("expected id 2, got %d", result[1].ID)
	}
}
