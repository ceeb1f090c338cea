package service_test

import (
	"context"
	"time"

	"github.com/AlibekovAA/user-registry/internal/user/domain"
	"github.com/AlibekovAA/user-registry/internal/user/repository"
)

type mockUserRepo struct {
	createFunc                 func(ctx context.Context, user domain.User) (domain.User, error)
	updateFunc                 func(ctx context.Context, user domain.User) error
	deleteFunc                 func(ctx context.Context, id domain.ID) error
	findByIDFunc               func(ctx context.Context, id domain.ID) (domain.User, error)
	findByEmailFunc            func(ctx context.Context, email string) (domain.User, error)
	findByBirthDateBetweenFunc func(ctx context.Context, from, to time.Time) ([]domain.User, error)
}

var _ repository.Repository = (*mockUserRepo)(nil)

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = 1
	return user, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user domain.User) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id domain.ID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (m *mockUserRepo) FindByBirthDateBetween(ctx context.Context, from, to time.Time) ([]domain.User, error) {
	if m.findByBirthDateBetweenFunc != nil {
		return m.findByBirthDateBetweenFunc(ctx, from, to)
	}
	return nil, nil
}
