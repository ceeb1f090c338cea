package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AlibekovAA/user-registry/internal/common/clock"
	"github.com/AlibekovAA/user-registry/internal/user/domain"
)

// MemoryRepository keeps users in process memory. It enforces email
// uniqueness the same way the users table does.
type MemoryRepository struct {
	mu      sync.RWMutex
	nextID  domain.ID
	users   map[domain.ID]domain.User
	byEmail map[string]domain.ID
	clock   clock.Clock
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository(c clock.Clock) *MemoryRepository {
	if c == nil {
		c = clock.NewRealClock()
	}
	return &MemoryRepository{
		nextID:  1,
		users:   make(map[domain.ID]domain.User),
		byEmail: make(map[string]domain.ID),
		clock:   c,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return domain.User{}, ErrEmailAlreadyExists
	}

	now := r.clock.Now()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.nextID++

	r.users[user.ID] = user
	r.byEmail[user.Email] = user.ID
	return user, nil
}

func (r *MemoryRepository) Update(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	if owner, taken := r.byEmail[user.Email]; taken && owner != user.ID {
		return ErrEmailAlreadyExists
	}

	delete(r.byEmail, existing.Email)
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = r.clock.Now()
	r.users[user.ID] = user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id domain.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	delete(r.byEmail, existing.Email)
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return r.users[id], nil
}

func (r *MemoryRepository) FindByBirthDateBetween(ctx context.Context, from, to time.Time) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.User, 0)
	for _, user := range r.users {
		if user.BirthDate.Before(from) || user.BirthDate.After(to) {
			continue
		}
		result = append(result, user)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].BirthDate.Equal(result[j].BirthDate) {
			return result[i].BirthDate.Before(result[j].BirthDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}
