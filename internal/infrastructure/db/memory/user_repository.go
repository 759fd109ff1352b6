// Package memory holds an in-process UserRepository for local development
// and HTTP-level tests. Data does not survive a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string // email -> id
	now     func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return nil, fmt.Errorf("insert user %s: %w", user.Email, ports.ErrDuplicateRecord)
	}
	now := r.now()
	stored := *user
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = stored.ID
	return clone(&stored), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.Find(ctx, domain.LookupByID(id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.Find(ctx, domain.LookupByEmail(email))
}

func (r *UserRepository) Find(ctx context.Context, key domain.LookupKey) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.lookup(key)
	if !ok {
		return nil, fmt.Errorf("find user %s: %w", key, ports.ErrRecordNotFound)
	}
	return clone(u), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, clone(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, key domain.LookupKey, patch domain.UserPatch) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.lookup(key)
	if !ok {
		return nil, fmt.Errorf("update user %s: %w", key, ports.ErrRecordNotFound)
	}
	if patch.Email != nil && *patch.Email != u.Email {
		if _, taken := r.byEmail[*patch.Email]; taken {
			return nil, fmt.Errorf("update user %s: %w", key, ports.ErrDuplicateRecord)
		}
		delete(r.byEmail, u.Email)
		u.Email = *patch.Email
		r.byEmail[u.Email] = u.ID
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.Image != nil {
		u.Image = *patch.Image
	}
	u.UpdatedAt = r.now()
	return clone(u), nil
}

func (r *UserRepository) Delete(ctx context.Context, key domain.LookupKey) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.lookup(key)
	if !ok {
		return nil, fmt.Errorf("delete user %s: %w", key, ports.ErrRecordNotFound)
	}
	delete(r.byID, u.ID)
	delete(r.byEmail, u.Email)
	return clone(u), nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// lookup must be called with mu held.
func (r *UserRepository) lookup(key domain.LookupKey) (*domain.User, bool) {
	id := key.Value
	if key.Field == domain.FieldEmail {
		var ok bool
		if id, ok = r.byEmail[key.Value]; !ok {
			return nil, false
		}
	}
	u, ok := r.byID[id]
	return u, ok
}

func clone(u *domain.User) *domain.User {
	c := *u
	return &c
}

var _ ports.UserRepository = (*UserRepository)(nil)
