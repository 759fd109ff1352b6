package service

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
	"github.com/99minutos/identity-service/internal/infrastructure/crypto"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[string]*domain.User // by id
	nextID    int
	createErr error // if set, Create returns this error
	findErr   error // if set, every lookup returns this error
	creates   int
	updates   []domain.UserPatch
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	r.nextID++
	stored := cloneUser(u)
	if stored.ID == "" {
		stored.ID = "u" + strconv.Itoa(r.nextID)
	}
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	r.users[stored.ID] = stored
	return cloneUser(stored)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.creates++
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, fmt.Errorf("insert: %w", ports.ErrDuplicateRecord)
		}
	}
	return r.seed(user), nil
}

func (r *stubUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.Find(ctx, domain.LookupByID(id))
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.Find(ctx, domain.LookupByEmail(email))
}

func (r *stubUserRepo) Find(_ context.Context, key domain.LookupKey) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u := r.lookup(key)
	if u == nil {
		return nil, ports.ErrRecordNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, key domain.LookupKey, patch domain.UserPatch) (*domain.User, error) {
	r.updates = append(r.updates, patch)
	u := r.lookup(key)
	if u == nil {
		return nil, ports.ErrRecordNotFound
	}
	if patch.Email != nil {
		for _, other := range r.users {
			if other.ID != u.ID && other.Email == *patch.Email {
				return nil, ports.ErrDuplicateRecord
			}
		}
		u.Email = *patch.Email
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
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, key domain.LookupKey) (*domain.User, error) {
	u := r.lookup(key)
	if u == nil {
		return nil, ports.ErrRecordNotFound
	}
	delete(r.users, u.ID)
	return cloneUser(u), nil
}

func (r *stubUserRepo) Ping(context.Context) error { return nil }

func (r *stubUserRepo) lookup(key domain.LookupKey) *domain.User {
	for _, u := range r.users {
		if (key.Field == domain.FieldID && u.ID == key.Value) ||
			(key.Field == domain.FieldEmail && u.Email == key.Value) {
			return u
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newHasher() *crypto.BcryptHasher {
	return crypto.NewBcryptHasher(bcrypt.MinCost)
}

func newCodec(t *testing.T) *crypto.JWTCodec {
	t.Helper()
	c, err := crypto.NewJWTCodec("secret")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return c
}

func strPtr(s string) *string { return &s }

// countingHasher records Verify calls made through a real hasher.
type countingHasher struct {
	ports.PasswordHasher
	verifies []string // digests passed to Verify
}

func (h *countingHasher) Verify(plaintext, digest string) bool {
	h.verifies = append(h.verifies, digest)
	return h.PasswordHasher.Verify(plaintext, digest)
}
