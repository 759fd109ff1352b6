package ports

import (
	"context"
	"errors"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// Store-level failures. Adapters wrap their native errors into these so the
// services can translate them without knowing the engine.
var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrDuplicateRecord = errors.New("unique constraint violated")
)

// UserRepository defines the persistence contract for user records.
// The store owns id assignment and the CreatedAt/UpdatedAt timestamps, and
// must enforce uniqueness of the normalised email.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Find(ctx context.Context, key domain.LookupKey) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, key domain.LookupKey, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, key domain.LookupKey) (*domain.User, error)
	Ping(ctx context.Context) error
}
