package ports

import (
	"context"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// CreateUserInput carries an administrative account creation. Role is the
// raw requested role; empty means the default role.
type CreateUserInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
	Image                string
	Role                 string
}

// UpdateUserInput carries a partial update. Nil fields are not changed.
type UpdateUserInput struct {
	Name                 *string
	Email                *string
	Password             *string
	PasswordConfirmation *string
	Image                *string
	Role                 *string
}

// RemoveResult confirms a deletion without echoing the deleted record.
type RemoveResult struct {
	Message string `json:"message"`
}

type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*domain.Profile, error)
	List(ctx context.Context) ([]*domain.Profile, error)
	FindOne(ctx context.Context, actor *domain.Principal, key domain.LookupKey) (*domain.Profile, error)
	Update(ctx context.Context, actor *domain.Principal, key domain.LookupKey, in UpdateUserInput) (*domain.Profile, error)
	Remove(ctx context.Context, actor *domain.Principal, key domain.LookupKey) (*RemoveResult, error)
}
