package ports

import (
	"context"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// RegisterInput carries a self-service registration.
type RegisterInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
	Image                string
}

// AuthResult pairs an authenticated principal with a fresh token.
type AuthResult struct {
	User  *domain.Principal `json:"user"`
	Token string            `json:"token"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, principal *domain.Principal) (*AuthResult, error)
}

// AccessGuard resolves the calling principal from a bearer token and admits
// it against a route's required roles.
type AccessGuard interface {
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
	Admit(principal *domain.Principal, required ...domain.Role) error
}
