package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

// AccessGuard resolves a bearer token into a principal and checks it against
// a route's required roles. It is evaluated per request and holds no state.
type AccessGuard struct {
	tokens ports.TokenCodec
	repo   ports.UserRepository
	log    zerolog.Logger
}

func NewAccessGuard(tokens ports.TokenCodec, repo ports.UserRepository, log zerolog.Logger) *AccessGuard {
	return &AccessGuard{tokens: tokens, repo: repo, log: log}
}

// Authenticate verifies token and loads the account it names. A token whose
// account no longer exists is rejected like an invalid one.
func (g *AccessGuard) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	claims, err := g.tokens.Verify(token)
	if err != nil {
		g.log.Debug().Err(err).Msg("token rejected")
		return nil, domain.ErrUnauthenticated
	}

	user, err := g.repo.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ports.ErrRecordNotFound) {
			g.log.Debug().Str("user_id", claims.ID).Msg("token references a missing account")
			return nil, domain.ErrUnauthenticated
		}
		return nil, storeError(g.log, "authenticate", claims.ID, err)
	}
	return user.Principal(), nil
}

// Admit allows any authenticated principal when required is empty, and
// otherwise requires the principal's role to be listed.
func (g *AccessGuard) Admit(principal *domain.Principal, required ...domain.Role) error {
	if principal == nil {
		return domain.ErrUnauthenticated
	}
	if len(required) == 0 {
		return nil
	}
	for _, r := range required {
		if principal.Role == r {
			return nil
		}
	}
	return &domain.Error{
		Kind:    domain.KindForbidden,
		Message: fmt.Sprintf("%s is not authorized for this resource", principal.Email),
	}
}
