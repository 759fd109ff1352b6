package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

// AuthService implements registration, login and token refresh. It keeps no
// state between calls.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenCodec
	log    zerolog.Logger

	decoyOnce sync.Once
	decoy     string
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenCodec, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, log: log}
}

// Register creates an account with the default role and returns it with a
// token. The store is not touched when the confirmation does not match.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	s.log.Info().Msg("register user started")

	if in.Password != in.PasswordConfirmation {
		return nil, errPasswordMismatch
	}

	email := domain.NormalizeEmail(in.Email)
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, hashError(err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        email,
		PasswordHash: hash,
		Image:        in.Image,
		Role:         domain.RoleUser,
	})
	if err != nil {
		return nil, storeError(s.log, "register", email, err)
	}

	return s.issue(created.Principal())
}

// Login authenticates by email and password. An unknown email and a wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	s.log.Info().Str("email", email).Msg("login started")

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrRecordNotFound) {
			s.verifyDecoy(password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, storeError(s.log, "login", email, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	s.log.Info().Str("email", user.Email).Msg("login accepted")
	return s.issue(user.Principal())
}

// Refresh re-issues a token for a principal already resolved by the access
// guard. Credentials are not checked again.
func (s *AuthService) Refresh(_ context.Context, principal *domain.Principal) (*ports.AuthResult, error) {
	if principal == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.issue(principal)
}

func (s *AuthService) issue(p *domain.Principal) (*ports.AuthResult, error) {
	token, err := s.tokens.Issue(ports.TokenClaims{ID: p.ID})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", p.ID).Msg("issue token failed")
		return nil, domain.Internal(err)
	}
	return &ports.AuthResult{User: p, Token: token}, nil
}

// verifyDecoy runs one verification against a throwaway digest so a login
// for an unknown email costs as much as one with a wrong password.
func (s *AuthService) verifyDecoy(password string) {
	s.decoyOnce.Do(func() {
		s.decoy, _ = s.hasher.Hash("decoy-credential")
	})
	s.hasher.Verify(password, s.decoy)
}
