package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

const userDeletedMessage = "User deleted"

// UserService orchestrates user management. Create and List are gated by
// role at the route; FindOne, Update and Remove also apply the ownership
// policy before touching the store.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	policy OwnershipPolicy
	log    zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, log: log}
}

func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.Profile, error) {
	s.log.Info().Msg("create user started")

	if in.Password != in.PasswordConfirmation {
		return nil, errPasswordMismatch
	}
	role := domain.RoleUser
	if in.Role != "" {
		r, ok := domain.ParseRole(in.Role)
		if !ok {
			return nil, errInvalidRole
		}
		role = r
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
		Role:         role,
	})
	if err != nil {
		return nil, storeError(s.log, "create", email, err)
	}
	return created.Profile(), nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.Profile, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(s.log, "list", "", err)
	}
	out := make([]*domain.Profile, 0, len(users))
	for _, u := range users {
		out = append(out, u.Profile())
	}
	return out, nil
}

func (s *UserService) FindOne(ctx context.Context, actor *domain.Principal, key domain.LookupKey) (*domain.Profile, error) {
	if err := s.policy.Authorize(actor, key); err != nil {
		return nil, err
	}
	user, err := s.repo.Find(ctx, key)
	if err != nil {
		return nil, storeError(s.log, "find", key.String(), err)
	}
	return user.Profile(), nil
}

// Update applies a partial update. A role change by a non-admin is silently
// dropped; a new password must match its confirmation and is re-hashed.
func (s *UserService) Update(ctx context.Context, actor *domain.Principal, key domain.LookupKey, in ports.UpdateUserInput) (*domain.Profile, error) {
	if err := s.policy.Authorize(actor, key); err != nil {
		return nil, err
	}

	patch := domain.UserPatch{Name: in.Name, Image: in.Image}
	if in.Email != nil {
		email := domain.NormalizeEmail(*in.Email)
		patch.Email = &email
	}
	if in.Role != nil && actor.IsAdmin() {
		r, ok := domain.ParseRole(*in.Role)
		if !ok {
			return nil, errInvalidRole
		}
		patch.Role = &r
	}
	patch = s.policy.RestrictPatch(actor, patch)

	if in.Password != nil {
		if in.PasswordConfirmation == nil || *in.Password != *in.PasswordConfirmation {
			return nil, errPasswordMismatch
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, hashError(err)
		}
		patch.PasswordHash = &hash
	}

	var (
		user *domain.User
		err  error
	)
	if patch.Empty() {
		user, err = s.repo.Find(ctx, key)
	} else {
		user, err = s.repo.Update(ctx, key, patch)
	}
	if err != nil {
		return nil, storeError(s.log, "update", key.String(), err)
	}
	return user.Profile(), nil
}

// Remove deletes the addressed record and returns a confirmation only.
func (s *UserService) Remove(ctx context.Context, actor *domain.Principal, key domain.LookupKey) (*ports.RemoveResult, error) {
	if err := s.policy.Authorize(actor, key); err != nil {
		return nil, err
	}
	deleted, err := s.repo.Delete(ctx, key)
	if err != nil {
		return nil, storeError(s.log, "delete", key.String(), err)
	}
	s.log.Warn().Str("user_id", deleted.ID).Str("email", deleted.Email).Msg("user deleted")
	return &ports.RemoveResult{Message: userDeletedMessage}, nil
}
