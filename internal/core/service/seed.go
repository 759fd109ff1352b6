package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

// AdminSeed describes the bootstrap administrator created at startup.
type AdminSeed struct {
	Name     string
	Email    string
	Password string
}

// EnsureAdmin creates the seed administrator unless an account with that
// email already exists. It is a no-op when email or password is empty.
func EnsureAdmin(ctx context.Context, repo ports.UserRepository, hasher ports.PasswordHasher, seed AdminSeed) (bool, error) {
	email := domain.NormalizeEmail(seed.Email)
	if email == "" || seed.Password == "" {
		return false, nil
	}

	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, ports.ErrRecordNotFound) {
		return false, fmt.Errorf("seed admin: %w", err)
	}

	hash, err := hasher.Hash(seed.Password)
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	name := seed.Name
	if name == "" {
		name = "Admin"
	}
	_, err = repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	})
	if errors.Is(err, ports.ErrDuplicateRecord) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	return true, nil
}
