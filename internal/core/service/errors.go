package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

var (
	errPasswordMismatch = domain.NewError(domain.KindInvalidInput, "passwords do not match")
	errInvalidRole      = domain.NewError(domain.KindInvalidInput, "invalid role")
	errPasswordTooLong  = domain.NewError(domain.KindInvalidInput, "password is too long")
)

// hashError translates a PasswordHasher failure. Oversized input is the
// caller's fault; anything else is Internal.
func hashError(err error) error {
	if errors.Is(err, ports.ErrPasswordTooLong) {
		return errPasswordTooLong
	}
	return domain.Internal(err)
}

// storeError translates a UserRepository failure into the service taxonomy.
// Cancellation is propagated as Internal with the context error as cause.
func storeError(log zerolog.Logger, op string, key string, err error) error {
	switch {
	case errors.Is(err, ports.ErrRecordNotFound):
		log.Warn().Str("op", op).Str("key", key).Msg("user not found")
		return domain.ErrNotFound
	case errors.Is(err, ports.ErrDuplicateRecord):
		log.Warn().Str("op", op).Str("key", key).Msg("user already exists")
		return domain.ErrConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Warn().Err(err).Str("op", op).Msg("store call cancelled")
		return domain.Internal(err)
	}
	log.Error().Err(err).Str("op", op).Msg("store call failed")
	return domain.Internal(err)
}
