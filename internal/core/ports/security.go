package ports

import "errors"

// ErrInvalidToken is returned by a TokenCodec for malformed tokens, signature
// mismatches and unsupported algorithms.
var ErrInvalidToken = errors.New("invalid token")

// ErrPasswordTooLong is returned by a PasswordHasher for input beyond what
// the algorithm accepts.
var ErrPasswordTooLong = errors.New("password too long")

// PasswordHasher performs one-way adaptive hashing of credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify never fails on a malformed digest; it reports false instead.
	Verify(plaintext, digest string) bool
}

// TokenClaims is the signed payload of a session token.
type TokenClaims struct {
	ID string
}

// TokenCodec issues and verifies stateless session tokens.
type TokenCodec interface {
	Issue(claims TokenClaims) (string, error)
	Verify(token string) (TokenClaims, error)
}
