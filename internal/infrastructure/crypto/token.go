package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/identity-service/internal/core/ports"
)

// tokenClaims is the wire payload: the subject id plus the issue time.
// No expiry is set; a token stays valid until the signing secret changes.
type tokenClaims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// JWTCodec implements ports.TokenCodec with HS256-signed JWTs.
type JWTCodec struct {
	secret []byte
	parser *jwt.Parser
	now    func() time.Time
}

// CodecOption customises a JWTCodec.
type CodecOption func(*JWTCodec)

// WithClock overrides the issue-time source.
func WithClock(now func() time.Time) CodecOption {
	return func(c *JWTCodec) { c.now = now }
}

// NewJWTCodec returns a codec signing with secret. The secret is loaded once
// at startup; rotating it invalidates every outstanding token.
func NewJWTCodec(secret string, opts ...CodecOption) (*JWTCodec, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	c := &JWTCodec{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *JWTCodec) Issue(claims ports.TokenClaims) (string, error) {
	if claims.ID == "" {
		return "", errors.New("issue token: empty id")
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		ID: claims.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(c.now()),
		},
	})
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

func (c *JWTCodec) Verify(token string) (ports.TokenClaims, error) {
	var tc tokenClaims
	parsed, err := c.parser.ParseWithClaims(token, &tc, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return ports.TokenClaims{}, fmt.Errorf("%w: %v", ports.ErrInvalidToken, err)
	}
	if !parsed.Valid || tc.ID == "" {
		return ports.TokenClaims{}, fmt.Errorf("%w: missing id claim", ports.ErrInvalidToken)
	}
	return ports.TokenClaims{ID: tc.ID}, nil
}
