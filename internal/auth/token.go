package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest signing secret accepted at startup.
const MinSecretLength = 32

// DefaultTokenTTL is how long issued session tokens stay valid.
const DefaultTokenTTL = 24 * time.Hour

var (
	ErrWeakSecret   = fmt.Errorf("token: secret must be at least %d characters", MinSecretLength)
	ErrMalformed    = errors.New("token: malformed")
	ErrBadSignature = errors.New("token: bad signature")
	ErrExpired      = errors.New("token: expired")
	ErrMissingClaim = errors.New("token: missing required claim")
)

var signingMethod = jwt.SigningMethodHS256

// TokenCodec issues and verifies HS256 session tokens carrying a subject.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

type TokenOption func(*TokenCodec)

// WithClock replaces the time source used for iat/exp and for validation.
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) { c.now = now }
}

func NewTokenCodec(secret string, opts ...TokenOption) (*TokenCodec, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	c := &TokenCodec{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs a token for subject valid for validity from now.
func (c *TokenCodec) Issue(subject string, validity time.Duration) (string, error) {
	if subject == "" {
		return "", ErrMissingClaim
	}
	now := c.now()
	token := jwt.NewWithClaims(signingMethod, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the subject.
// Failures are one of ErrMalformed, ErrBadSignature, ErrExpired or
// ErrMissingClaim, wrapping the underlying jwt error.
func (c *TokenCodec) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, c.keyFunc,
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", classify(err)
	}
	if claims.Subject == "" {
		return "", ErrMissingClaim
	}
	return claims.Subject, nil
}

func (c *TokenCodec) keyFunc(token *jwt.Token) (any, error) {
	if token.Method.Alg() != signingMethod.Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
	}
	return c.secret, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return fmt.Errorf("%w: %w", ErrMissingClaim, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	}
	return fmt.Errorf("%w: %w", ErrMalformed, err)
}
