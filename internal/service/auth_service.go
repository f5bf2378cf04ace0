package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"todo-backend/internal/auth"
	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
)

// AuthService covers the credential lifecycle: signup, signin, signout and
// resolving the identity behind a session token.
type AuthService interface {
	Signup(ctx context.Context, email, password string, name *string) (*domain.User, string, error)
	Signin(ctx context.Context, email, password string) (*domain.User, string, error)
	Signout(ctx context.Context, token string)
	IdentityFromToken(ctx context.Context, token string) (string, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}

type authService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens *auth.TokenCodec
	ttl    time.Duration
	logger logrus.FieldLogger
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenCodec, ttl time.Duration, logger logrus.FieldLogger) AuthService {
	if ttl <= 0 {
		ttl = auth.DefaultTokenTTL
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &authService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		ttl:    ttl,
		logger: logger.WithField("component", "auth"),
		now:    time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, email, password string, name *string) (*domain.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, "", domain.Validation("email is required")
	}
	if strings.TrimSpace(password) == "" {
		return nil, "", domain.Validation("password is required")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, "", domain.Validation("password is too long")
		}
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := domain.NewUser(email, hash, name, s.now())
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			s.logger.WithField("email", email).Info("signup rejected: email already registered")
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, s.ttl)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("user signed up")
	return user.Sanitized(), token, nil
}

func (s *authService) Signin(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", err
		}
		// Burn the same bcrypt work as a real comparison.
		s.hasher.Verify(password, s.placeholderHash())
		s.logger.Debug("signin rejected: unknown email")
		return nil, "", domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.WithField("user_id", user.ID).Debug("signin rejected: wrong password")
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, s.ttl)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user.Sanitized(), token, nil
}

// Signout is stateless: the token stays valid until it expires.
func (s *authService) Signout(_ context.Context, token string) {
	if token == "" {
		return
	}
	if sub, err := s.tokens.Verify(token); err == nil {
		s.logger.WithField("user_id", sub).Info("user signed out")
	}
}

func (s *authService) IdentityFromToken(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthenticated
	}
	sub, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.WithError(err).Debug("token rejected")
		return "", domain.ErrUnauthenticated.WithCause(err)
	}
	return sub, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

func (s *authService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		buf := make([]byte, 16)
		_, _ = rand.Read(buf)
		hash, err := s.hasher.Hash(hex.EncodeToString(buf))
		if err != nil {
			s.logger.WithError(err).Warn("placeholder hash unavailable")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
