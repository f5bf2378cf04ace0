package service

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"todo-backend/internal/auth"
	"todo-backend/internal/repository/sqlite"
)

const testSecret = "test-secret-test-secret-test-secret"

type fixture struct {
	auth   AuthService
	tasks  TaskService
	tokens *auth.TokenCodec
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenCodec(testSecret)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &fixture{
		auth:   NewAuthService(sqlite.NewUserRepository(db), auth.NewBcryptHasher(auth.WithCost(bcrypt.MinCost)), tokens, 0, logger),
		tasks:  NewTaskService(sqlite.NewTaskRepository(db)),
		tokens: tokens,
	}
}
