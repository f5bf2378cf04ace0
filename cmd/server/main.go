package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"todo-backend/internal/auth"
	"todo-backend/internal/config"
	apphttp "todo-backend/internal/http"
	"todo-backend/internal/repository"
	"todo-backend/internal/repository/postgres"
	"todo-backend/internal/repository/sqlite"
	"todo-backend/internal/service"
)

type store struct {
	db    *sql.DB
	users repository.UserRepository
	tasks repository.TaskRepository
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer st.db.Close()

	tokens, err := auth.NewTokenCodec(cfg.Auth.Secret)
	if err != nil {
		logger.Fatalf("token codec: %v", err)
	}

	authService := service.NewAuthService(st.users, auth.NewBcryptHasher(), tokens, cfg.TokenTTL(), logger)
	taskService := service.NewTaskService(st.tasks)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(authService, taskService, st.db, apphttp.Options{
		SecureCookies:  cfg.IsProduction(),
		SessionTTL:     cfg.TokenTTL(),
		AllowedOrigins: cfg.CORS.Origins,
	}, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s (%s)", cfg.Server.Addr, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

// openStore connects to the configured backend and applies pending migrations.
func openStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*store, error) {
	driver, dsn, err := cfg.DatabaseDriver()
	if err != nil {
		return nil, err
	}

	switch driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		logger.Infof("using sqlite database %s", dsn)
		return &store{db: db, users: sqlite.NewUserRepository(db), tasks: sqlite.NewTaskRepository(db)}, nil
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		logger.Info("using postgres database")
		return &store{db: db, users: postgres.NewUserRepository(db), tasks: postgres.NewTaskRepository(db)}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}
