package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"todo-backend/internal/service"
)

// Pinger reports database reachability for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options tunes transport behaviour that depends on the deployment.
type Options struct {
	// SecureCookies marks the session cookie Secure (production over HTTPS).
	SecureCookies bool
	// SessionTTL is the session cookie lifetime; it should match the token TTL.
	SessionTTL     time.Duration
	AllowedOrigins []string
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth   service.AuthService
	tasks  service.TaskService
	db     Pinger
	opts   Options
	logger logrus.FieldLogger
}

func NewHandler(authSvc service.AuthService, tasks service.TaskService, db Pinger, opts Options, logger logrus.FieldLogger) *Handler {
	registerValidators()
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		auth:   authSvc,
		tasks:  tasks,
		db:     db,
		opts:   opts,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestIDMiddleware(), requestLogger(h.logger), corsMiddleware(h.opts.AllowedOrigins))

	router.GET("/health", h.health)

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/signup", h.signup)
		authGroup.POST("/signin", h.signin)
		authGroup.POST("/signout", h.signout)
		authGroup.GET("/me", h.authenticate(), h.me)

		tasks := api.Group("/:user_id/tasks", h.authenticate(), h.requireOwner())
		tasks.GET("", h.listTasks)
		tasks.POST("", h.createTask)
		tasks.GET("/:id", h.getTask)
		tasks.PUT("/:id", h.updateTask)
		tasks.DELETE("/:id", h.deleteTask)
		tasks.PATCH("/:id/complete", h.toggleTask)
	}
}

func (h *Handler) health(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.WithError(err).Warn("health check: database unreachable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "disconnected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "connected"})
}
