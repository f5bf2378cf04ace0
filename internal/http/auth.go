package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"todo-backend/internal/auth"
)

const (
	sessionCookie = "token"
	ctxUserIDKey  = "auth.user_id"
)

type signupRequest struct {
	Email    string  `json:"email" binding:"required,email,max=255"`
	Password string  `json:"password" binding:"required,notblank,min=8,max=72"`
	Name     *string `json:"name" binding:"omitempty,max=255"`
}

type signinRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	user, token, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, userToResponse(user))
}

func (h *Handler) signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	user, token, err := h.auth.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) signout(c *gin.Context) {
	h.auth.Signout(c.Request.Context(), bearerToken(c))
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out successfully"})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), c.GetString(ctxUserIDKey))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

// authenticate resolves the session token to a user id and stores it on the
// context. Any failure ends the request as unauthenticated.
func (h *Handler) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := h.auth.IdentityFromToken(c.Request.Context(), bearerToken(c))
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.Set(ctxUserIDKey, id)
		c.Next()
	}
}

// requireOwner rejects requests whose :user_id differs from the caller.
func (h *Handler) requireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := c.GetString(ctxUserIDKey)
		if err := auth.CheckOwner(c.Param("user_id"), identity); err != nil {
			h.logger.WithFields(logrus.Fields{
				"user_id":    identity,
				"path_owner": c.Param("user_id"),
			}).Warn("cross-user access denied")
			h.writeError(c, err)
			return
		}
		c.Next()
	}
}

// bearerToken prefers the Authorization header over the session cookie.
func bearerToken(c *gin.Context) string {
	if scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " "); ok && strings.EqualFold(scheme, "Bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}
	if token, err := c.Cookie(sessionCookie); err == nil {
		return token
	}
	return ""
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(h.opts.SessionTTL.Seconds()), "/", "", h.opts.SecureCookies, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", h.opts.SecureCookies, true)
}
