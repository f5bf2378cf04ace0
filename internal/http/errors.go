package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"todo-backend/internal/domain"
)

const (
	msgDuplicateEmail     = "Email already registered"
	msgInvalidCredentials = "Invalid email or password"
	msgInvalidToken       = "Invalid authentication token"
	msgForbidden          = "Access forbidden: You can only access your own resources"
	msgUnavailable        = "Service temporarily unavailable"
)

// writeError maps a classified domain error to a status and a generic
// message. Causes are logged, never returned.
func (h *Handler) writeError(c *gin.Context, err error) {
	status, msg := errorResponse(err)

	entry := h.logger.WithError(err).WithFields(logrus.Fields{
		"status":     status,
		"request_id": c.GetString(ctxRequestIDKey),
	})
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}

	if domain.KindOf(err) == domain.KindUnauthenticated {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func errorResponse(err error) (int, string) {
	var de *domain.Error
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, msgUnavailable
	}

	switch de.Kind {
	case domain.KindValidation:
		return http.StatusBadRequest, de.Message
	case domain.KindDuplicateIdentity:
		return http.StatusConflict, msgDuplicateEmail
	case domain.KindInvalidCredentials:
		return http.StatusUnauthorized, msgInvalidCredentials
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized, msgInvalidToken
	case domain.KindForbidden:
		return http.StatusForbidden, msgForbidden
	case domain.KindNotFound:
		switch de.Message {
		case domain.ErrUserNotFound.Message:
			return http.StatusNotFound, "User not found"
		case domain.ErrTaskNotFound.Message:
			return http.StatusNotFound, "Task not found"
		}
		return http.StatusNotFound, "Resource not found"
	}
	return http.StatusInternalServerError, msgUnavailable
}

// writeBindError reports request decoding failures. Validation failures list
// the offending fields and the rule they broke.
func (h *Handler) writeBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "fields": fields})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
}
