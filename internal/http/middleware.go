package http

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"jobboard/internal/domain"
	"jobboard/internal/service"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
	adminKey        = "admin"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := h.log.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
			"request_id": c.GetString(requestIDKey),
		})
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	}
}

// recovery turns a handler panic into the standard JSON error body.
func (h *Handler) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		h.log.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"request_id": c.GetString(requestIDKey),
			"panic":      recovered,
		}).Error("handler panicked")
		abortWithError(c, http.StatusInternalServerError, "internal server error")
	})
}

// requireAuth resolves the bearer token to an active admin and stores it on the context.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortWithError(c, http.StatusUnauthorized, "access token required")
			return
		}

		admin, err := h.auth.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			h.respondError(c, err)
			c.Abort()
			return
		}
		c.Set(adminKey, admin)
		c.Next()
	}
}

func requireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := currentAdmin(c)
		if admin == nil {
			abortWithError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		for _, role := range roles {
			if admin.Role == role {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, service.ErrForbidden.Error())
	}
}

func currentAdmin(c *gin.Context) *domain.Admin {
	v, ok := c.Get(adminKey)
	if !ok {
		return nil
	}
	admin, _ := v.(*domain.Admin)
	return admin
}
