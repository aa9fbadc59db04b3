package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"jobboard/internal/service"
)

type errorResponse struct {
	Error   string               `json:"error"`
	Message string               `json:"message"`
	Fields  []service.FieldError `json:"fields,omitempty"`
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, errorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// respondError maps service errors to HTTP statuses. Unclassified errors are logged and redacted.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "Validation failed",
			Message: verr.Error(),
			Fields:  verr.Fields,
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		writeError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidToken):
		writeError(c, http.StatusForbidden, service.ErrInvalidToken.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAdminExists),
		errors.Is(err, service.ErrIncorrectPassword):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrStorageDisabled):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	default:
		h.log.WithError(err).WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"request_id": c.GetString(requestIDKey),
		}).Error("unhandled error")
		writeError(c, http.StatusInternalServerError, "internal server error")
	}
}
