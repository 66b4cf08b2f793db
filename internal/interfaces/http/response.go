package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/application/service"
	"github.com/garyjia/proposal-tracker/internal/domain/workflow"
	"github.com/garyjia/proposal-tracker/internal/infrastructure/external/rdapi"
)

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Error: msg})
}

// statusFor maps an error onto an HTTP status and the message shown to
// the client. Backend errors keep the backend's status and message.
func statusFor(err error) (int, string) {
	var apiErr *rdapi.APIError
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSessionExpired):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrNotFound), errors.Is(err, port.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, workflow.ErrInvalidTransition):
		return http.StatusConflict, err.Error()
	case errors.As(err, &apiErr):
		return apiErr.StatusCode, apiErr.Message
	case errors.Is(err, rdapi.ErrNetwork):
		return http.StatusBadGateway, "proposal backend unreachable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// respondError logs err and writes it in the envelope
func (h *Handlers) respondError(c *gin.Context, action string, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "action", action, "path", c.FullPath(), "status", status, "error", err)
	} else {
		h.logger.Info("Request rejected", "action", action, "path", c.FullPath(), "status", status, "error", err)
	}
	fail(c, status, msg)
}
