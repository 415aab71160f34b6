package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mhrivnak/nutanix-shim/pkg/shim"
)

// APIError represents a structured API error response
type APIError struct {
	Code    int    `json:"code"`
	Type    string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewAPIError creates a new API error response
func NewAPIError(code int, message string, details ...string) *APIError {
	apiErr := &APIError{
		Code:    code,
		Type:    http.StatusText(code),
		Message: message,
	}
	if len(details) > 0 {
		apiErr.Details = details[0]
	}
	return apiErr
}

// StatusFor maps an adapter error to the HTTP status returned to callers.
func StatusFor(err error) int {
	var shimErr *shim.Error
	switch {
	case errors.Is(err, shim.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, shim.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shim.ErrRemoteRejected):
		return http.StatusConflict
	case errors.Is(err, shim.ErrInvalidResponse):
		return http.StatusBadGateway
	case errors.Is(err, shim.ErrRemoteUnavailable):
		if errors.As(err, &shimErr) && shimErr.StatusCode() >= 500 {
			return http.StatusBadGateway
		}
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes the error body for err and logs server-side faults.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := StatusFor(err)

	message := "Internal server error"
	var shimErr *shim.Error
	if errors.As(err, &shimErr) {
		message = shimErr.Message()
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	} else {
		logger.Debug("Request rejected",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}

	if status == http.StatusInternalServerError {
		c.JSON(status, NewAPIError(status, message))
		return
	}
	c.JSON(status, NewAPIError(status, message, err.Error()))
}

// respondBindError reports a malformed or invalid request body.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, NewAPIError(http.StatusBadRequest, "Invalid request body", err.Error()))
}
