package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mhrivnak/nutanix-shim/pkg/api/handlers"
	"github.com/mhrivnak/nutanix-shim/pkg/requestid"
)

// corsMiddleware handles Cross-Origin Resource Sharing (CORS)
func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, "+requestid.Header)
		c.Header("Access-Control-Expose-Headers", "Content-Length, "+requestid.Header)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestIDMiddleware stores the request id in the request context and
// echoes it back.
func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := requestid.FromHeader(c.Request.Header)
		c.Request = c.Request.WithContext(requestid.NewContext(c.Request.Context(), id))
		c.Header(requestid.Header, id)
		c.Next()
	}
}

// probes and scrapes, logged at debug
var quietPaths = map[string]bool{
	"/health":        true,
	"/ready":         true,
	"/metrics":       true,
	"/api/v1/health": true,
}

// loggerMiddleware logs every request once it completes, at a level
// derived from the status code.
func (s *Server) loggerMiddleware() gin.HandlerFunc {
	logger := s.logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestid.FromContext(c.Request.Context())),
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("route", c.FullPath()),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.Duration("latency", time.Since(start)),
			zap.Int("response_bytes", c.Writer.Size()),
		}

		msg := "Request completed"
		switch {
		case status >= 500:
			logger.Error(msg, fields...)
		case status >= 400:
			logger.Warn(msg, fields...)
		case quietPaths[c.FullPath()]:
			logger.Debug(msg, fields...)
		default:
			logger.Info(msg, fields...)
		}
	}
}

// errorHandlerMiddleware turns panics into a structured 500
func (s *Server) errorHandlerMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.logger.Error("Recovered from panic",
			zap.String("request_id", requestid.FromContext(c.Request.Context())),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered))

		apiErr := handlers.NewAPIError(http.StatusInternalServerError, "An unexpected error occurred")
		if msg, ok := recovered.(string); ok {
			apiErr.Details = msg
		} else if err, ok := recovered.(error); ok {
			apiErr.Details = err.Error()
		} else {
			apiErr.Details = fmt.Sprint(recovered)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, apiErr)
	})
}
