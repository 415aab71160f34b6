package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mhrivnak/nutanix-shim/pkg/version"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Ready     bool              `json:"ready"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   version.Get().Version,
	})
}

// readinessHandler reports whether every adapter was constructed. It does
// not contact Prism Central.
func (s *Server) readinessHandler(c *gin.Context) {
	services := map[string]string{
		"clustermgmt": readyString(s.clusters != nil),
		"vmm":         readyString(s.vms != nil),
		"networking":  readyString(s.networks != nil),
	}
	allReady := s.clusters != nil && s.vms != nil && s.networks != nil

	response := ReadinessResponse{
		Ready:     allReady,
		Timestamp: time.Now(),
		Services:  services,
	}
	if !allReady {
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}

func readyString(ok bool) string {
	if ok {
		return "ready"
	}
	return "not ready"
}

func (s *Server) versionHandler(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}
