package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mhrivnak/nutanix-shim/pkg/api/handlers"
	"github.com/mhrivnak/nutanix-shim/pkg/config"
	"github.com/mhrivnak/nutanix-shim/pkg/metrics"
)

// Server represents the API server
type Server struct {
	config     *config.Config
	clusters   handlers.ClusterManager
	vms        handlers.VMManager
	networks   handlers.NetworkManager
	logger     *zap.Logger
	router     *gin.Engine
	httpServer *http.Server
}

// NewServer creates a new API server instance
func NewServer(cfg *config.Config, clusters handlers.ClusterManager, vms handlers.VMManager, networks handlers.NetworkManager, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	server := &Server{
		config:   cfg,
		clusters: clusters,
		vms:      vms,
		networks: networks,
		logger:   logger,
	}

	// Configure gin mode based on log level
	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := handlers.RegisterValidators(); err != nil {
		return nil, err
	}

	server.setupRoutes()
	server.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           server.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return server, nil
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router = gin.New()

	// Global middleware
	s.router.Use(s.errorHandlerMiddleware())
	s.router.Use(s.requestIDMiddleware())
	s.router.Use(s.loggerMiddleware())
	s.router.Use(metrics.Middleware())
	s.router.Use(s.corsMiddleware())

	// Health endpoints
	s.router.GET("/health", s.healthHandler)
	s.router.GET("/ready", s.readinessHandler)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))

	clusterHandlers := handlers.NewClusterMgmtHandlers(s.clusters, s.logger)
	networkingHandlers := handlers.NewNetworkingHandlers(s.networks, s.logger)
	vmmHandlers := handlers.NewVMMHandlers(s.vms, s.logger)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/health", s.healthHandler)
		v1.GET("/version", s.versionHandler)

		cm := v1.Group("/clustermgmt")
		cm.GET("/list-clusters", clusterHandlers.ListClusters)
		cm.GET("/list-storage-containers", clusterHandlers.ListStorageContainers)

		net := v1.Group("/networking")
		net.GET("/list-subnets", networkingHandlers.ListSubnets)

		vmm := v1.Group("/vmm")
		vmm.GET("/list-images", vmmHandlers.ListImages)
		vmm.GET("/list-vms", vmmHandlers.ListVMs)
		vmm.POST("/provision-vm", vmmHandlers.ProvisionVM)
		vmm.GET("/vms/:vm_id/power-state", vmmHandlers.GetPowerState)
		vmm.POST("/vms/:vm_id/power-state", vmmHandlers.SetPowerState)
		vmm.DELETE("/vms/:vm_id", vmmHandlers.DeleteVM)
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	address := s.httpServer.Addr

	if s.config.API.TLSCert != "" && s.config.API.TLSKey != "" {
		// Verify TLS certificate and key files exist and are readable
		if _, err := os.Stat(s.config.API.TLSCert); err != nil {
			return fmt.Errorf("TLS certificate file error: %w", err)
		}
		if _, err := os.Stat(s.config.API.TLSKey); err != nil {
			return fmt.Errorf("TLS key file error: %w", err)
		}

		s.logger.Info("Starting HTTPS server", zap.String("address", address))
		return s.httpServer.ListenAndServeTLS(s.config.API.TLSCert, s.config.API.TLSKey)
	}

	s.logger.Info("Starting HTTP server", zap.String("address", address))
	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// GetRouter returns the gin router (useful for testing)
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
