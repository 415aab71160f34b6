package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mhrivnak/nutanix-shim/pkg/models"
)

// ClusterManager is implemented by shim.ClusterMgmt.
type ClusterManager interface {
	ListClusters(ctx context.Context) ([]models.ClusterMetadata, error)
	ListStorageContainers(ctx context.Context) ([]models.StorageContainerMetadata, error)
}

// ClusterMgmtHandlers serves the /clustermgmt routes.
type ClusterMgmtHandlers struct {
	manager ClusterManager
	logger  *zap.Logger
}

func NewClusterMgmtHandlers(manager ClusterManager, logger *zap.Logger) *ClusterMgmtHandlers {
	return &ClusterMgmtHandlers{manager: manager, logger: logger}
}

// ListClusters handles GET /api/v1/clustermgmt/list-clusters
func (h *ClusterMgmtHandlers) ListClusters(c *gin.Context) {
	clusters, err := h.manager.ListClusters(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, clusters)
}

// ListStorageContainers handles GET /api/v1/clustermgmt/list-storage-containers
func (h *ClusterMgmtHandlers) ListStorageContainers(c *gin.Context) {
	containers, err := h.manager.ListStorageContainers(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, containers)
}
