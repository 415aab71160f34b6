package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mhrivnak/nutanix-shim/pkg/models"
)

// NetworkManager is implemented by shim.Networking.
type NetworkManager interface {
	ListSubnets(ctx context.Context) ([]models.SubnetMetadata, error)
}

type NetworkingHandlers struct {
	manager NetworkManager
	logger  *zap.Logger
}

func NewNetworkingHandlers(manager NetworkManager, logger *zap.Logger) *NetworkingHandlers {
	return &NetworkingHandlers{manager: manager, logger: logger}
}

// ListSubnets handles GET /api/v1/networking/list-subnets
func (h *NetworkingHandlers) ListSubnets(c *gin.Context) {
	subnets, err := h.manager.ListSubnets(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, subnets)
}
