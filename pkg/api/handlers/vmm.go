package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mhrivnak/nutanix-shim/pkg/models"
)

// VMManager is implemented by shim.VirtualMachineMgmt.
type VMManager interface {
	ListImages(ctx context.Context) ([]models.ImageMetadata, error)
	ListVMs(ctx context.Context) ([]models.VmListMetadata, error)
	GetVMPowerState(ctx context.Context, vmID string) (*models.VmPowerStateResponse, error)
	SetVMPowerState(ctx context.Context, vmID string, action models.PowerAction) (*models.VmPowerStateResponse, error)
	ProvisionVM(ctx context.Context, req models.VmProvisionRequest) (*models.VmMetadata, error)
	DeleteVM(ctx context.Context, vmID string) error
}

// VMMHandlers serves the /vmm routes.
type VMMHandlers struct {
	manager VMManager
	logger  *zap.Logger
}

func NewVMMHandlers(manager VMManager, logger *zap.Logger) *VMMHandlers {
	return &VMMHandlers{manager: manager, logger: logger}
}

// ListImages handles GET /api/v1/vmm/list-images
func (h *VMMHandlers) ListImages(c *gin.Context) {
	images, err := h.manager.ListImages(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, images)
}

// ListVMs handles GET /api/v1/vmm/list-vms
func (h *VMMHandlers) ListVMs(c *gin.Context) {
	vms, err := h.manager.ListVMs(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, vms)
}

// ProvisionVM handles POST /api/v1/vmm/provision-vm
func (h *VMMHandlers) ProvisionVM(c *gin.Context) {
	var req models.VmProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	vm, err := h.manager.ProvisionVM(context.WithoutCancel(c.Request.Context()), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, vm)
}

// GetPowerState handles GET /api/v1/vmm/vms/:vm_id/power-state
func (h *VMMHandlers) GetPowerState(c *gin.Context) {
	vmID, ok := vmIDParam(c)
	if !ok {
		return
	}

	state, err := h.manager.GetVMPowerState(context.WithoutCancel(c.Request.Context()), vmID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SetPowerState handles POST /api/v1/vmm/vms/:vm_id/power-state
func (h *VMMHandlers) SetPowerState(c *gin.Context) {
	vmID, ok := vmIDParam(c)
	if !ok {
		return
	}

	var req models.PowerStateChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	state, err := h.manager.SetVMPowerState(context.WithoutCancel(c.Request.Context()), vmID, req.Action)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// DeleteVM handles DELETE /api/v1/vmm/vms/:vm_id
func (h *VMMHandlers) DeleteVM(c *gin.Context) {
	vmID, ok := vmIDParam(c)
	if !ok {
		return
	}

	if err := h.manager.DeleteVM(context.WithoutCancel(c.Request.Context()), vmID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// vmIDParam reads the vm_id path parameter in its canonical hyphenated
// lower-case form, and writes a 400 when it is not a UUID.
func vmIDParam(c *gin.Context) (string, bool) {
	vmID, err := uuid.Parse(c.Param("vm_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewAPIError(http.StatusBadRequest, "Invalid VM ID format", err.Error()))
		return "", false
	}
	return vmID.String(), true
}
