package shim

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mhrivnak/nutanix-shim/pkg/metrics"
	"github.com/mhrivnak/nutanix-shim/pkg/models"
	"github.com/mhrivnak/nutanix-shim/pkg/nutanix"
)

// VirtualMachineMgmt is the VM and image adapter.
type VirtualMachineMgmt struct {
	client    *nutanix.APIClient
	imagesAPI *nutanix.ImagesAPI
	vmAPI     *nutanix.VMAPI
	logger    *zap.Logger
}

func NewVirtualMachineMgmt(conn *nutanix.Configuration, logger *zap.Logger) (*VirtualMachineMgmt, error) {
	client, err := nutanix.NewAPIClient(conn)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VirtualMachineMgmt{
		client:    client,
		imagesAPI: nutanix.NewImagesAPI(client),
		vmAPI:     nutanix.NewVMAPI(client),
		logger:    logger.Named("vmm"),
	}, nil
}

func (v *VirtualMachineMgmt) ListImages(ctx context.Context) ([]models.ImageMetadata, error) {
	const op = "list images"
	images, err := v.imagesAPI.ListImages(ctx, nutanix.ListOptions{Limit: pageSize})
	if err != nil {
		return nil, classify(op, "", err)
	}
	out, err := project(v.logger, "image", images, models.ImageFromNutanix)
	return out, classify(op, "", err)
}

func (v *VirtualMachineMgmt) ListVMs(ctx context.Context) ([]models.VmListMetadata, error) {
	const op = "list vms"
	vms, err := v.vmAPI.ListVMs(ctx, nutanix.ListOptions{Limit: pageSize})
	if err != nil {
		return nil, classify(op, "", err)
	}
	out, err := project(v.logger, "vm", vms, models.VMListFromNutanix)
	return out, classify(op, "", err)
}

// GetVMPowerState reads the current power state of one VM.
func (v *VirtualMachineMgmt) GetVMPowerState(ctx context.Context, vmID string) (*models.VmPowerStateResponse, error) {
	const op = "get vm power state"
	vmID, err := canonicalVMID(op, vmID)
	if err != nil {
		return nil, err
	}
	vm, _, err := v.vmAPI.GetVM(ctx, vmID)
	if err != nil {
		return nil, classify(op, vmID, err)
	}
	return v.powerState(op, vmID, vm)
}

// SetVMPowerState issues action against the VM and then reads the state
// back. The returned state is whatever Prism Central reports after the
// action, which may still be the previous one.
func (v *VirtualMachineMgmt) SetVMPowerState(ctx context.Context, vmID string, action models.PowerAction) (*models.VmPowerStateResponse, error) {
	const op = "set vm power state"
	if !action.Valid() {
		return nil, invalidArgument(op, vmID, &models.UnknownPowerActionError{Action: string(action)})
	}
	vmID, err := canonicalVMID(op, vmID)
	if err != nil {
		return nil, err
	}

	_, etag, err := v.vmAPI.GetVM(ctx, vmID)
	if err != nil {
		return nil, classify(op, vmID, err)
	}

	var task *nutanix.TaskReference
	switch action {
	case models.PowerOn:
		task, err = v.vmAPI.PowerOn(ctx, vmID, etag)
	case models.PowerOff:
		task, err = v.vmAPI.PowerOff(ctx, vmID, etag)
	case models.Shutdown:
		task, err = v.vmAPI.GuestShutdown(ctx, vmID, etag)
	case models.Reboot:
		task, err = v.vmAPI.Reboot(ctx, vmID, etag)
	case models.Reset:
		task, err = v.vmAPI.Reset(ctx, vmID, etag)
	}
	if err != nil {
		return nil, classify(op, vmID, err)
	}
	v.logger.Info("Submitted power action",
		zap.String("vm_id", vmID),
		zap.String("action", string(action)),
		zap.String("task_id", taskID(task)))

	vm, _, err := v.vmAPI.GetVM(ctx, vmID)
	if err != nil {
		return nil, classify(op, vmID, err)
	}
	return v.powerState(op, vmID, vm)
}

// ProvisionVM creates a VM with one NIC and one empty disk. The returned
// ext_id is the id of the creation task Prism Central started.
func (v *VirtualMachineMgmt) ProvisionVM(ctx context.Context, req models.VmProvisionRequest) (*models.VmMetadata, error) {
	const op = "provision vm"
	task, err := v.vmAPI.CreateVM(ctx, req.ToNutanixSpec())
	if err != nil {
		return nil, classify(op, req.Name, err)
	}
	if task == nil || task.ExtID == nil || *task.ExtID == "" {
		metrics.IncProjectionFailure("task")
		return nil, &Error{Kind: ErrInvalidResponse, Op: op, ResourceID: req.Name}
	}
	v.logger.Info("Submitted VM creation",
		zap.String("name", req.Name),
		zap.String("task_id", *task.ExtID))
	out := models.NewVmMetadata(req, *task.ExtID)
	return &out, nil
}

// DeleteVM removes a VM. Prism Central refuses to delete a VM that is
// powered on.
func (v *VirtualMachineMgmt) DeleteVM(ctx context.Context, vmID string) error {
	const op = "delete vm"
	vmID, err := canonicalVMID(op, vmID)
	if err != nil {
		return err
	}
	_, etag, err := v.vmAPI.GetVM(ctx, vmID)
	if err != nil {
		return classify(op, vmID, err)
	}
	task, err := v.vmAPI.DeleteVM(ctx, vmID, etag)
	if err != nil {
		return classify(op, vmID, err)
	}
	v.logger.Info("Submitted VM deletion",
		zap.String("vm_id", vmID),
		zap.String("task_id", taskID(task)))
	return nil
}

func (v *VirtualMachineMgmt) powerState(op, vmID string, vm *nutanix.VM) (*models.VmPowerStateResponse, error) {
	out, err := models.PowerStateFromNutanix(*vm)
	if err != nil {
		metrics.IncProjectionFailure("vm")
		v.logger.Error("Failed to project Nutanix object",
			zap.String("entity", "vm"),
			zap.String("vm_id", vmID),
			zap.Error(err))
		return nil, classify(op, vmID, err)
	}
	return &out, nil
}

// canonicalVMID returns vmID in the hyphenated lower-case form Prism
// Central uses in paths. Braced, urn and unhyphenated forms are accepted.
func canonicalVMID(op, vmID string) (string, error) {
	id, err := uuid.Parse(vmID)
	if err != nil {
		return "", invalidArgument(op, vmID, err)
	}
	return id.String(), nil
}

func taskID(task *nutanix.TaskReference) string {
	if task == nil || task.ExtID == nil {
		return ""
	}
	return *task.ExtID
}
