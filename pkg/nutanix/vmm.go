package nutanix

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const (
	vmmContentPrefix = "/api/vmm/v4.0/content"
	vmmConfigPrefix  = "/api/vmm/v4.0/ahv/config"
)

type ImageType string

const (
	ImageTypeDisk ImageType = "DISK_IMAGE"
	ImageTypeISO  ImageType = "ISO_IMAGE"
)

// Image is vmm.v4.content.Image.
type Image struct {
	ExtID                 *string                `json:"extId,omitempty"`
	Name                  *string                `json:"name,omitempty"`
	Description           *string                `json:"description,omitempty"`
	Type                  *ImageType             `json:"type,omitempty"`
	SizeBytes             *int64                 `json:"sizeBytes,omitempty"`
	CreateTime            *time.Time             `json:"createTime,omitempty"`
	LastUpdateTime        *time.Time             `json:"lastUpdateTime,omitempty"`
	OwnerExtID            *string                `json:"ownerExtId,omitempty"`
	TenantID              *string                `json:"tenantId,omitempty"`
	ClusterLocationExtIDs []string               `json:"clusterLocationExtIds,omitempty"`
	Source                *ImageSource           `json:"source,omitempty"`
	PlacementPolicyStatus []ImagePlacementStatus `json:"placementPolicyStatus,omitempty"`
}

const (
	ImageSourceURL    = "vmm.v4.content.UrlSource"
	ImageSourceVMDisk = "vmm.v4.content.VmDiskSource"
)

// ImageSource is the one-of source of an image, discriminated by
// $objectType.
type ImageSource struct {
	ObjectType string  `json:"$objectType,omitempty"`
	URL        *string `json:"url,omitempty"`
	ExtID      *string `json:"extId,omitempty"`
}

type ImagePlacementStatus struct {
	PlacementPolicyExtID *string `json:"placementPolicyExtId,omitempty"`
	ComplianceStatus     *string `json:"complianceStatus,omitempty"`
	EnforcementMode      *string `json:"enforcementMode,omitempty"`
}

type PowerState string

const (
	PowerStateOn           PowerState = "ON"
	PowerStateOff          PowerState = "OFF"
	PowerStatePaused       PowerState = "PAUSED"
	PowerStateUndetermined PowerState = "UNDETERMINED"
)

// VM is vmm.v4.ahv.config.Vm, used both for reads and as the create spec.
type VM struct {
	ExtID             *string           `json:"extId,omitempty"`
	Name              *string           `json:"name,omitempty"`
	Description       *string           `json:"description,omitempty"`
	Cluster           *ClusterReference `json:"cluster,omitempty"`
	PowerState        *PowerState       `json:"powerState,omitempty"`
	NumSockets        *int              `json:"numSockets,omitempty"`
	NumCoresPerSocket *int              `json:"numCoresPerSocket,omitempty"`
	MemorySizeBytes   *int64            `json:"memorySizeBytes,omitempty"`
	Nics              []Nic             `json:"nics,omitempty"`
	Disks             []Disk            `json:"disks,omitempty"`
}

type ClusterReference struct {
	ExtID *string `json:"extId,omitempty"`
}

type SubnetReference struct {
	ExtID *string `json:"extId,omitempty"`
}

type EmulatedNicModel string

const (
	EmulatedNicModelVirtio EmulatedNicModel = "VIRTIO"
	EmulatedNicModelE1000  EmulatedNicModel = "E1000"
)

type Nic struct {
	BackingInfo *EmulatedNic    `json:"backingInfo,omitempty"`
	NetworkInfo *NicNetworkInfo `json:"networkInfo,omitempty"`
}

type EmulatedNic struct {
	ObjectType  string            `json:"$objectType,omitempty"`
	Model       *EmulatedNicModel `json:"model,omitempty"`
	MacAddress  *string           `json:"macAddress,omitempty"`
	IsConnected *bool             `json:"isConnected,omitempty"`
}

type NicNetworkInfo struct {
	Subnet     *SubnetReference `json:"subnet,omitempty"`
	IPv4Config *NicIPv4Config   `json:"ipv4Config,omitempty"`
}

type NicIPv4Config struct {
	ShouldAssignIP *bool `json:"shouldAssignIp,omitempty"`
}

type DiskBusType string

const (
	DiskBusTypeSCSI  DiskBusType = "SCSI"
	DiskBusTypeIDE   DiskBusType = "IDE"
	DiskBusTypePCI   DiskBusType = "PCI"
	DiskBusTypeSATA  DiskBusType = "SATA"
	DiskBusTypeSPAPR DiskBusType = "SPAPR"
)

type Disk struct {
	BackingInfo *VMDisk      `json:"backingInfo,omitempty"`
	DiskAddress *DiskAddress `json:"diskAddress,omitempty"`
}

type VMDisk struct {
	ObjectType       string                    `json:"$objectType,omitempty"`
	DiskSizeBytes    *int64                    `json:"diskSizeBytes,omitempty"`
	StorageContainer *VMDiskContainerReference `json:"storageContainer,omitempty"`
}

type VMDiskContainerReference struct {
	ExtID *string `json:"extId,omitempty"`
}

type DiskAddress struct {
	BusType *DiskBusType `json:"busType,omitempty"`
	Index   *int         `json:"index,omitempty"`
}

const (
	ObjectTypeEmulatedNic = "vmm.v4.ahv.config.EmulatedNic"
	ObjectTypeVMDisk      = "vmm.v4.ahv.config.VmDisk"
)

type ImagesAPI struct {
	client *APIClient
}

func NewImagesAPI(client *APIClient) *ImagesAPI {
	return &ImagesAPI{client: client}
}

// ListImages returns one page of images.
func (a *ImagesAPI) ListImages(ctx context.Context, opts ListOptions) ([]Image, error) {
	return list[Image](ctx, a.client, vmmContentPrefix+"/images", opts)
}

type VMAPI struct {
	client *APIClient
}

func NewVMAPI(client *APIClient) *VMAPI {
	return &VMAPI{client: client}
}

func vmPath(extID string) string {
	return vmmConfigPrefix + "/vms/" + extID
}

// ListVMs returns one page of VMs.
func (a *VMAPI) ListVMs(ctx context.Context, opts ListOptions) ([]VM, error) {
	return list[VM](ctx, a.client, vmmConfigPrefix+"/vms", opts)
}

// GetVM fetches one VM together with the ETag required by mutating calls.
func (a *VMAPI) GetVM(ctx context.Context, extID string) (*VM, string, error) {
	var out objectResponse[VM]
	resp, err := a.client.do(ctx, request{method: http.MethodGet, path: vmPath(extID)}, &out)
	if err != nil {
		return nil, "", err
	}
	if out.Data == nil {
		return nil, "", errors.Errorf("nutanix: empty body for VM %s", extID)
	}
	return out.Data, resp.header.Get("ETag"), nil
}

// CreateVM submits a VM spec. Creation is asynchronous on the Prism side;
// the returned reference identifies the creation task.
func (a *VMAPI) CreateVM(ctx context.Context, spec *VM) (*TaskReference, error) {
	return task(ctx, a.client, request{method: http.MethodPost, path: vmmConfigPrefix + "/vms", body: spec})
}

func (a *VMAPI) DeleteVM(ctx context.Context, extID, etag string) (*TaskReference, error) {
	return task(ctx, a.client, request{method: http.MethodDelete, path: vmPath(extID), ifMatch: etag})
}

func (a *VMAPI) action(ctx context.Context, extID, etag, action string) (*TaskReference, error) {
	return task(ctx, a.client, request{
		method:  http.MethodPost,
		path:    vmPath(extID) + "/$actions/" + action,
		ifMatch: etag,
	})
}

// PowerOn is a hard power on.
func (a *VMAPI) PowerOn(ctx context.Context, extID, etag string) (*TaskReference, error) {
	return a.action(ctx, extID, etag, "power-on")
}

// PowerOff is an immediate power off without guest involvement.
func (a *VMAPI) PowerOff(ctx context.Context, extID, etag string) (*TaskReference, error) {
	return a.action(ctx, extID, etag, "power-off")
}

// GuestShutdown asks Nutanix Guest Tools inside the VM to shut it down.
func (a *VMAPI) GuestShutdown(ctx context.Context, extID, etag string) (*TaskReference, error) {
	return a.action(ctx, extID, etag, "guest-shutdown")
}

func (a *VMAPI) Reboot(ctx context.Context, extID, etag string) (*TaskReference, error) {
	return a.action(ctx, extID, etag, "reboot")
}

// Reset is a hard power cycle.
func (a *VMAPI) Reset(ctx context.Context, extID, etag string) (*TaskReference, error) {
	return a.action(ctx, extID, etag, "reset")
}
