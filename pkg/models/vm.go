package models

import (
	"github.com/mhrivnak/nutanix-shim/pkg/nutanix"
)

// VmListMetadata is the summary returned by list-vms. Absent vendor fields
// stay nil; the power state falls back to UNDETERMINED.
type VmListMetadata struct {
	ExtID             string  `json:"ext_id"`
	Name              *string `json:"name"`
	ClusterExtID      *string `json:"cluster_ext_id"`
	PowerState        string  `json:"power_state"`
	NumSockets        *int    `json:"num_sockets"`
	NumCoresPerSocket *int    `json:"num_cores_per_socket"`
	MemorySizeBytes   *int64  `json:"memory_size_bytes"`
}

func VMListFromNutanix(vm nutanix.VM) (VmListMetadata, error) {
	if vm.ExtID == nil {
		return VmListMetadata{}, missing("vm", "extId", nil)
	}

	out := VmListMetadata{
		ExtID:             *vm.ExtID,
		Name:              vm.Name,
		PowerState:        powerState(vm.PowerState),
		NumSockets:        vm.NumSockets,
		NumCoresPerSocket: vm.NumCoresPerSocket,
		MemorySizeBytes:   vm.MemorySizeBytes,
	}
	if vm.Cluster != nil {
		out.ClusterExtID = vm.Cluster.ExtID
	}
	return out, nil
}

// VmPowerStateResponse reports the power state observed on Prism Central.
type VmPowerStateResponse struct {
	ExtID      string `json:"ext_id"`
	Name       string `json:"name"`
	PowerState string `json:"power_state"`
}

func PowerStateFromNutanix(vm nutanix.VM) (VmPowerStateResponse, error) {
	if vm.ExtID == nil {
		return VmPowerStateResponse{}, missing("vm", "extId", nil)
	}
	return VmPowerStateResponse{
		ExtID:      *vm.ExtID,
		Name:       deref(vm.Name),
		PowerState: powerState(vm.PowerState),
	}, nil
}

func powerState(state *nutanix.PowerState) string {
	if state == nil || *state == "" {
		return string(nutanix.PowerStateUndetermined)
	}
	return string(*state)
}

// VmProvisionRequest is the body of provision-vm.
//
//	{
//	    "name": "my-vm-01",
//	    "description": "Development VM for testing",
//	    "cluster_ext_id": "00061663-9fa0-28ca-185b-ac1f6b6f97e2",
//	    "subnet_ext_id": "3d5d8e8b-f3e0-4f4e-8c5d-5b5c5d5e5f5a",
//	    "storage_container_ext_id": "1a2b3c4d-5e6f-7a8b-9c0d-1e2f3a4b5c6d",
//	    "num_sockets": 2,
//	    "num_cores_per_socket": 2,
//	    "memory_size_bytes": 8589934592,
//	    "disk_size_bytes": 107374182400
//	}
type VmProvisionRequest struct {
	Name                  string `json:"name" binding:"required"`
	ClusterExtID          string `json:"cluster_ext_id" binding:"required,uuid"`
	SubnetExtID           string `json:"subnet_ext_id" binding:"required,uuid"`
	StorageContainerExtID string `json:"storage_container_ext_id" binding:"required,uuid"`
	NumSockets            int    `json:"num_sockets" binding:"required,gt=0"`
	NumCoresPerSocket     int    `json:"num_cores_per_socket" binding:"required,gt=0"`
	MemorySizeBytes       int64  `json:"memory_size_bytes" binding:"required,gt=0"`
	DiskSizeBytes         int64  `json:"disk_size_bytes" binding:"required,gt=0"`
	Description           string `json:"description"`
}

// VmMetadata echoes a provisioning request together with the id Prism
// Central assigned.
type VmMetadata struct {
	ExtID             string `json:"ext_id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	NumSockets        int    `json:"num_sockets"`
	NumCoresPerSocket int    `json:"num_cores_per_socket"`
	MemorySizeBytes   int64  `json:"memory_size_bytes"`
	DiskSizeBytes     int64  `json:"disk_size_bytes"`
}

// NewVmMetadata builds the provisioning result from the request and the
// remote-assigned id.
func NewVmMetadata(req VmProvisionRequest, extID string) VmMetadata {
	return VmMetadata{
		ExtID:             extID,
		Name:              req.Name,
		Description:       req.Description,
		NumSockets:        req.NumSockets,
		NumCoresPerSocket: req.NumCoresPerSocket,
		MemorySizeBytes:   req.MemorySizeBytes,
		DiskSizeBytes:     req.DiskSizeBytes,
	}
}

// ToNutanixSpec builds a network-attached VM: one VIRTIO NIC on the subnet
// with DHCP addressing and one empty SCSI disk at index 0 on the storage
// container.
func (r VmProvisionRequest) ToNutanixSpec() *nutanix.VM {
	model := nutanix.EmulatedNicModelVirtio
	bus := nutanix.DiskBusTypeSCSI

	spec := &nutanix.VM{
		Name:              ptr(r.Name),
		Cluster:           &nutanix.ClusterReference{ExtID: ptr(r.ClusterExtID)},
		NumSockets:        ptr(r.NumSockets),
		NumCoresPerSocket: ptr(r.NumCoresPerSocket),
		MemorySizeBytes:   ptr(r.MemorySizeBytes),
		Nics: []nutanix.Nic{{
			BackingInfo: &nutanix.EmulatedNic{
				ObjectType:  nutanix.ObjectTypeEmulatedNic,
				Model:       &model,
				IsConnected: ptr(true),
			},
			NetworkInfo: &nutanix.NicNetworkInfo{
				Subnet:     &nutanix.SubnetReference{ExtID: ptr(r.SubnetExtID)},
				IPv4Config: &nutanix.NicIPv4Config{ShouldAssignIP: ptr(true)},
			},
		}},
		Disks: []nutanix.Disk{{
			BackingInfo: &nutanix.VMDisk{
				ObjectType:       nutanix.ObjectTypeVMDisk,
				DiskSizeBytes:    ptr(r.DiskSizeBytes),
				StorageContainer: &nutanix.VMDiskContainerReference{ExtID: ptr(r.StorageContainerExtID)},
			},
			DiskAddress: &nutanix.DiskAddress{
				BusType: &bus,
				Index:   ptr(0),
			},
		}},
	}
	if r.Description != "" {
		spec.Description = ptr(r.Description)
	}
	return spec
}
