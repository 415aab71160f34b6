package models

import (
	"github.com/mhrivnak/nutanix-shim/pkg/nutanix"
)

// ClusterMetadata is the flat view of a Prism Element cluster.
type ClusterMetadata struct {
	Name        string `json:"name"`
	ExtID       string `json:"ext_id"`
	NNodes      int    `json:"n_nodes"`
	Arch        string `json:"arch"`
	VMCount     int64  `json:"vm_count"`
	IsAvailable bool   `json:"is_available"`
}

// ClusterFromNutanix projects a cluster. The node and config references
// carry required fields, so their absence fails the projection.
func ClusterFromNutanix(c nutanix.Cluster) (ClusterMetadata, error) {
	const entity = "cluster"

	if c.ExtID == nil {
		return ClusterMetadata{}, missing(entity, "extId", nil)
	}
	if c.Name == nil {
		return ClusterMetadata{}, missing(entity, "name", c.ExtID)
	}
	if c.Nodes == nil {
		return ClusterMetadata{}, missing(entity, "nodes", c.ExtID)
	}
	if c.Nodes.NumberOfNodes == nil {
		return ClusterMetadata{}, missing(entity, "nodes.numberOfNodes", c.ExtID)
	}
	if c.Config == nil {
		return ClusterMetadata{}, missing(entity, "config", c.ExtID)
	}
	if c.Config.ClusterArch == nil {
		return ClusterMetadata{}, missing(entity, "config.clusterArch", c.ExtID)
	}
	if c.Config.IsAvailable == nil {
		return ClusterMetadata{}, missing(entity, "config.isAvailable", c.ExtID)
	}
	if c.VMCount == nil {
		return ClusterMetadata{}, missing(entity, "vmCount", c.ExtID)
	}

	return ClusterMetadata{
		Name:        *c.Name,
		ExtID:       *c.ExtID,
		NNodes:      *c.Nodes.NumberOfNodes,
		Arch:        string(*c.Config.ClusterArch),
		VMCount:     *c.VMCount,
		IsAvailable: *c.Config.IsAvailable,
	}, nil
}

// StorageContainerMetadata describes a storage container: identity,
// capacity and storage features. Everything but identity is optional.
type StorageContainerMetadata struct {
	ExtID                          string  `json:"ext_id"`
	Name                           string  `json:"name"`
	ClusterName                    *string `json:"cluster_name"`
	ClusterExtID                   *string `json:"cluster_ext_id"`
	MaxCapacityBytes               *int64  `json:"max_capacity_bytes"`
	LogicalAdvertisedCapacityBytes *int64  `json:"logical_advertised_capacity_bytes"`
	ReplicationFactor              *int    `json:"replication_factor"`
	IsCompressionEnabled           *bool   `json:"is_compression_enabled"`
	IsEncrypted                    *bool   `json:"is_encrypted"`
	IsMarkedForRemoval             *bool   `json:"is_marked_for_removal"`
}

func StorageContainerFromNutanix(sc nutanix.StorageContainer) (StorageContainerMetadata, error) {
	const entity = "storage container"

	if sc.ContainerExtID == nil {
		return StorageContainerMetadata{}, missing(entity, "containerExtId", nil)
	}
	if sc.Name == nil {
		return StorageContainerMetadata{}, missing(entity, "name", sc.ContainerExtID)
	}

	return StorageContainerMetadata{
		ExtID:                          *sc.ContainerExtID,
		Name:                           *sc.Name,
		ClusterName:                    sc.ClusterName,
		ClusterExtID:                   sc.ClusterExtID,
		MaxCapacityBytes:               sc.MaxCapacityBytes,
		LogicalAdvertisedCapacityBytes: sc.LogicalAdvertisedCapacityBytes,
		ReplicationFactor:              sc.ReplicationFactor,
		IsCompressionEnabled:           sc.IsCompressionEnabled,
		IsEncrypted:                    sc.IsEncrypted,
		IsMarkedForRemoval:             sc.IsMarkedForRemoval,
	}, nil
}
