package nutanix

import (
	"context"
)

const clusterMgmtPrefix = "/api/clustermgmt/v4.0/config"

type ClusterArch string

const (
	ClusterArchX86_64  ClusterArch = "X86_64"
	ClusterArchPPC64LE ClusterArch = "PPC64LE"
)

// Cluster is clustermgmt.v4.config.Cluster, reduced to the fields the shim
// reads. Every field is optional on the wire.
type Cluster struct {
	ExtID   *string                 `json:"extId,omitempty"`
	Name    *string                 `json:"name,omitempty"`
	Nodes   *NodeReference          `json:"nodes,omitempty"`
	Config  *ClusterConfigReference `json:"config,omitempty"`
	VMCount *int64                  `json:"vmCount,omitempty"`
}

type NodeReference struct {
	NumberOfNodes *int `json:"numberOfNodes,omitempty"`
}

type ClusterConfigReference struct {
	ClusterArch     *ClusterArch `json:"clusterArch,omitempty"`
	IsAvailable     *bool        `json:"isAvailable,omitempty"`
	ClusterFunction []string     `json:"clusterFunction,omitempty"`
}

// StorageContainer is clustermgmt.v4.config.StorageContainer.
type StorageContainer struct {
	ContainerExtID                 *string `json:"containerExtId,omitempty"`
	Name                           *string `json:"name,omitempty"`
	ClusterName                    *string `json:"clusterName,omitempty"`
	ClusterExtID                   *string `json:"clusterExtId,omitempty"`
	MaxCapacityBytes               *int64  `json:"maxCapacityBytes,omitempty"`
	LogicalAdvertisedCapacityBytes *int64  `json:"logicalAdvertisedCapacityBytes,omitempty"`
	ReplicationFactor              *int    `json:"replicationFactor,omitempty"`
	IsCompressionEnabled           *bool   `json:"isCompressionEnabled,omitempty"`
	IsEncrypted                    *bool   `json:"isEncrypted,omitempty"`
	IsMarkedForRemoval             *bool   `json:"isMarkedForRemoval,omitempty"`
}

type ClustersAPI struct {
	client *APIClient
}

func NewClustersAPI(client *APIClient) *ClustersAPI {
	return &ClustersAPI{client: client}
}

// ListClusters returns one page of clusters.
func (a *ClustersAPI) ListClusters(ctx context.Context, opts ListOptions) ([]Cluster, error) {
	return list[Cluster](ctx, a.client, clusterMgmtPrefix+"/clusters", opts)
}

type StorageContainersAPI struct {
	client *APIClient
}

func NewStorageContainersAPI(client *APIClient) *StorageContainersAPI {
	return &StorageContainersAPI{client: client}
}

// ListStorageContainers returns one page of storage containers.
func (a *StorageContainersAPI) ListStorageContainers(ctx context.Context, opts ListOptions) ([]StorageContainer, error) {
	return list[StorageContainer](ctx, a.client, clusterMgmtPrefix+"/storage-containers", opts)
}
