package shim

import (
	"context"

	"go.uber.org/zap"

	"github.com/mhrivnak/nutanix-shim/pkg/models"
	"github.com/mhrivnak/nutanix-shim/pkg/nutanix"
)

// ClusterMgmt is the cluster management adapter.
type ClusterMgmt struct {
	client               *nutanix.APIClient
	clustersAPI          *nutanix.ClustersAPI
	storageContainersAPI *nutanix.StorageContainersAPI
	logger               *zap.Logger
}

func NewClusterMgmt(conn *nutanix.Configuration, logger *zap.Logger) (*ClusterMgmt, error) {
	client, err := nutanix.NewAPIClient(conn)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClusterMgmt{
		client:               client,
		clustersAPI:          nutanix.NewClustersAPI(client),
		storageContainersAPI: nutanix.NewStorageContainersAPI(client),
		logger:               logger.Named("clustermgmt"),
	}, nil
}

// ListClusters returns every cluster on the first page. A cluster missing
// its node or config reference fails the whole call.
func (m *ClusterMgmt) ListClusters(ctx context.Context) ([]models.ClusterMetadata, error) {
	const op = "list clusters"
	clusters, err := m.clustersAPI.ListClusters(ctx, nutanix.ListOptions{Limit: pageSize})
	if err != nil {
		return nil, classify(op, "", err)
	}
	out, err := project(m.logger, "cluster", clusters, models.ClusterFromNutanix)
	return out, classify(op, "", err)
}

func (m *ClusterMgmt) ListStorageContainers(ctx context.Context) ([]models.StorageContainerMetadata, error) {
	const op = "list storage containers"
	containers, err := m.storageContainersAPI.ListStorageContainers(ctx, nutanix.ListOptions{Limit: pageSize})
	if err != nil {
		return nil, classify(op, "", err)
	}
	out, err := project(m.logger, "storage_container", containers, models.StorageContainerFromNutanix)
	return out, classify(op, "", err)
}
