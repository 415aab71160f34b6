package shim

import (
	"context"

	"go.uber.org/zap"

	"github.com/mhrivnak/nutanix-shim/pkg/models"
	"github.com/mhrivnak/nutanix-shim/pkg/nutanix"
)

// Networking is the networking adapter.
type Networking struct {
	client     *nutanix.APIClient
	subnetsAPI *nutanix.SubnetsAPI
	logger     *zap.Logger
}

func NewNetworking(conn *nutanix.Configuration, logger *zap.Logger) (*Networking, error) {
	client, err := nutanix.NewAPIClient(conn)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Networking{
		client:     client,
		subnetsAPI: nutanix.NewSubnetsAPI(client),
		logger:     logger.Named("networking"),
	}, nil
}

func (n *Networking) ListSubnets(ctx context.Context) ([]models.SubnetMetadata, error) {
	const op = "list subnets"
	subnets, err := n.subnetsAPI.ListSubnets(ctx, nutanix.ListOptions{Limit: pageSize})
	if err != nil {
		return nil, classify(op, "", err)
	}
	out, err := project(n.logger, "subnet", subnets, models.SubnetFromNutanix)
	return out, classify(op, "", err)
}
