// Package shim holds the per-domain adapters that call Prism Central and
// project the answers into the flat records served by the API.
package shim

import (
	"go.uber.org/zap"

	"github.com/mhrivnak/nutanix-shim/pkg/config"
	"github.com/mhrivnak/nutanix-shim/pkg/metrics"
	"github.com/mhrivnak/nutanix-shim/pkg/nutanix"
)

// pageSize caps every list call; results beyond the first page are not
// fetched.
const pageSize = nutanix.MaxPageSize

// ConnectionFromConfig derives the Prism Central connection settings from
// the application configuration.
func ConnectionFromConfig(cfg *config.Config, logger *zap.Logger) *nutanix.Configuration {
	conn := nutanix.NewConfiguration(cfg.Nutanix.Host, cfg.Nutanix.APIKey)
	if cfg.Nutanix.Port != 0 {
		conn.Port = cfg.Nutanix.Port
	}
	conn.VerifySSL = cfg.Nutanix.VerifySSL
	conn.MaxRetryAttempts = cfg.Nutanix.MaxRetryAttempts
	conn.BackoffFactor = cfg.Nutanix.BackoffFactor
	if cfg.Nutanix.Timeout != 0 {
		conn.Timeout = cfg.Nutanix.Timeout
	}
	conn.WrapTransport = metrics.InstrumentTransport
	conn.Logger = logger
	return conn
}

// Adapters bundles the three domain adapters shared by all requests.
type Adapters struct {
	ClusterMgmt *ClusterMgmt
	VMM         *VirtualMachineMgmt
	Networking  *Networking
}

// NewAdapters builds every adapter up front.
func NewAdapters(conn *nutanix.Configuration, logger *zap.Logger) (*Adapters, error) {
	cm, err := NewClusterMgmt(conn, logger)
	if err != nil {
		return nil, err
	}
	vmm, err := NewVirtualMachineMgmt(conn, logger)
	if err != nil {
		return nil, err
	}
	net, err := NewNetworking(conn, logger)
	if err != nil {
		return nil, err
	}
	return &Adapters{ClusterMgmt: cm, VMM: vmm, Networking: net}, nil
}

// project applies fn to every item, stopping at the first failure. The
// failure is logged with the offending resource id and counted.
func project[S, D any](logger *zap.Logger, entity string, items []S, fn func(S) (D, error)) ([]D, error) {
	out := make([]D, 0, len(items))
	for _, item := range items {
		d, err := fn(item)
		if err != nil {
			metrics.IncProjectionFailure(entity)
			logger.Error("Failed to project Nutanix object",
				zap.String("entity", entity),
				zap.Error(err))
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
