package nutanix

import (
	"context"
)

const networkingPrefix = "/api/networking/v4.0/config"

type SubnetType string

const (
	SubnetTypeOverlay SubnetType = "OVERLAY"
	SubnetTypeVLAN    SubnetType = "VLAN"
)

// Subnet is networking.v4.config.Subnet.
type Subnet struct {
	ExtID            *string     `json:"extId,omitempty"`
	Name             *string     `json:"name,omitempty"`
	Description      *string     `json:"description,omitempty"`
	SubnetType       *SubnetType `json:"subnetType,omitempty"`
	NetworkID        *int        `json:"networkId,omitempty"`
	ClusterName      *string     `json:"clusterName,omitempty"`
	ClusterReference *string     `json:"clusterReference,omitempty"`
	IPConfig         []IPConfig  `json:"ipConfig,omitempty"`
	IsNatEnabled     *bool       `json:"isNatEnabled,omitempty"`
	IsExternal       *bool       `json:"isExternal,omitempty"`
	VpcReference     *string     `json:"vpcReference,omitempty"`
}

type IPConfig struct {
	IPv4 *IPv4Config `json:"ipv4,omitempty"`
}

type IPv4Config struct {
	IPSubnet          *IPv4Subnet  `json:"ipSubnet,omitempty"`
	DefaultGatewayIP  *IPv4Address `json:"defaultGatewayIp,omitempty"`
	DhcpServerAddress *IPv4Address `json:"dhcpServerAddress,omitempty"`
}

type IPv4Subnet struct {
	IP           *IPv4Address `json:"ip,omitempty"`
	PrefixLength *int         `json:"prefixLength,omitempty"`
}

type IPv4Address struct {
	Value        *string `json:"value,omitempty"`
	PrefixLength *int    `json:"prefixLength,omitempty"`
}

type SubnetsAPI struct {
	client *APIClient
}

func NewSubnetsAPI(client *APIClient) *SubnetsAPI {
	return &SubnetsAPI{client: client}
}

// ListSubnets returns one page of subnets.
func (a *SubnetsAPI) ListSubnets(ctx context.Context, opts ListOptions) ([]Subnet, error) {
	return list[Subnet](ctx, a.client, networkingPrefix+"/subnets", opts)
}
