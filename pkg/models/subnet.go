package models

import (
	"fmt"

	"github.com/mhrivnak/nutanix-shim/pkg/nutanix"
)

// SubnetMetadata describes a network/subnet: identity, type, IPv4 layout
// and DHCP settings. IPv4Subnet is in CIDR notation, e.g. "10.0.0.0/24".
type SubnetMetadata struct {
	ExtID             string  `json:"ext_id"`
	Name              string  `json:"name"`
	Description       *string `json:"description"`
	SubnetType        *string `json:"subnet_type"`
	NetworkID         *int    `json:"network_id"`
	ClusterName       *string `json:"cluster_name"`
	ClusterExtID      *string `json:"cluster_ext_id"`
	IPv4Subnet        *string `json:"ipv4_subnet"`
	IPv4Gateway       *string `json:"ipv4_gateway"`
	DhcpServerAddress *string `json:"dhcp_server_address"`
	IsNatEnabled      *bool   `json:"is_nat_enabled"`
	IsExternal        *bool   `json:"is_external"`
	VpcReference      *string `json:"vpc_reference"`
}

// SubnetFromNutanix projects a subnet. Only the first IP configuration is
// read; any missing link in the ipConfig chain leaves the derived field nil.
func SubnetFromNutanix(s nutanix.Subnet) (SubnetMetadata, error) {
	const entity = "subnet"

	if s.ExtID == nil {
		return SubnetMetadata{}, missing(entity, "extId", nil)
	}
	if s.Name == nil {
		return SubnetMetadata{}, missing(entity, "name", s.ExtID)
	}

	out := SubnetMetadata{
		ExtID:        *s.ExtID,
		Name:         *s.Name,
		Description:  s.Description,
		NetworkID:    s.NetworkID,
		ClusterName:  s.ClusterName,
		ClusterExtID: s.ClusterReference,
		IsNatEnabled: s.IsNatEnabled,
		IsExternal:   s.IsExternal,
		VpcReference: s.VpcReference,
	}
	if s.SubnetType != nil {
		out.SubnetType = ptr(string(*s.SubnetType))
	}

	if len(s.IPConfig) == 0 || s.IPConfig[0].IPv4 == nil {
		return out, nil
	}
	ipv4 := s.IPConfig[0].IPv4

	out.IPv4Subnet = cidr(ipv4.IPSubnet)
	if ipv4.DefaultGatewayIP != nil {
		out.IPv4Gateway = ipv4.DefaultGatewayIP.Value
	}
	if ipv4.DhcpServerAddress != nil {
		out.DhcpServerAddress = ipv4.DhcpServerAddress.Value
	}
	return out, nil
}

// cidr joins address and prefix length, or returns nil unless both exist.
func cidr(subnet *nutanix.IPv4Subnet) *string {
	if subnet == nil || subnet.IP == nil || subnet.IP.Value == nil || *subnet.IP.Value == "" || subnet.PrefixLength == nil {
		return nil
	}
	return ptr(fmt.Sprintf("%s/%d", *subnet.IP.Value, *subnet.PrefixLength))
}
