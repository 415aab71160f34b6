package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mhrivnak/nutanix-shim/pkg/models"
)

type MockClusterManager struct {
	mock.Mock
}

func (m *MockClusterManager) ListClusters(ctx context.Context) ([]models.ClusterMetadata, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]models.ClusterMetadata), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClusterManager) ListStorageContainers(ctx context.Context) ([]models.StorageContainerMetadata, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]models.StorageContainerMetadata), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockNetworkManager struct {
	mock.Mock
}

func (m *MockNetworkManager) ListSubnets(ctx context.Context) ([]models.SubnetMetadata, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]models.SubnetMetadata), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockVMManager struct {
	mock.Mock
}

func (m *MockVMManager) ListImages(ctx context.Context) ([]models.ImageMetadata, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]models.ImageMetadata), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVMManager) ListVMs(ctx context.Context) ([]models.VmListMetadata, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]models.VmListMetadata), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVMManager) GetVMPowerState(ctx context.Context, vmID string) (*models.VmPowerStateResponse, error) {
	args := m.Called(ctx, vmID)
	if v := args.Get(0); v != nil {
		return v.(*models.VmPowerStateResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVMManager) SetVMPowerState(ctx context.Context, vmID string, action models.PowerAction) (*models.VmPowerStateResponse, error) {
	args := m.Called(ctx, vmID, action)
	if v := args.Get(0); v != nil {
		return v.(*models.VmPowerStateResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVMManager) ProvisionVM(ctx context.Context, req models.VmProvisionRequest) (*models.VmMetadata, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*models.VmMetadata), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVMManager) DeleteVM(ctx context.Context, vmID string) error {
	args := m.Called(ctx, vmID)
	return args.Error(0)
}
