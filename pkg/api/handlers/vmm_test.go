package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mhrivnak/nutanix-shim/pkg/models"
	"github.com/mhrivnak/nutanix-shim/pkg/nutanix"
	"github.com/mhrivnak/nutanix-shim/pkg/shim"
)

const testVMID = "5f0a2b43-7a0c-4d3e-8b44-8a8e5c2f1a11"

func setupVMMTest(t *testing.T) (*gin.Engine, *MockVMManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterValidators())

	mockMgr := new(MockVMManager)
	handler := NewVMMHandlers(mockMgr, zap.NewNop())

	router := gin.New()
	router.GET("/api/v1/vmm/list-images", handler.ListImages)
	router.GET("/api/v1/vmm/list-vms", handler.ListVMs)
	router.POST("/api/v1/vmm/provision-vm", handler.ProvisionVM)
	router.GET("/api/v1/vmm/vms/:vm_id/power-state", handler.GetPowerState)
	router.POST("/api/v1/vmm/vms/:vm_id/power-state", handler.SetPowerState)
	router.DELETE("/api/v1/vmm/vms/:vm_id", handler.DeleteVM)

	return router, mockMgr
}

func doRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	return apiErr
}

func TestListVMs(t *testing.T) {
	router, mockMgr := setupVMMTest(t)
	name := "web-01"
	mockMgr.On("ListVMs", mock.Anything).Return([]models.VmListMetadata{
		{ExtID: testVMID, Name: &name, PowerState: "ON"},
	}, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/vmm/list-vms", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var vms []models.VmListMetadata
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vms))
	require.Len(t, vms, 1)
	assert.Equal(t, "ON", vms[0].PowerState)
	mockMgr.AssertExpectations(t)
}

func TestListImages_Empty(t *testing.T) {
	router, mockMgr := setupVMMTest(t)
	mockMgr.On("ListImages", mock.Anything).Return([]models.ImageMetadata{}, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/vmm/list-images", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetPowerState(t *testing.T) {
	router, mockMgr := setupVMMTest(t)
	mockMgr.On("GetVMPowerState", mock.Anything, testVMID).Return(&models.VmPowerStateResponse{
		ExtID: testVMID, Name: "web-01", PowerState: "OFF",
	}, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/vmm/vms/"+testVMID+"/power-state", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ext_id":"`+testVMID+`","name":"web-01","power_state":"OFF"}`, w.Body.String())
}

func TestGetPowerState_InvalidID(t *testing.T) {
	router, mockMgr := setupVMMTest(t)

	w := doRequest(router, http.MethodGet, "/api/v1/vmm/vms/not-a-uuid/power-state", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid VM ID format", decodeAPIError(t, w).Message)
	mockMgr.AssertNotCalled(t, "GetVMPowerState", mock.Anything, mock.Anything)
}

func TestGetPowerState_NonCanonicalID(t *testing.T) {
	forms := map[string]string{
		"braced":     "%7B" + testVMID + "%7D",
		"urn":        "urn:uuid:" + testVMID,
		"no hyphens": strings.ReplaceAll(testVMID, "-", ""),
		"upper case": strings.ToUpper(testVMID),
	}
	for name, id := range forms {
		t.Run(name, func(t *testing.T) {
			router, mockMgr := setupVMMTest(t)
			mockMgr.On("GetVMPowerState", mock.Anything, testVMID).Return(&models.VmPowerStateResponse{
				ExtID: testVMID, Name: "web-01", PowerState: "ON",
			}, nil)

			w := doRequest(router, http.MethodGet, "/api/v1/vmm/vms/"+id+"/power-state", nil)

			assert.Equal(t, http.StatusOK, w.Code)
			mockMgr.AssertCalled(t, "GetVMPowerState", mock.Anything, testVMID)
		})
	}
}

func TestGetPowerState_NotFound(t *testing.T) {
	router, mockMgr := setupVMMTest(t)
	notFound := &shim.Error{
		Kind: shim.ErrNotFound,
		Op:   "get vm power state",
		Err:  &nutanix.APIError{StatusCode: http.StatusNotFound, Message: "VM not found"},
	}
	mockMgr.On("GetVMPowerState", mock.Anything, testVMID).Return(nil, notFound)

	w := doRequest(router, http.MethodGet, "/api/v1/vmm/vms/"+testVMID+"/power-state", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	apiErr := decodeAPIError(t, w)
	assert.Equal(t, http.StatusNotFound, apiErr.Code)
	assert.Equal(t, "Not Found", apiErr.Type)
	assert.Equal(t, "VM not found", apiErr.Message)
}

func TestSetPowerState(t *testing.T) {
	router, mockMgr := setupVMMTest(t)
	mockMgr.On("SetVMPowerState", mock.Anything, testVMID, models.PowerOn).Return(&models.VmPowerStateResponse{
		ExtID: testVMID, Name: "web-01", PowerState: "ON",
	}, nil)

	w := doRequest(router, http.MethodPost, "/api/v1/vmm/vms/"+testVMID+"/power-state", map[string]string{"action": "POWER_ON"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.VmPowerStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ON", resp.PowerState)
	mockMgr.AssertExpectations(t)
}

func TestSetPowerState_UnknownAction(t *testing.T) {
	router, mockMgr := setupVMMTest(t)

	for _, body := range []any{
		map[string]string{"action": "HIBERNATE"},
		map[string]string{"action": "power_on"},
		map[string]string{},
		nil,
	} {
		w := doRequest(router, http.MethodPost, "/api/v1/vmm/vms/"+testVMID+"/power-state", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %v", body)
	}
	mockMgr.AssertNotCalled(t, "SetVMPowerState", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteVM(t *testing.T) {
	router, mockMgr := setupVMMTest(t)
	mockMgr.On("DeleteVM", mock.Anything, testVMID).Return(nil)

	w := doRequest(router, http.MethodDelete, "/api/v1/vmm/vms/"+testVMID, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestDeleteVM_PoweredOn(t *testing.T) {
	router, mockMgr := setupVMMTest(t)
	rejected := &shim.Error{
		Kind:       shim.ErrRemoteRejected,
		Op:         "delete vm",
		ResourceID: testVMID,
		Err:        &nutanix.APIError{StatusCode: http.StatusConflict, Message: "Cannot delete VM in powered on state"},
	}
	mockMgr.On("DeleteVM", mock.Anything, testVMID).Return(rejected)

	w := doRequest(router, http.MethodDelete, "/api/v1/vmm/vms/"+testVMID, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	apiErr := decodeAPIError(t, w)
	assert.Equal(t, "Cannot delete VM in powered on state", apiErr.Message)
	assert.Contains(t, apiErr.Details, testVMID)
}

func validProvisionBody() map[string]any {
	return map[string]any{
		"name":                     "my-vm-01",
		"description":              "Development VM for testing",
		"cluster_ext_id":           "00061663-9fa0-28ca-185b-ac1f6b6f97e2",
		"subnet_ext_id":            "3d5d8e8b-f3e0-4f4e-8c5d-5b5c5d5e5f5a",
		"storage_container_ext_id": "1a2b3c4d-5e6f-7a8b-9c0d-1e2f3a4b5c6d",
		"num_sockets":              2,
		"num_cores_per_socket":     2,
		"memory_size_bytes":        8589934592,
		"disk_size_bytes":          107374182400,
	}
}

func TestProvisionVM(t *testing.T) {
	router, mockMgr := setupVMMTest(t)
	mockMgr.On("ProvisionVM", mock.Anything, mock.MatchedBy(func(req models.VmProvisionRequest) bool {
		return req.Name == "my-vm-01" && req.MemorySizeBytes == 8589934592 && req.DiskSizeBytes == 107374182400
	})).Return(&models.VmMetadata{
		ExtID:             "task-1",
		Name:              "my-vm-01",
		Description:       "Development VM for testing",
		NumSockets:        2,
		NumCoresPerSocket: 2,
		MemorySizeBytes:   8589934592,
		DiskSizeBytes:     107374182400,
	}, nil)

	w := doRequest(router, http.MethodPost, "/api/v1/vmm/provision-vm", validProvisionBody())

	assert.Equal(t, http.StatusCreated, w.Code)
	var vm models.VmMetadata
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vm))
	assert.Equal(t, "task-1", vm.ExtID)
	assert.Equal(t, int64(107374182400), vm.DiskSizeBytes)
	mockMgr.AssertExpectations(t)
}

func TestProvisionVM_Validation(t *testing.T) {
	tests := map[string]func(body map[string]any){
		"missing name":       func(b map[string]any) { delete(b, "name") },
		"cluster not a uuid": func(b map[string]any) { b["cluster_ext_id"] = "prod" },
		"zero sockets":       func(b map[string]any) { b["num_sockets"] = 0 },
		"negative memory":    func(b map[string]any) { b["memory_size_bytes"] = -1 },
		"missing disk":       func(b map[string]any) { delete(b, "disk_size_bytes") },
		"wrong type":         func(b map[string]any) { b["num_sockets"] = "two" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			router, mockMgr := setupVMMTest(t)
			body := validProvisionBody()
			mutate(body)

			w := doRequest(router, http.MethodPost, "/api/v1/vmm/provision-vm", body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			mockMgr.AssertNotCalled(t, "ProvisionVM", mock.Anything, mock.Anything)
		})
	}
}
