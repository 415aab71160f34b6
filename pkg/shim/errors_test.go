package shim

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mhrivnak/nutanix-shim/pkg/models"
	"github.com/mhrivnak/nutanix-shim/pkg/nutanix"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"not found", &nutanix.APIError{StatusCode: http.StatusNotFound}, ErrNotFound},
		{"conflict", &nutanix.APIError{StatusCode: http.StatusConflict}, ErrRemoteRejected},
		{"bad request", &nutanix.APIError{StatusCode: http.StatusBadRequest}, ErrRemoteRejected},
		{"server error", &nutanix.APIError{StatusCode: http.StatusInternalServerError}, ErrRemoteUnavailable},
		{"unreachable", fmt.Errorf("dial tcp: %w", nutanix.ErrUnreachable), ErrRemoteUnavailable},
		{"projection", &models.ProjectionError{Entity: "cluster", Field: "config"}, ErrInvalidResponse},
		{"undecodable", errors.New("nutanix: decoding GET response"), ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("op", "", tt.err)
			assert.ErrorIs(t, err, tt.kind)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestClassify_KeepsExistingKind(t *testing.T) {
	orig := invalidArgument("op", "id", errors.New("bad"))
	assert.Same(t, orig, classify("other", "", orig))
	assert.Nil(t, classify("op", "", nil))
}

func TestError_Message(t *testing.T) {
	err := classify("delete vm", "vm-1", &nutanix.APIError{StatusCode: http.StatusConflict, Message: "VM is powered on"})

	var shimErr *Error
	assert.True(t, errors.As(err, &shimErr))
	assert.Equal(t, "VM is powered on", shimErr.Message())
	assert.Equal(t, http.StatusConflict, shimErr.StatusCode())
	assert.Contains(t, err.Error(), "delete vm vm-1")
}

func TestError_ContextCanceled(t *testing.T) {
	err := classify("list vms", "", fmt.Errorf("%s: %w", context.Canceled, nutanix.ErrUnreachable))
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}
