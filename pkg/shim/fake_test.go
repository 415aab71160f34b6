package shim

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mhrivnak/nutanix-shim/pkg/nutanix"
)

const (
	vmsPath      = "/api/vmm/v4.0/ahv/config/vms"
	actionMarker = "/$actions/"
)

type fakeVM struct {
	name       string
	powerState string
	guestTools bool
	// served without its extId
	noExtID bool
}

// fakePrism is a minimal Prism Central that records every call.
type fakePrism struct {
	mu       sync.Mutex
	calls    []string
	clusters []map[string]any
	subnets  []map[string]any
	images   []map[string]any
	vms      map[string]*fakeVM
	created  []map[string]any
	// status forced for every request when non-zero
	failWith int
}

func newFakePrism() *fakePrism {
	return &fakePrism{vms: map[string]*fakeVM{}}
}

func (f *fakePrism) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakePrism) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)

	if f.failWith != 0 {
		w.WriteHeader(f.failWith)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/clustermgmt/v4.0/config/clusters":
		writeList(w, f.clusters)
	case r.Method == http.MethodGet && r.URL.Path == "/api/clustermgmt/v4.0/config/storage-containers":
		writeList(w, nil)
	case r.Method == http.MethodGet && r.URL.Path == "/api/networking/v4.0/config/subnets":
		writeList(w, f.subnets)
	case r.Method == http.MethodGet && r.URL.Path == "/api/vmm/v4.0/content/images":
		writeList(w, f.images)
	case r.Method == http.MethodGet && r.URL.Path == vmsPath:
		items := make([]map[string]any, 0, len(f.vms))
		for id, vm := range f.vms {
			items = append(items, vmBody(id, vm))
		}
		writeList(w, items)
	case r.Method == http.MethodPost && r.URL.Path == vmsPath:
		var spec map[string]any
		_ = json.NewDecoder(r.Body).Decode(&spec)
		f.created = append(f.created, spec)
		writeTask(w, "task-create-1")
	case strings.HasPrefix(r.URL.Path, vmsPath+"/"):
		f.serveVM(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakePrism) serveVM(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, vmsPath+"/")
	id, action, _ := strings.Cut(rest, actionMarker)

	vm, ok := f.vms[id]
	if !ok {
		writeError(w, http.StatusNotFound, "VM not found")
		return
	}

	switch {
	case r.Method == http.MethodGet && action == "":
		w.Header().Set("ETag", `W/"`+id+`"`)
		writeJSON(w, http.StatusOK, map[string]any{"data": vmBody(id, vm)})
	case r.Method == http.MethodDelete && action == "":
		if r.Header.Get("If-Match") == "" {
			writeError(w, http.StatusPreconditionRequired, "missing If-Match")
			return
		}
		if vm.powerState == "ON" {
			writeError(w, http.StatusConflict, "Cannot delete VM in powered on state")
			return
		}
		delete(f.vms, id)
		writeTask(w, "task-delete-1")
	case r.Method == http.MethodPost && action != "":
		if r.Header.Get("If-Match") == "" {
			writeError(w, http.StatusPreconditionRequired, "missing If-Match")
			return
		}
		switch action {
		case "power-on", "reboot", "reset":
			vm.powerState = "ON"
		case "power-off":
			vm.powerState = "OFF"
		case "guest-shutdown":
			if vm.guestTools {
				vm.powerState = "OFF"
			}
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeTask(w, "task-power-1")
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func vmBody(id string, vm *fakeVM) map[string]any {
	body := map[string]any{
		"extId":      id,
		"name":       vm.name,
		"powerState": vm.powerState,
		"cluster":    map[string]any{"extId": "00061663-9fa0-28ca-185b-ac1f6b6f97e2"},
		"numSockets": 1,
	}
	if vm.noExtID {
		delete(body, "extId")
	}
	return body
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeList(w http.ResponseWriter, items []map[string]any) {
	body := map[string]any{"metadata": map[string]any{"totalAvailableResults": len(items)}}
	if len(items) > 0 {
		body["data"] = items
	}
	writeJSON(w, http.StatusOK, body)
}

func writeTask(w http.ResponseWriter, id string) {
	writeJSON(w, http.StatusAccepted, map[string]any{
		"data": map[string]any{"$objectType": "prism.v4.config.TaskReference", "extId": id},
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"data": map[string]any{
			"error": []map[string]any{{"message": msg, "code": "VMM-1", "severity": "ERROR"}},
		},
	})
}

// startFakePrism serves fake over TLS and returns a connection pointed at it.
func startFakePrism(t *testing.T, fake *fakePrism) *nutanix.Configuration {
	t.Helper()
	server := httptest.NewTLSServer(fake)
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	conn := nutanix.NewConfiguration(host, "test-api-key")
	conn.Port = port
	conn.VerifySSL = false
	conn.MaxRetryAttempts = 1
	conn.BackoffFactor = time.Millisecond
	return conn
}
