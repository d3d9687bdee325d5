package bridge_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rokuctl/internal/bridge"
)

// testBridge is a bridge server wired to a mock device, both backed by
// httptest so requests can be asserted end to end.
type testBridge struct {
	bridgeURL string
	deviceID  string
	store     *bridge.Store

	mu             sync.Mutex
	deviceRequests []string
	iconFetches    int
}

func newTestBridge(t *testing.T) *testBridge {
	t.Helper()

	tb := &testBridge{}

	deviceServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tb.mu.Lock()
		tb.deviceRequests = append(tb.deviceRequests, r.Method+" "+r.URL.Path)
		tb.mu.Unlock()

		switch r.URL.Path {
		case "/query/apps":
			w.Write([]byte(`<apps><app id="12" type="appl" version="1">Netflix</app></apps>`))
		case "/query/active-app":
			w.Write([]byte(`<active-app><app id="12" type="appl" version="1">Netflix</app></active-app>`))
		case "/query/device-info":
			w.Write([]byte(`<device-info><model-name>Roku 3</model-name></device-info>`))
		case "/icon/12":
			tb.mu.Lock()
			tb.iconFetches++
			tb.mu.Unlock()
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("fake png bytes"))
		case "/icon/404":
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(deviceServer.Close)

	store, err := bridge.NewStore(filepath.Join(t.TempDir(), "bridge.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	tb.store = store

	device, err := store.AddDevice("Test Roku", deviceServer.URL)
	require.NoError(t, err)
	tb.deviceID = device.ID

	server, err := bridge.NewServer(store)
	require.NoError(t, err)

	bridgeServer := httptest.NewServer(server.Handler())
	t.Cleanup(bridgeServer.Close)
	tb.bridgeURL = bridgeServer.URL

	return tb
}

func (tb *testBridge) recordedDeviceRequests() []string {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return append([]string(nil), tb.deviceRequests...)
}

func (tb *testBridge) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(tb.bridgeURL + path)
	require.NoError(t, err)
	return resp
}

func (tb *testBridge) post(t *testing.T, path string, body []byte) *http.Response {
	t.Helper()
	resp, err := http.Post(tb.bridgeURL+path, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestServerHealth(t *testing.T) {
	tb := newTestBridge(t)

	resp := tb.get(t, "/api/v1/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestServerDeviceRegistry(t *testing.T) {
	tb := newTestBridge(t)

	t.Run("list", func(t *testing.T) {
		resp := tb.get(t, "/api/v1/devices")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var devices []bridge.Device
		decodeBody(t, resp, &devices)
		require.Len(t, devices, 1)
		assert.Equal(t, "Test Roku", devices[0].Name)
	})

	t.Run("add and remove", func(t *testing.T) {
		resp := tb.post(t, "/api/v1/devices", []byte(`{"name":"Bedroom","address":"192.168.1.60"}`))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var added bridge.Device
		decodeBody(t, resp, &added)
		assert.NotEmpty(t, added.ID)

		req, err := http.NewRequest(http.MethodDelete, tb.bridgeURL+"/api/v1/devices/"+added.ID, nil)
		require.NoError(t, err)
		deleteResp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		deleteResp.Body.Close()
		assert.Equal(t, http.StatusOK, deleteResp.StatusCode)
	})

	t.Run("add without address", func(t *testing.T) {
		resp := tb.post(t, "/api/v1/devices", []byte(`{"name":"Broken"}`))
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("get unknown device", func(t *testing.T) {
		resp := tb.get(t, "/api/v1/devices/missing")
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestServerForwardsQueries(t *testing.T) {
	tb := newTestBridge(t)

	t.Run("apps", func(t *testing.T) {
		resp := tb.get(t, "/api/v1/devices/"+tb.deviceID+"/apps")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var apps []map[string]string
		decodeBody(t, resp, &apps)
		require.Len(t, apps, 1)
		assert.Equal(t, "Netflix", apps[0]["name"])
	})

	t.Run("active app", func(t *testing.T) {
		resp := tb.get(t, "/api/v1/devices/"+tb.deviceID+"/active-app")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, "Netflix", body["app"]["name"])
	})

	t.Run("device info", func(t *testing.T) {
		resp := tb.get(t, "/api/v1/devices/"+tb.deviceID+"/device-info")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var info map[string]string
		decodeBody(t, resp, &info)
		assert.Equal(t, "Roku 3", info["modelName"])
	})

	assert.Contains(t, tb.recordedDeviceRequests(), "GET /query/apps")
	assert.Contains(t, tb.recordedDeviceRequests(), "GET /query/active-app")
	assert.Contains(t, tb.recordedDeviceRequests(), "GET /query/device-info")
}

func TestServerForwardsActions(t *testing.T) {
	tb := newTestBridge(t)

	t.Run("keypress", func(t *testing.T) {
		resp := tb.post(t, "/api/v1/devices/"+tb.deviceID+"/keypress/Home", nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, tb.recordedDeviceRequests(), "POST /keypress/Home")
	})

	t.Run("keydown and keyup", func(t *testing.T) {
		resp := tb.post(t, "/api/v1/devices/"+tb.deviceID+"/keydown/Right", nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp = tb.post(t, "/api/v1/devices/"+tb.deviceID+"/keyup/Right", nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		assert.Contains(t, tb.recordedDeviceRequests(), "POST /keydown/Right")
		assert.Contains(t, tb.recordedDeviceRequests(), "POST /keyup/Right")
	})

	t.Run("invalid key is a client error", func(t *testing.T) {
		resp := tb.post(t, "/api/v1/devices/"+tb.deviceID+"/keypress/NotAKey", nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("launch", func(t *testing.T) {
		resp := tb.post(t, "/api/v1/devices/"+tb.deviceID+"/launch/12", nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, tb.recordedDeviceRequests(), "POST /launch/12")
	})

	t.Run("text", func(t *testing.T) {
		resp := tb.post(t, "/api/v1/devices/"+tb.deviceID+"/text", []byte(`{"text":"hi"}`))
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, tb.recordedDeviceRequests(), "POST /keypress/Lit_h")
		assert.Contains(t, tb.recordedDeviceRequests(), "POST /keypress/Lit_i")
	})

	t.Run("text without body", func(t *testing.T) {
		resp := tb.post(t, "/api/v1/devices/"+tb.deviceID+"/text", []byte(`{}`))
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestServerRecordsHistory(t *testing.T) {
	tb := newTestBridge(t)

	resp := tb.post(t, "/api/v1/devices/"+tb.deviceID+"/keypress/Home", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = tb.post(t, "/api/v1/devices/"+tb.deviceID+"/launch/12", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = tb.get(t, "/api/v1/devices/"+tb.deviceID+"/history")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []bridge.HistoryEntry
	decodeBody(t, resp, &entries)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "launch", entries[0].Action)
	assert.Equal(t, "12", entries[0].Detail)
	assert.Equal(t, "key_press", entries[1].Action)
	assert.Equal(t, "Home", entries[1].Detail)
}

func TestServerIconCaching(t *testing.T) {
	tb := newTestBridge(t)

	fetch := func() []byte {
		resp := tb.get(t, "/api/v1/devices/"+tb.deviceID+"/icon/12")
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return data
	}

	first := fetch()
	second := fetch()
	assert.Equal(t, first, second)

	// The second request is served from the cache.
	tb.mu.Lock()
	fetches := tb.iconFetches
	tb.mu.Unlock()
	assert.Equal(t, 1, fetches)
}

func TestServerIconFetchFailure(t *testing.T) {
	tb := newTestBridge(t)

	resp := tb.get(t, "/api/v1/devices/"+tb.deviceID+"/icon/404")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestServerCORSHeaders(t *testing.T) {
	tb := newTestBridge(t)

	resp := tb.get(t, "/api/v1/health")
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
