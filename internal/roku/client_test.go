package roku_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rokuctl/internal/roku"
)

// recordingServer captures every request so tests can assert on exact
// methods, paths and ordering.
type recordingServer struct {
	mu       sync.Mutex
	requests []string

	server *httptest.Server
}

func newRecordingServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *recordingServer {
	t.Helper()

	rs := &recordingServer{}
	rs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		rs.requests = append(rs.requests, r.Method+" "+r.URL.EscapedPath())
		rs.mu.Unlock()

		if handler != nil {
			handler(w, r)
		}
	}))
	t.Cleanup(rs.server.Close)

	return rs
}

func (rs *recordingServer) recorded() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]string(nil), rs.requests...)
}

func TestNewClientAddsScheme(t *testing.T) {
	client := roku.NewClient("192.168.1.50:8060", false)
	assert.Equal(t, "http://192.168.1.50:8060", client.BaseURL())

	client = roku.NewClient("http://192.168.1.50:8060/", false)
	assert.Equal(t, "http://192.168.1.50:8060", client.BaseURL())
}

func TestClientApps(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<apps>
			<app id="12" type="appl" version="4.1.218">Netflix</app>
			<app id="2213" type="appl" version="4.1.402">Roku Media Player</app>
		</apps>`))
	})

	client := roku.NewClient(rs.server.URL, false)

	apps, err := client.Apps()
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "Netflix", apps[0].Name)
	assert.Equal(t, "2213", apps[1].ID)

	// Queries are idempotent; a second call repeats the same request.
	_, err = client.Apps()
	require.NoError(t, err)

	assert.Equal(t, []string{"GET /query/apps", "GET /query/apps"}, rs.recorded())
}

func TestClientActiveApp(t *testing.T) {
	t.Run("active app present", func(t *testing.T) {
		rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<active-app><app id="12" type="appl" version="4.1.218">Netflix</app></active-app>`))
		})

		app, err := roku.NewClient(rs.server.URL, false).ActiveApp()
		require.NoError(t, err)
		require.NotNil(t, app)
		assert.Equal(t, "Netflix", app.Name)
		assert.Equal(t, []string{"GET /query/active-app"}, rs.recorded())
	})

	t.Run("no active app", func(t *testing.T) {
		rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<active-app></active-app>`))
		})

		app, err := roku.NewClient(rs.server.URL, false).ActiveApp()
		require.NoError(t, err)
		assert.Nil(t, app)
	})

	t.Run("ambiguous response", func(t *testing.T) {
		rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<active-app>
				<app id="12" type="appl" version="1">Netflix</app>
				<app id="13" type="appl" version="1">Amazon Video on Demand</app>
			</active-app>`))
		})

		_, err := roku.NewClient(rs.server.URL, false).ActiveApp()
		require.Error(t, err)
		assert.ErrorIs(t, err, roku.ErrAmbiguousActiveApp)
	})
}

func TestClientDeviceInfo(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<device-info>
			<model-name>Roku 3</model-name>
			<serial-number>1GU48T017973</serial-number>
		</device-info>`))
	})

	info, err := roku.NewClient(rs.server.URL, false).DeviceInfo()
	require.NoError(t, err)
	assert.Equal(t, "Roku 3", info["modelName"])
	assert.Equal(t, "1GU48T017973", info["serialNumber"])
	assert.Equal(t, []string{"GET /query/device-info"}, rs.recorded())
}

func TestClientKeyActions(t *testing.T) {
	rs := newRecordingServer(t, nil)
	client := roku.NewClient(rs.server.URL, false)

	require.NoError(t, client.Keypress("VolumeUp"))
	require.NoError(t, client.Keydown("Right"))
	require.NoError(t, client.Keyup("Right"))
	require.NoError(t, client.Keypress("a"))
	require.NoError(t, client.Keypress("€"))

	assert.Equal(t, []string{
		"POST /keypress/VolumeUp",
		"POST /keydown/Right",
		"POST /keyup/Right",
		"POST /keypress/Lit_a",
		"POST /keypress/Lit_%E2%82%AC",
	}, rs.recorded())
}

func TestClientKeyActionRejectsInvalidInputWithoutRequest(t *testing.T) {
	rs := newRecordingServer(t, nil)
	client := roku.NewClient(rs.server.URL, false)

	err := client.Keypress("not a key")
	require.Error(t, err)
	assert.ErrorIs(t, err, roku.ErrInvalidInput)
	assert.Empty(t, rs.recorded())
}

func TestClientLaunch(t *testing.T) {
	rs := newRecordingServer(t, nil)

	require.NoError(t, roku.NewClient(rs.server.URL, false).Launch("12345"))
	assert.Equal(t, []string{"POST /launch/12345"}, rs.recorded())
}

func TestClientText(t *testing.T) {
	rs := newRecordingServer(t, nil)

	require.NoError(t, roku.NewClient(rs.server.URL, false).Text("hello"))
	assert.Equal(t, []string{
		"POST /keypress/Lit_h",
		"POST /keypress/Lit_e",
		"POST /keypress/Lit_l",
		"POST /keypress/Lit_l",
		"POST /keypress/Lit_o",
	}, rs.recorded())
}

func TestClientTextStopsOnFirstFailure(t *testing.T) {
	var count int
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		count++
		if count == 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})

	err := roku.NewClient(rs.server.URL, false).Text("hello")
	require.Error(t, err)
	assert.Len(t, rs.recorded(), 3)
}

func TestClientActionErrorStatus(t *testing.T) {
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("not allowed"))
	})

	err := roku.NewClient(rs.server.URL, false).Keypress("Home")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestClientIcon(t *testing.T) {
	iconBytes := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

	t.Run("downloads and names by content type", func(t *testing.T) {
		rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			w.Write(iconBytes)
		})

		dir := t.TempDir()
		path, err := roku.NewClient(rs.server.URL, false).Icon("12", dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "12.png"), path)

		written, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, iconBytes, written)
		assert.Equal(t, []string{"GET /icon/12"}, rs.recorded())
	})

	t.Run("strips content type parameters", func(t *testing.T) {
		rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/jpeg; charset=binary")
			w.Write(iconBytes)
		})

		path, err := roku.NewClient(rs.server.URL, false).Icon("13", t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, ".jpg", filepath.Ext(path))
	})

	t.Run("unknown content type", func(t *testing.T) {
		rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Write(iconBytes)
		})

		_, err := roku.NewClient(rs.server.URL, false).Icon("12", t.TempDir())
		require.Error(t, err)
		assert.ErrorIs(t, err, roku.ErrIconFetch)
	})

	t.Run("missing icon", func(t *testing.T) {
		rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := roku.NewClient(rs.server.URL, false).Icon("999", t.TempDir())
		require.Error(t, err)
		assert.ErrorIs(t, err, roku.ErrIconFetch)
	})

	t.Run("custom extension resolver", func(t *testing.T) {
		rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/webp")
			w.Write(iconBytes)
		})

		client := roku.NewClient(rs.server.URL, false)
		client.ExtensionFor = func(contentType string) (string, bool) {
			if contentType == "image/webp" {
				return ".webp", true
			}
			return "", false
		}

		path, err := client.Icon("14", t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, ".webp", filepath.Ext(path))
	})
}
