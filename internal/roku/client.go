package roku

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"rokuctl/internal/logger"
)

// Request paths of the device's external control protocol. Query paths use
// GET, everything else uses POST.
const (
	appsPath       = "/query/apps"
	activeAppPath  = "/query/active-app"
	deviceInfoPath = "/query/device-info"
	keypressPath   = "/keypress/"
	keydownPath    = "/keydown/"
	keyupPath      = "/keyup/"
	launchPath     = "/launch/"
	iconPath       = "/icon/"
)

// defaultIconExtensions resolves icon content types to file extensions.
var defaultIconExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/gif":  ".gif",
}

// Client drives a single device over its HTTP control protocol. A Client
// holds no mutable state, so independent instances may operate in parallel;
// ordering guarantees apply only within one call such as Text.
type Client struct {
	httpClient *http.Client
	baseURL    string
	debug      bool
	logger     zerolog.Logger

	// ExtensionFor resolves an icon response's content type to a file
	// extension. Replaceable so callers can widen the recognized set.
	ExtensionFor func(contentType string) (string, bool)
}

// NewClient creates a client for the device at address. A bare host or
// host:port is completed with an http scheme.
func NewClient(address string, debug bool) *Client {
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}

	client := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(address, "/"),
		debug:   debug,
		logger:  logger.New(),
	}
	client.ExtensionFor = func(contentType string) (string, bool) {
		ext, ok := defaultIconExtensions[contentType]
		return ext, ok
	}

	if debug {
		logger.SetLevel("debug")
	}

	return client
}

// BaseURL returns the normalized device address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Apps queries the installed application list in device order.
func (c *Client) Apps() (Apps, error) {
	body, err := c.get(appsPath)
	if err != nil {
		return nil, err
	}
	return decodeApps(body)
}

// ActiveApp queries the foregrounded application. It returns nil when no
// app is active and ErrAmbiguousActiveApp when the device reports more
// than one entry.
func (c *Client) ActiveApp() (*App, error) {
	body, err := c.get(activeAppPath)
	if err != nil {
		return nil, err
	}
	return decodeActiveApp(body)
}

// DeviceInfo queries device metadata as a flat camelCase dictionary.
func (c *Client) DeviceInfo() (DeviceInfo, error) {
	body, err := c.get(deviceInfoPath)
	if err != nil {
		return nil, err
	}
	return decodeDeviceInfo(body)
}

// Keypress sends a single press of a named key or literal character.
func (c *Client) Keypress(input string) error {
	return c.keyAction(keypressPath, input)
}

// Keydown starts holding a key; pair with Keyup to release it.
func (c *Client) Keydown(input string) error {
	return c.keyAction(keydownPath, input)
}

// Keyup releases a key held by Keydown.
func (c *Client) Keyup(input string) error {
	return c.keyAction(keyupPath, input)
}

func (c *Client) keyAction(path, input string) error {
	token, err := EncodeKey(input)
	if err != nil {
		return err
	}
	return c.post(path + token)
}

// Launch starts the application with the given id.
func (c *Client) Launch(appID string) error {
	return c.post(launchPath + appID)
}

// Text types s by sending one keypress per character, waiting for each
// acknowledgment before issuing the next so the device receives the
// characters in order.
func (c *Client) Text(s string) error {
	for _, r := range s {
		if err := c.Keypress(string(r)); err != nil {
			return err
		}
	}
	return nil
}

// Icon downloads the application's icon into dir, naming the file after the
// app id with an extension derived from the response content type, and
// returns the written path.
func (c *Client) Icon(appID, dir string) (string, error) {
	url := c.baseURL + iconPath + appID

	if c.debug {
		c.logger.Debug().
			Str("url", url).
			Msg("Fetching app icon")
	}

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIconFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrIconFetch, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	ext, ok := c.ExtensionFor(contentType)
	if !ok {
		return "", fmt.Errorf("%w: unknown content type %q", ErrIconFetch, contentType)
	}

	path := filepath.Join(dir, appID+ext)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIconFetch, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrIconFetch, err)
	}

	return path, nil
}

// get issues a query request and returns the raw body on any 2xx status.
func (c *Client) get(path string) ([]byte, error) {
	url := c.baseURL + path

	if c.debug {
		c.logger.Debug().
			Str("url", url).
			Msg("Sending query request")
	}

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to send query request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read query response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if c.debug {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("body", string(body)).
				Msg("Query request failed")
		}
		return nil, fmt.Errorf("query request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// post issues a mutation request; any 2xx acknowledgment succeeds and the
// body is ignored.
func (c *Client) post(path string) error {
	url := c.baseURL + path

	if c.debug {
		c.logger.Debug().
			Str("url", url).
			Msg("Sending action request")
	}

	resp, err := c.httpClient.Post(url, "", nil)
	if err != nil {
		return fmt.Errorf("failed to send action request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		if c.debug {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("body", string(body)).
				Msg("Action request failed")
		}
		return fmt.Errorf("action request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
