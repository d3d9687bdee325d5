package roku

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// appsDocument matches both the app-list and active-app documents; each
// wraps zero or more <app> entries directly under the root element.
type appsDocument struct {
	Apps []App `xml:"app"`
}

type infoDocument struct {
	Fields []infoField `xml:",any"`
}

type infoField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// decodeApps extracts every app entry in document order. Zero entries is a
// valid empty list, not an error.
func decodeApps(body []byte) (Apps, error) {
	var doc appsDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse app list response: %w", err)
	}
	apps := make(Apps, 0, len(doc.Apps))
	for _, app := range doc.Apps {
		app.Name = strings.TrimSpace(app.Name)
		apps = append(apps, app)
	}
	return apps, nil
}

// decodeActiveApp enforces the at-most-one rule for the active-app query:
// zero entries means no app is in the foreground, one entry is the answer,
// and anything more is a device inconsistency surfaced as an error.
func decodeActiveApp(body []byte) (*App, error) {
	apps, err := decodeApps(body)
	if err != nil {
		return nil, err
	}
	switch len(apps) {
	case 0:
		return nil, nil
	case 1:
		app := apps[0]
		return &app, nil
	default:
		return nil, fmt.Errorf("%w: got %d entries", ErrAmbiguousActiveApp, len(apps))
	}
}

// decodeDeviceInfo flattens the direct children of the device-info document
// into a map, converting each hyphenated tag name to camelCase and trimming
// the text content.
func decodeDeviceInfo(body []byte) (DeviceInfo, error) {
	var doc infoDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse device info response: %w", err)
	}
	if len(doc.Fields) == 0 {
		return nil, ErrMalformedInfoResponse
	}
	info := make(DeviceInfo, len(doc.Fields))
	for _, field := range doc.Fields {
		info[camelCase(field.XMLName.Local)] = strings.TrimSpace(field.Value)
	}
	return info, nil
}

// camelCase converts a hyphenated tag name such as "model-name" to
// "modelName". The first segment keeps its casing.
func camelCase(tag string) string {
	parts := strings.Split(tag, "-")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
