package bridge

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// iconEntry is a cached icon payload with its content type
type iconEntry struct {
	Data        []byte
	ContentType string
}

// IconCache keeps recently fetched app icons so repeated requests do not
// hit the device again. Icons are immutable per app id in practice, so
// eviction is purely size-based.
type IconCache struct {
	cache *lru.Cache[string, iconEntry]
}

// NewIconCache creates a bounded icon cache
func NewIconCache(maxSize int) (*IconCache, error) {
	if maxSize <= 0 {
		maxSize = 128
	}

	cache, err := lru.New[string, iconEntry](maxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create icon cache: %w", err)
	}

	return &IconCache{cache: cache}, nil
}

func iconKey(deviceID, appID string) string {
	return deviceID + "/" + appID
}

// Get returns a cached icon for the device/app pair
func (ic *IconCache) Get(deviceID, appID string) (iconEntry, bool) {
	return ic.cache.Get(iconKey(deviceID, appID))
}

// Add stores an icon for the device/app pair
func (ic *IconCache) Add(deviceID, appID string, data []byte, contentType string) {
	ic.cache.Add(iconKey(deviceID, appID), iconEntry{Data: data, ContentType: contentType})
}

// Len returns the number of cached icons
func (ic *IconCache) Len() int {
	return ic.cache.Len()
}
