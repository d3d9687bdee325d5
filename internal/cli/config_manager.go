// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// ConfigManager handles device book file operations
type ConfigManager struct {
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(configPath string) *ConfigManager {
	return &ConfigManager{
		configPath: configPath,
	}
}

// LoadConfig loads the device book, creating an empty one on first use
func (cm *ConfigManager) LoadConfig() (*Config, error) {
	if _, err := os.Stat(cm.configPath); os.IsNotExist(err) {
		defaultConfig := NewDefaultConfig()
		if err := cm.SaveConfig(defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return defaultConfig, nil
	}

	config, err := LoadConfig(cm.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return config, nil
}

// SaveConfig saves the device book
func (cm *ConfigManager) SaveConfig(config *Config) error {
	if err := SaveConfig(config, cm.configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// AddDevice adds a new device to the book, assigning an ID when none is set
func (cm *ConfigManager) AddDevice(device DeviceConfig) (DeviceConfig, error) {
	config, err := cm.LoadConfig()
	if err != nil {
		return DeviceConfig{}, err
	}

	if device.ID == "" {
		device.ID = uuid.NewString()
	}

	for _, existing := range config.Devices {
		if existing.ID == device.ID {
			return DeviceConfig{}, fmt.Errorf("device with ID '%s' already exists", device.ID)
		}
	}

	config.Devices = append(config.Devices, device)

	if err := cm.SaveConfig(config); err != nil {
		return DeviceConfig{}, err
	}
	return device, nil
}

// UpdateDevice updates an existing device in the book
func (cm *ConfigManager) UpdateDevice(deviceID string, updated DeviceConfig) error {
	config, err := cm.LoadConfig()
	if err != nil {
		return err
	}

	for i, device := range config.Devices {
		if device.ID == deviceID {
			// Keep the same ID
			updated.ID = deviceID
			config.Devices[i] = updated
			return cm.SaveConfig(config)
		}
	}

	return fmt.Errorf("device with ID '%s' not found", deviceID)
}

// RemoveDevice removes a device from the book
func (cm *ConfigManager) RemoveDevice(deviceID string) error {
	config, err := cm.LoadConfig()
	if err != nil {
		return err
	}

	for i, device := range config.Devices {
		if device.ID == deviceID {
			config.Devices = append(config.Devices[:i], config.Devices[i+1:]...)
			return cm.SaveConfig(config)
		}
	}

	return fmt.Errorf("device with ID '%s' not found", deviceID)
}

// GetDevice gets a specific device from the book
func (cm *ConfigManager) GetDevice(deviceID string) (*DeviceConfig, error) {
	config, err := cm.LoadConfig()
	if err != nil {
		return nil, err
	}

	for _, device := range config.Devices {
		if device.ID == deviceID {
			return &device, nil
		}
	}

	return nil, fmt.Errorf("device with ID '%s' not found", deviceID)
}

// GetDeviceByName finds a device by its display name
func (cm *ConfigManager) GetDeviceByName(name string) (*DeviceConfig, error) {
	config, err := cm.LoadConfig()
	if err != nil {
		return nil, err
	}

	for _, device := range config.Devices {
		if device.Name == name {
			return &device, nil
		}
	}

	return nil, fmt.Errorf("device named '%s' not found", name)
}

// ListDevices returns all devices from the book
func (cm *ConfigManager) ListDevices() ([]DeviceConfig, error) {
	config, err := cm.LoadConfig()
	if err != nil {
		return nil, err
	}

	return config.Devices, nil
}

// DeviceExists checks if a device with the given ID exists
func (cm *ConfigManager) DeviceExists(deviceID string) bool {
	_, err := cm.GetDevice(deviceID)
	return err == nil
}

// GetConfigPath returns the configuration file path
func (cm *ConfigManager) GetConfigPath() string {
	return cm.configPath
}
