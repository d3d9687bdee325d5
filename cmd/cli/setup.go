package cli

import (
	"strings"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rokuctl/internal"
	configbook "rokuctl/internal/cli"
	"rokuctl/internal/device"
	"rokuctl/internal/logger"
	"rokuctl/internal/roku"
)

// Setup screen input fields
type setupField int

const (
	setupFieldSavedDevices setupField = iota
	setupFieldHostAddress
	setupFieldConnect
)

// SetupModel handles the device setup screen
type SetupModel struct {
	// Navigation
	focusedField setupField

	// Saved devices from the device book
	savedDevices []configbook.DeviceConfig
	selectedSaved int

	// Input fields
	hostAddress       string
	hostAddressCursor int

	// Connection state
	connecting      bool
	connectionError string

	// Connected device (when setup complete)
	device     device.Device
	deviceInfo device.DeviceInfo

	// Flags
	debugMode bool
	testMode  bool

	// Configuration
	configPath string
}

// NewSetupModel creates a new setup screen model
func NewSetupModel(debug, test bool, configPath string) SetupModel {
	model := SetupModel{
		focusedField: setupFieldHostAddress,
		debugMode:    debug,
		testMode:     test,
		configPath:   configPath,
	}

	manager := configbook.NewConfigManager(configPath)
	if devices, err := manager.ListDevices(); err == nil {
		model.savedDevices = devices
		if len(devices) > 0 {
			model.focusedField = setupFieldSavedDevices
		}
	}

	return model
}

// IsConnected reports whether setup has produced a connected device
func (m SetupModel) IsConnected() bool {
	return m.device != nil
}

// GetDevice returns the connected device
func (m SetupModel) GetDevice() device.Device {
	return m.device
}

// GetDeviceInfo returns info about the connected device
func (m SetupModel) GetDeviceInfo() device.DeviceInfo {
	return m.deviceInfo
}

// GetDebugMode returns the debug flag
func (m SetupModel) GetDebugMode() bool {
	return m.debugMode
}

// GetTestMode returns the test flag
func (m SetupModel) GetTestMode() bool {
	return m.testMode
}

// Update handles setup screen messages
func (m SetupModel) Update(msg tea.Msg) (SetupModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			return m.handleTabNavigation(msg.String() == "shift+tab"), nil

		case "enter":
			if m.focusedField == setupFieldConnect {
				return m.handleConnect()
			}
			if m.focusedField == setupFieldSavedDevices && len(m.savedDevices) > 0 {
				m.hostAddress = m.savedDevices[m.selectedSaved].Address
				m.hostAddressCursor = len(m.hostAddress)
				return m.handleConnect()
			}
			return m, nil

		case "up":
			if m.focusedField == setupFieldSavedDevices && m.selectedSaved > 0 {
				m.selectedSaved--
			}
			return m, nil

		case "down":
			if m.focusedField == setupFieldSavedDevices && m.selectedSaved < len(m.savedDevices)-1 {
				m.selectedSaved++
			}
			return m, nil

		case "left":
			if m.focusedField == setupFieldHostAddress && m.hostAddressCursor > 0 {
				m.hostAddressCursor--
			}
			return m, nil

		case "right":
			if m.focusedField == setupFieldHostAddress && m.hostAddressCursor < len(m.hostAddress) {
				m.hostAddressCursor++
			}
			return m, nil

		case "backspace":
			if m.focusedField == setupFieldHostAddress && m.hostAddressCursor > 0 {
				m.hostAddress = deleteCharAt(m.hostAddress, m.hostAddressCursor-1)
				m.hostAddressCursor--
			}
			return m, nil

		case "home":
			m.hostAddressCursor = 0
			return m, nil

		case "end":
			m.hostAddressCursor = len(m.hostAddress)
			return m, nil

		default:
			return m.handleTextInput(msg.String()), nil
		}
	}

	return m, nil
}

// View renders the setup screen
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("rokuctl - Device Setup"))
	b.WriteString("\n\n")

	// Saved devices
	if len(m.savedDevices) > 0 {
		b.WriteString(subtitleStyle.Render("Saved Devices:"))
		b.WriteString("\n")
		for i, saved := range m.savedDevices {
			cursor := "  "
			if i == m.selectedSaved {
				cursor = "> "
			}

			style := lipgloss.NewStyle()
			if m.focusedField == setupFieldSavedDevices && i == m.selectedSaved {
				style = style.Foreground(lipgloss.Color("#FF79C6"))
			}

			b.WriteString(style.Render(cursor + saved.Name + " (" + saved.Address + ")"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Host Address Input
	b.WriteString(subtitleStyle.Render("Host Address (IP or IP:Port):"))
	b.WriteString("\n")
	hostStyle := inputStyle
	showCursor := m.focusedField == setupFieldHostAddress
	if showCursor {
		hostStyle = inputFocusedStyle
	}
	hostText := renderTextWithCursor(m.hostAddress, m.hostAddressCursor, showCursor)
	b.WriteString(hostStyle.Render(hostText))
	b.WriteString("\n\n")

	// Connect Button
	connectStyle := buttonStyle
	if m.focusedField == setupFieldConnect {
		connectStyle = buttonActiveStyle
	}

	connectText := "Connect"
	if m.connecting {
		connectText = "Connecting..."
	}
	b.WriteString(connectStyle.Render(connectText))
	b.WriteString("\n")

	if m.connectionError != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ " + m.connectionError))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Tab: Next field • Enter: Connect • q: Quit"))

	return b.String()
}

// handleTabNavigation cycles focus across the setup fields
func (m SetupModel) handleTabNavigation(reverse bool) SetupModel {
	fields := []setupField{setupFieldHostAddress, setupFieldConnect}
	if len(m.savedDevices) > 0 {
		fields = []setupField{setupFieldSavedDevices, setupFieldHostAddress, setupFieldConnect}
	}

	current := 0
	for i, field := range fields {
		if field == m.focusedField {
			current = i
			break
		}
	}

	if reverse {
		current--
		if current < 0 {
			current = len(fields) - 1
		}
	} else {
		current++
		if current >= len(fields) {
			current = 0
		}
	}

	m.focusedField = fields[current]
	return m
}

// handleTextInput appends printable input to the address field
func (m SetupModel) handleTextInput(input string) SetupModel {
	if m.focusedField != setupFieldHostAddress {
		return m
	}

	printable := ""
	for _, r := range input {
		if r >= 32 && r < 127 {
			printable += string(r)
		}
	}
	if printable == "" {
		return m
	}

	m.hostAddress = insertText(m.hostAddress, m.hostAddressCursor, printable)
	m.hostAddressCursor += len(printable)
	return m
}

// handleConnect builds the device for the entered address
func (m SetupModel) handleConnect() (SetupModel, tea.Cmd) {
	address := strings.TrimSpace(m.hostAddress)
	if address == "" {
		m.connectionError = "Host address is required"
		return m, nil
	}

	options := internal.NewModeOptions(m.debugMode, m.testMode)
	remote := roku.NewRokuRemote(address, options)

	// Probe the device unless test mode is simulating responses.
	if !m.testMode {
		if _, err := remote.Client().DeviceInfo(); err != nil {
			m.connectionError = err.Error()
			log := logger.New()
			log.Error().Err(err).Str("address", address).Msg("Device probe failed")
			return m, nil
		}
	}

	m.device = remote
	m.deviceInfo = remote.GetDeviceInfo()
	m.connectionError = ""

	return m, nil
}
