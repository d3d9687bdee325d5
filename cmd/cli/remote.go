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
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rokuctl/internal/device"
	"rokuctl/internal/logger"
)

// LogEntry represents a log entry for display
type LogEntry struct {
	Timestamp time.Time
	Level     string // INF, DBG, ERR
	Message   string
	Action    string
}

// RemoteModel handles the remote control screen
type RemoteModel struct {
	// Connected device
	device     device.Device
	deviceInfo device.DeviceInfo

	// Remote control state
	selectedButton  remoteButton
	lastButtonPress time.Time

	// Text entry mode sends typed characters to the device
	textMode   bool
	textBuffer string

	// Response and history
	lastResponse  *device.ActionResponse
	actionHistory []actionHistoryEntry

	// Flags
	debugMode bool
	testMode  bool

	// Screen dimensions for responsive layout
	width  int
	height int

	// Log display
	logBuffer   []LogEntry
	maxLogLines int
}

// NewRemoteModel creates a new remote control screen model
func NewRemoteModel(dev device.Device, info device.DeviceInfo, debug, test bool) RemoteModel {
	return RemoteModel{
		device:        dev,
		deviceInfo:    info,
		actionHistory: []actionHistoryEntry{},
		debugMode:     debug,
		testMode:      test,
		logBuffer:     []LogEntry{},
		maxLogLines:   3,
	}
}

// Update handles remote control screen messages
func (m RemoteModel) Update(msg tea.Msg) (RemoteModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.textMode {
			return m.handleTextModeKey(msg)
		}

		switch msg.String() {
		// Navigation keys
		case "up":
			return m.handleRemoteButton(buttonUp)
		case "down":
			return m.handleRemoteButton(buttonDown)
		case "left":
			return m.handleRemoteButton(buttonLeft)
		case "right":
			return m.handleRemoteButton(buttonRight)
		case "enter":
			return m.handleRemoteButton(buttonOK)

		// Power and volume
		case "p":
			return m.handleRemoteButton(buttonPower)
		case "+", "=":
			return m.handleRemoteButton(buttonVolumeUp)
		case "-":
			return m.handleRemoteButton(buttonVolumeDown)
		case "m":
			return m.handleRemoteButton(buttonMute)

		// Channel controls
		case "ctrl+up":
			return m.handleRemoteButton(buttonChannelUp)
		case "ctrl+down":
			return m.handleRemoteButton(buttonChannelDown)

		// Function keys
		case "h":
			return m.handleRemoteButton(buttonHome)
		case "backspace":
			return m.handleRemoteButton(buttonBack)
		case "i":
			return m.handleRemoteButton(buttonInfo)
		case "r":
			return m.handleRemoteButton(buttonInstantReplay)
		case "s":
			return m.handleRemoteButton(buttonSearch)

		// Playback
		case " ":
			return m.handleRemoteButton(buttonPlay)
		case "u":
			return m.handleRemoteButton(buttonPause)
		case ",":
			return m.handleRemoteButton(buttonRev)
		case ".":
			return m.handleRemoteButton(buttonFwd)

		// Text entry mode
		case "t":
			m.textMode = true
			m.textBuffer = ""
			return m, nil
		}
	}

	return m, nil
}

// handleTextModeKey collects a string and sends it on enter
func (m RemoteModel) handleTextModeKey(msg tea.KeyMsg) (RemoteModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.textMode = false
		m.textBuffer = ""
		return m, nil

	case "enter":
		text := m.textBuffer
		m.textMode = false
		m.textBuffer = ""
		if text == "" {
			return m, nil
		}
		return m.executeAction(device.ActionRequest{
			Type:       device.ActionTypeControl,
			Action:     string(device.ControlActionText),
			Parameters: map[string]interface{}{"text": text},
		}, "text")

	case "backspace":
		if len(m.textBuffer) > 0 {
			m.textBuffer = m.textBuffer[:len(m.textBuffer)-1]
		}
		return m, nil

	default:
		input := msg.String()
		for _, r := range input {
			if r >= 32 && r < 127 {
				m.textBuffer += string(r)
			}
		}
		return m, nil
	}
}

// View renders the remote control screen
func (m RemoteModel) View() string {
	var sections []string

	// Header
	sections = append(sections, titleStyle.Render("rokuctl - Remote Control"))

	// Device Info (compact single line)
	deviceLine := successStyle.Render("📺 " + m.deviceInfo.Model + " @ " + m.deviceInfo.Address)
	if m.testMode {
		deviceLine += " " + lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C")).Render("(Test)")
	}
	sections = append(sections, deviceLine)

	// Remote Control Layout
	sections = append(sections, m.renderRemoteLayout())

	// Text entry field
	if m.textMode {
		sections = append(sections,
			subtitleStyle.Render("Text entry:")+"\n"+
				inputFocusedStyle.Render(renderTextWithCursor(m.textBuffer, len(m.textBuffer), true)))
	}

	// Status (if recent action)
	if m.lastResponse != nil {
		sections = append(sections, m.renderStatusBar())
	}

	// Log display (if debug or test mode)
	if m.debugMode || m.testMode {
		logDisplay := m.renderLogDisplay()
		if logDisplay != "" {
			sections = append(sections, logDisplay)
		}
	}

	// Help Text
	sections = append(sections, m.renderHelpText())

	return strings.Join(sections, "\n\n")
}

// renderRemoteLayout creates a horizontal remote control layout
func (m RemoteModel) renderRemoteLayout() string {
	getButtonStyle := func(btn remoteButton) lipgloss.Style {
		base := remoteButtonStyle
		if m.selectedButton == btn && time.Since(m.lastButtonPress) < 200*time.Millisecond {
			base = remoteButtonActiveStyle
		}
		return base
	}

	// Left column: Navigation
	navColumn := lipgloss.JoinVertical(lipgloss.Center,
		getButtonStyle(buttonPower).Render(" PWR  "),
		"",
		getButtonStyle(buttonUp).Render("  ↑   "),
		lipgloss.JoinHorizontal(lipgloss.Center,
			getButtonStyle(buttonLeft).Render("  ←   "),
			getButtonStyle(buttonOK).Render(" OK   "),
			getButtonStyle(buttonRight).Render("  →   ")),
		getButtonStyle(buttonDown).Render("  ↓   "),
	)

	// Middle column: Volume & Channel
	volumeColumn := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD")).Render("Volume & Channel:"),
		lipgloss.JoinHorizontal(lipgloss.Left,
			getButtonStyle(buttonVolumeUp).Render("VOL + "),
			"  ",
			getButtonStyle(buttonChannelUp).Render("CH +  ")),
		lipgloss.JoinHorizontal(lipgloss.Left,
			getButtonStyle(buttonVolumeDown).Render("VOL - "),
			"  ",
			getButtonStyle(buttonChannelDown).Render("CH -  ")),
		getButtonStyle(buttonMute).Render("MUTE  "),
	)

	// Right column: Functions & Playback
	functionColumn := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C")).Render("Functions:"),
		lipgloss.JoinHorizontal(lipgloss.Left,
			getButtonStyle(buttonHome).Render("HOME  "),
			" ",
			getButtonStyle(buttonBack).Render("BACK  ")),
		lipgloss.JoinHorizontal(lipgloss.Left,
			getButtonStyle(buttonInfo).Render("INFO  "),
			" ",
			getButtonStyle(buttonInstantReplay).Render("RPLAY ")),
		getButtonStyle(buttonSearch).Render("SEARCH"),
		"",
		lipgloss.NewStyle().Foreground(lipgloss.Color("#BD93F9")).Render("Playback:"),
		lipgloss.JoinHorizontal(lipgloss.Left,
			getButtonStyle(buttonRev).Render(" <<   "),
			" ",
			getButtonStyle(buttonPlay).Render(" >||  "),
			" ",
			getButtonStyle(buttonFwd).Render(" >>   ")),
	)

	navHeader := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#50FA7B")).
		Render("Power & Navigation:")

	navColumnWithHeader := lipgloss.JoinVertical(lipgloss.Center,
		navHeader,
		navColumn,
	)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		navColumnWithHeader,
		strings.Repeat(" ", 6),
		volumeColumn,
		strings.Repeat(" ", 6),
		functionColumn,
	)
}

// renderStatusBar creates the status bar with last action result
func (m RemoteModel) renderStatusBar() string {
	if m.lastResponse == nil {
		return ""
	}

	var status string
	if m.lastResponse.Success {
		status = successStyle.Render("✓ Action successful")
		if m.lastResponse.Data != nil {
			status += fmt.Sprintf(": %v", m.lastResponse.Data)
		}
	} else {
		status = errorStyle.Render("✗ " + m.lastResponse.Error)
	}

	return status
}

// renderLogDisplay creates a fixed-height log display area
func (m RemoteModel) renderLogDisplay() string {
	if len(m.logBuffer) == 0 {
		return ""
	}

	maxLines := m.maxLogLines

	start := 0
	if len(m.logBuffer) > maxLines {
		start = len(m.logBuffer) - maxLines
	}

	var logLines []string

	hasMoreLogs := len(m.logBuffer) > maxLines
	autoScrollIcon := ""
	if hasMoreLogs {
		autoScrollIcon = " ↓"
	}

	header := fmt.Sprintf("─── LOGS%s ───", autoScrollIcon)
	logLines = append(logLines, lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6272A4")).
		Render(header))

	for i := 0; i < maxLines; i++ {
		if start+i < len(m.logBuffer) {
			entry := m.logBuffer[start+i]
			timestamp := entry.Timestamp.Format("15:04:05")

			var levelStyle lipgloss.Style
			switch entry.Level {
			case "ERR":
				levelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
			case "DBG":
				levelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
			default: // INF
				levelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
			}

			logLine := fmt.Sprintf("%s [%s] %s",
				timestamp,
				levelStyle.Render(entry.Level),
				entry.Message)

			if len(logLine) > 70 {
				logLine = logLine[:67] + "..."
			}

			logLines = append(logLines, logLine)
		} else {
			logLines = append(logLines, "")
		}
	}

	return strings.Join(logLines, "\n")
}

// addLogEntry adds a new log entry to the buffer
func (m *RemoteModel) addLogEntry(level, message, action string) {
	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Action:    action,
	}

	m.logBuffer = append(m.logBuffer, entry)

	if len(m.logBuffer) > 20 {
		m.logBuffer = m.logBuffer[1:]
	}
}

// renderHelpText creates the help text at the bottom
func (m RemoteModel) renderHelpText() string {
	if m.textMode {
		return "\n" + helpStyle.Render("Type text • Enter: Send • Esc: Cancel")
	}

	help := "Arrows: Navigate • Enter: OK • P: Power • +/-: Volume • M: Mute • Space: Play"
	if m.width > 100 {
		help += " • H: Home • I: Info • R: Replay • T: Text • q: Disconnect"
	} else {
		help += " • T: Text • q: Disconnect"
	}

	return "\n" + helpStyle.Render(help)
}

// buttonActions maps remote buttons to device action names
var buttonActions = map[remoteButton]device.RemoteAction{
	buttonPower:         device.RemoteActionPowerOff,
	buttonVolumeUp:      device.RemoteActionVolumeUp,
	buttonVolumeDown:    device.RemoteActionVolumeDown,
	buttonMute:          device.RemoteActionMute,
	buttonChannelUp:     device.RemoteActionChannelUp,
	buttonChannelDown:   device.RemoteActionChannelDown,
	buttonUp:            device.RemoteActionUp,
	buttonDown:          device.RemoteActionDown,
	buttonLeft:          device.RemoteActionLeft,
	buttonRight:         device.RemoteActionRight,
	buttonOK:            device.RemoteActionSelect,
	buttonHome:          device.RemoteActionHome,
	buttonBack:          device.RemoteActionBack,
	buttonInfo:          device.RemoteActionInfo,
	buttonInstantReplay: device.RemoteActionInstantReplay,
	buttonPlay:          device.RemoteActionPlay,
	buttonPause:         device.RemoteActionPause,
	buttonRev:           device.RemoteActionRev,
	buttonFwd:           device.RemoteActionFwd,
	buttonSearch:        device.RemoteActionSearch,
}

// handleRemoteButton executes a remote control action
func (m RemoteModel) handleRemoteButton(button remoteButton) (RemoteModel, tea.Cmd) {
	if m.device == nil {
		return m, nil
	}

	action, ok := buttonActions[button]
	if !ok {
		return m, nil
	}

	m.selectedButton = button
	m.lastButtonPress = time.Now()

	return m.executeAction(device.ActionRequest{
		Type:   device.ActionTypeRemote,
		Action: string(action),
	}, string(action))
}

// executeAction runs a device action and records the outcome
func (m RemoteModel) executeAction(request device.ActionRequest, actionName string) (RemoteModel, tea.Cmd) {
	actionJSON, err := json.Marshal(request)
	if err != nil {
		m.lastResponse = &device.ActionResponse{
			Success: false,
			Error:   err.Error(),
		}
		return m, nil
	}

	response, err := m.device.Process(actionJSON)
	if err != nil {
		response = &device.ActionResponse{
			Success: false,
			Error:   err.Error(),
		}
	}

	m.lastResponse = response

	// Add log entry for display (if debug or test mode)
	if m.debugMode || m.testMode {
		var logLevel string
		var logMessage string

		if response.Success {
			logLevel = "INF"
			if m.testMode {
				logMessage = fmt.Sprintf("Test mode: %s action simulated", actionName)
			} else {
				logMessage = fmt.Sprintf("%s action completed successfully", actionName)
			}
		} else {
			logLevel = "ERR"
			logMessage = fmt.Sprintf("%s failed: %s", actionName, response.Error)
		}

		m.addLogEntry(logLevel, logMessage, actionName)
	}

	// Add to history
	entry := actionHistoryEntry{
		Timestamp: time.Now(),
		Action:    string(actionJSON),
		Success:   response.Success,
	}

	if response.Success {
		if data, err := json.MarshalIndent(response.Data, "", "  "); err == nil {
			entry.Response = string(data)
		} else {
			entry.Response = fmt.Sprintf("%v", response.Data)
		}
	} else {
		entry.Error = response.Error
	}

	m.actionHistory = append([]actionHistoryEntry{entry}, m.actionHistory...)
	if len(m.actionHistory) > 50 {
		m.actionHistory = m.actionHistory[:50]
	}

	log := logger.New()
	log.Info().
		Str("action", string(actionJSON)).
		Bool("success", response.Success).
		Msg("Remote action executed")

	return m, nil
}
