package roku

import (
	"fmt"
	"os"

	"rokuctl/internal"
	"rokuctl/internal/device"
)

// RokuRemote implements the Device interface for Roku devices
type RokuRemote struct {
	client *Client
	info   device.DeviceInfo
	test   bool
}

// NewRokuRemote creates a new RokuRemote device
func NewRokuRemote(address string, options internal.FnModeOptions) *RokuRemote {
	client := NewClient(address, options.Debug)

	return &RokuRemote{
		client: client,
		test:   options.Test,
		info: device.DeviceInfo{
			Type:    "roku",
			Model:   "Roku",
			Address: address,
			Capabilities: []string{
				"remote_control",
				"app_control",
				"text_input",
				"device_info",
			},
		},
	}
}

// GetDeviceInfo returns information about this Roku device
func (r *RokuRemote) GetDeviceInfo() device.DeviceInfo {
	return r.info
}

// Client returns the underlying protocol client.
func (r *RokuRemote) Client() *Client {
	return r.client
}

// Process handles JSON action requests and routes them to appropriate methods
func (r *RokuRemote) Process(actionJSON []byte) (*device.ActionResponse, error) {
	request, err := device.ParseActionRequest(actionJSON)
	if err != nil {
		return &device.ActionResponse{
			Success: false,
			Error:   err.Error(),
		}, nil
	}

	switch request.Type {
	case device.ActionTypeRemote:
		return r.processRemoteAction(request)
	case device.ActionTypeControl:
		return r.processControlAction(request)
	default:
		return &device.ActionResponse{
			Success: false,
			Error:   fmt.Sprintf("unsupported action type: %s", request.Type),
		}, nil
	}
}

// processRemoteAction handles remote control key actions
func (r *RokuRemote) processRemoteAction(request *device.ActionRequest) (*device.ActionResponse, error) {
	key, exists := remoteActionMap[device.RemoteAction(request.Action)]
	if !exists {
		return &device.ActionResponse{
			Success: false,
			Error:   fmt.Sprintf("unsupported remote action: %s", request.Action),
		}, nil
	}

	if r.test {
		return &device.ActionResponse{
			Success: true,
			Data:    fmt.Sprintf("Simulated key press '%s'", key),
		}, nil
	}

	if err := r.client.Keypress(string(key)); err != nil {
		return &device.ActionResponse{
			Success: false,
			Error:   fmt.Sprintf("key press failed: %v", err),
		}, nil
	}

	return &device.ActionResponse{
		Success: true,
		Data:    fmt.Sprintf("Key '%s' pressed", key),
	}, nil
}

// processControlAction handles query, launch, text and icon actions
func (r *RokuRemote) processControlAction(request *device.ActionRequest) (*device.ActionResponse, error) {
	if r.test {
		return &device.ActionResponse{
			Success: true,
			Data:    fmt.Sprintf("Simulated control action '%s'", request.Action),
		}, nil
	}

	switch device.ControlAction(request.Action) {
	case device.ControlActionAppList:
		apps, err := r.client.Apps()
		if err != nil {
			return failure("app list query failed", err), nil
		}
		return &device.ActionResponse{Success: true, Data: apps}, nil

	case device.ControlActionActiveApp:
		app, err := r.client.ActiveApp()
		if err != nil {
			return failure("active app query failed", err), nil
		}
		if app == nil {
			return &device.ActionResponse{Success: true, Data: "no active app"}, nil
		}
		return &device.ActionResponse{Success: true, Data: app}, nil

	case device.ControlActionDeviceInfo:
		info, err := r.client.DeviceInfo()
		if err != nil {
			return failure("device info query failed", err), nil
		}
		return &device.ActionResponse{Success: true, Data: info}, nil

	case device.ControlActionLaunch:
		appID, err := stringParam(request.Parameters, "app_id")
		if err != nil {
			return failure("invalid parameters", err), nil
		}
		if err := r.client.Launch(appID); err != nil {
			return failure("launch failed", err), nil
		}
		return &device.ActionResponse{Success: true, Data: fmt.Sprintf("Launched app %s", appID)}, nil

	case device.ControlActionText:
		text, err := stringParam(request.Parameters, "text")
		if err != nil {
			return failure("invalid parameters", err), nil
		}
		if err := r.client.Text(text); err != nil {
			return failure("text entry failed", err), nil
		}
		return &device.ActionResponse{Success: true, Data: "Text sent"}, nil

	case device.ControlActionIcon:
		appID, err := stringParam(request.Parameters, "app_id")
		if err != nil {
			return failure("invalid parameters", err), nil
		}
		dir := os.TempDir()
		if d, err := stringParam(request.Parameters, "dir"); err == nil {
			dir = d
		}
		path, err := r.client.Icon(appID, dir)
		if err != nil {
			return failure("icon fetch failed", err), nil
		}
		return &device.ActionResponse{Success: true, Data: path}, nil

	default:
		return &device.ActionResponse{
			Success: false,
			Error:   fmt.Sprintf("unsupported control action: %s", request.Action),
		}, nil
	}
}

func failure(msg string, err error) *device.ActionResponse {
	return &device.ActionResponse{
		Success: false,
		Error:   fmt.Sprintf("%s: %v", msg, err),
	}
}

func stringParam(params map[string]interface{}, name string) (string, error) {
	if params == nil {
		return "", fmt.Errorf("parameter %q is required", name)
	}
	value, exists := params[name]
	if !exists {
		return "", fmt.Errorf("parameter %q is required", name)
	}
	s, ok := value.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", name)
	}
	return s, nil
}

// remoteActionMap maps RemoteAction names to protocol keys
var remoteActionMap = map[device.RemoteAction]Key{
	device.RemoteActionPowerOn:       KeyPowerOn,
	device.RemoteActionPowerOff:      KeyPowerOff,
	device.RemoteActionVolumeUp:      KeyVolumeUp,
	device.RemoteActionVolumeDown:    KeyVolumeDown,
	device.RemoteActionMute:          KeyVolumeMute,
	device.RemoteActionChannelUp:     KeyChannelUp,
	device.RemoteActionChannelDown:   KeyChannelDown,
	device.RemoteActionUp:            KeyUp,
	device.RemoteActionDown:          KeyDown,
	device.RemoteActionLeft:          KeyLeft,
	device.RemoteActionRight:         KeyRight,
	device.RemoteActionSelect:        KeySelect,
	device.RemoteActionHome:          KeyHome,
	device.RemoteActionBack:          KeyBack,
	device.RemoteActionInfo:          KeyInfo,
	device.RemoteActionInstantReplay: KeyInstantReplay,
	device.RemoteActionPlay:          KeyPlay,
	device.RemoteActionPause:         KeyPause,
	device.RemoteActionRev:           KeyRev,
	device.RemoteActionFwd:           KeyFwd,
	device.RemoteActionSearch:        KeySearch,
	device.RemoteActionEnter:         KeyEnter,
	device.RemoteActionBackspace:     KeyBackspace,
	device.RemoteActionFindRemote:    KeyFindRemote,
	device.RemoteActionInputTuner:    KeyInputTuner,
	device.RemoteActionInputHDMI1:    KeyInputHDMI1,
	device.RemoteActionInputHDMI2:    KeyInputHDMI2,
	device.RemoteActionInputHDMI3:    KeyInputHDMI3,
	device.RemoteActionInputHDMI4:    KeyInputHDMI4,
	device.RemoteActionInputAV1:      KeyInputAV1,
}
