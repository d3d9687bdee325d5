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

package roku

type keyActionKind int

const (
	actionPress keyActionKind = iota
	actionDown
	actionUp
)

// keyAction is one queued remote input awaiting Send.
type keyAction struct {
	kind  keyActionKind
	input string
}

// Commander accumulates key actions against its bound client and replays
// them strictly in append order when Send is called. A Commander is owned
// by the chain that created it: it is not safe for concurrent use and
// cannot be reused after Send.
type Commander struct {
	client *Client
	queue  []keyAction
	sent   bool
	err    error
}

// Command starts a new command chain bound to this client.
func (c *Client) Command() *Commander {
	return &Commander{client: c}
}

// append latches ErrChainAlreadySent instead of reordering when the chain
// has already been drained; Send surfaces the error.
func (cm *Commander) append(kind keyActionKind, input string) *Commander {
	if cm.sent {
		if cm.err == nil {
			cm.err = ErrChainAlreadySent
		}
		return cm
	}
	cm.queue = append(cm.queue, keyAction{kind: kind, input: input})
	return cm
}

// Keypress queues a press of a named key or literal character.
func (cm *Commander) Keypress(input string) *Commander {
	return cm.append(actionPress, input)
}

// Keydown queues the start of a key hold.
func (cm *Commander) Keydown(input string) *Commander {
	return cm.append(actionDown, input)
}

// Keyup queues the release of a held key.
func (cm *Commander) Keyup(input string) *Commander {
	return cm.append(actionUp, input)
}

// Text queues one keypress per character of s, in order.
func (cm *Commander) Text(s string) *Commander {
	for _, r := range s {
		cm.append(actionPress, string(r))
	}
	return cm
}

// One appender per named key.

func (cm *Commander) Home() *Commander          { return cm.Keypress(string(KeyHome)) }
func (cm *Commander) Rev() *Commander           { return cm.Keypress(string(KeyRev)) }
func (cm *Commander) Fwd() *Commander           { return cm.Keypress(string(KeyFwd)) }
func (cm *Commander) Play() *Commander          { return cm.Keypress(string(KeyPlay)) }
func (cm *Commander) Pause() *Commander         { return cm.Keypress(string(KeyPause)) }
func (cm *Commander) Select() *Commander        { return cm.Keypress(string(KeySelect)) }
func (cm *Commander) Left() *Commander          { return cm.Keypress(string(KeyLeft)) }
func (cm *Commander) Right() *Commander         { return cm.Keypress(string(KeyRight)) }
func (cm *Commander) Down() *Commander          { return cm.Keypress(string(KeyDown)) }
func (cm *Commander) Up() *Commander            { return cm.Keypress(string(KeyUp)) }
func (cm *Commander) Back() *Commander          { return cm.Keypress(string(KeyBack)) }
func (cm *Commander) InstantReplay() *Commander { return cm.Keypress(string(KeyInstantReplay)) }
func (cm *Commander) Info() *Commander          { return cm.Keypress(string(KeyInfo)) }
func (cm *Commander) Backspace() *Commander     { return cm.Keypress(string(KeyBackspace)) }
func (cm *Commander) Search() *Commander        { return cm.Keypress(string(KeySearch)) }
func (cm *Commander) Enter() *Commander         { return cm.Keypress(string(KeyEnter)) }
func (cm *Commander) FindRemote() *Commander    { return cm.Keypress(string(KeyFindRemote)) }
func (cm *Commander) VolumeDown() *Commander    { return cm.Keypress(string(KeyVolumeDown)) }
func (cm *Commander) VolumeMute() *Commander    { return cm.Keypress(string(KeyVolumeMute)) }
func (cm *Commander) VolumeUp() *Commander      { return cm.Keypress(string(KeyVolumeUp)) }
func (cm *Commander) PowerOff() *Commander      { return cm.Keypress(string(KeyPowerOff)) }
func (cm *Commander) PowerOn() *Commander       { return cm.Keypress(string(KeyPowerOn)) }
func (cm *Commander) ChannelUp() *Commander     { return cm.Keypress(string(KeyChannelUp)) }
func (cm *Commander) ChannelDown() *Commander   { return cm.Keypress(string(KeyChannelDown)) }

// Send drains the queued actions in append order, waiting for each
// acknowledgment before issuing the next, and returns once the last action
// completes. Sending twice, or sending after a post-send append, fails
// with ErrChainAlreadySent.
func (cm *Commander) Send() error {
	if cm.err != nil {
		return cm.err
	}
	if cm.sent {
		cm.err = ErrChainAlreadySent
		return cm.err
	}
	cm.sent = true

	for _, action := range cm.queue {
		var err error
		switch action.kind {
		case actionDown:
			err = cm.client.Keydown(action.input)
		case actionUp:
			err = cm.client.Keyup(action.input)
		default:
			err = cm.client.Keypress(action.input)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
