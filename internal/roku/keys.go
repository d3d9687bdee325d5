package roku

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Key is a named remote-control key understood by the device.
type Key string

// Named keys accepted by the key-action endpoints.
const (
	KeyHome          Key = "Home"
	KeyRev           Key = "Rev"
	KeyFwd           Key = "Fwd"
	KeyPlay          Key = "Play"
	KeyPause         Key = "Pause"
	KeySelect        Key = "Select"
	KeyLeft          Key = "Left"
	KeyRight         Key = "Right"
	KeyDown          Key = "Down"
	KeyUp            Key = "Up"
	KeyBack          Key = "Back"
	KeyInstantReplay Key = "InstantReplay"
	KeyInfo          Key = "Info"
	KeyBackspace     Key = "Backspace"
	KeySearch        Key = "Search"
	KeyEnter         Key = "Enter"
	KeyFindRemote    Key = "FindRemote"
	KeyVolumeDown    Key = "VolumeDown"
	KeyVolumeMute    Key = "VolumeMute"
	KeyVolumeUp      Key = "VolumeUp"
	KeyPowerOff      Key = "PowerOff"
	KeyPowerOn       Key = "PowerOn"
	KeyChannelUp     Key = "ChannelUp"
	KeyChannelDown   Key = "ChannelDown"
	KeyInputTuner    Key = "InputTuner"
	KeyInputHDMI1    Key = "InputHDMI1"
	KeyInputHDMI2    Key = "InputHDMI2"
	KeyInputHDMI3    Key = "InputHDMI3"
	KeyInputHDMI4    Key = "InputHDMI4"
	KeyInputAV1      Key = "InputAV1"
)

var allKeys = []Key{
	KeyHome, KeyRev, KeyFwd, KeyPlay, KeyPause, KeySelect,
	KeyLeft, KeyRight, KeyDown, KeyUp, KeyBack,
	KeyInstantReplay, KeyInfo, KeyBackspace, KeySearch, KeyEnter,
	KeyFindRemote, KeyVolumeDown, KeyVolumeMute, KeyVolumeUp,
	KeyPowerOff, KeyPowerOn, KeyChannelUp, KeyChannelDown,
	KeyInputTuner, KeyInputHDMI1, KeyInputHDMI2, KeyInputHDMI3,
	KeyInputHDMI4, KeyInputAV1,
}

var namedKeys = func() map[string]struct{} {
	set := make(map[string]struct{}, len(allKeys))
	for _, k := range allKeys {
		set[string(k)] = struct{}{}
	}
	return set
}()

// Keys returns every named key in a stable order.
func Keys() []Key {
	keys := make([]Key, len(allKeys))
	copy(keys, allKeys)
	return keys
}

// EncodeKey maps a key name or single literal character to the wire token
// used as the final path segment of a key-action request. Named keys pass
// through unchanged; a single character becomes a "Lit_" token with its
// UTF-8 bytes percent-encoded. Anything else is rejected before any I/O.
func EncodeKey(input string) (string, error) {
	if _, ok := namedKeys[input]; ok {
		return input, nil
	}
	if utf8.RuneCountInString(input) == 1 {
		return literalToken(input), nil
	}
	return "", fmt.Errorf("%w: %q is neither a named key nor a single character", ErrInvalidInput, input)
}

// literalToken percent-encodes the character's UTF-8 bytes after the Lit_
// prefix. Unreserved ASCII stays bare; everything else is encoded byte by
// byte, so one multi-byte character may expand to several %XX triplets.
func literalToken(ch string) string {
	var b strings.Builder
	b.WriteString("Lit_")
	for i := 0; i < len(ch); i++ {
		c := ch[i]
		if isUnreserved(c) {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
