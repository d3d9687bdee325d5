package roku_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rokuctl/internal/roku"
)

func TestCommanderSendsInOrder(t *testing.T) {
	rs := newRecordingServer(t, nil)
	client := roku.NewClient(rs.server.URL, false)

	err := client.Command().
		VolumeUp().
		Select().
		Text("abc").
		Send()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /keypress/VolumeUp",
		"POST /keypress/Select",
		"POST /keypress/Lit_a",
		"POST /keypress/Lit_b",
		"POST /keypress/Lit_c",
	}, rs.recorded())
}

func TestCommanderKeydownKeyup(t *testing.T) {
	rs := newRecordingServer(t, nil)
	client := roku.NewClient(rs.server.URL, false)

	err := client.Command().
		Keydown("Right").
		Keyup("Right").
		Keypress("Home").
		Send()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /keydown/Right",
		"POST /keyup/Right",
		"POST /keypress/Home",
	}, rs.recorded())
}

func TestCommanderQueuesWithoutSending(t *testing.T) {
	rs := newRecordingServer(t, nil)
	client := roku.NewClient(rs.server.URL, false)

	client.Command().Home().Play().Pause()
	assert.Empty(t, rs.recorded())
}

func TestCommanderSendTwice(t *testing.T) {
	rs := newRecordingServer(t, nil)
	client := roku.NewClient(rs.server.URL, false)

	chain := client.Command().Home()
	require.NoError(t, chain.Send())

	err := chain.Send()
	require.Error(t, err)
	assert.ErrorIs(t, err, roku.ErrChainAlreadySent)

	// No duplicate requests from the second Send.
	assert.Equal(t, []string{"POST /keypress/Home"}, rs.recorded())
}

func TestCommanderAppendAfterSend(t *testing.T) {
	rs := newRecordingServer(t, nil)
	client := roku.NewClient(rs.server.URL, false)

	chain := client.Command().Home()
	require.NoError(t, chain.Send())

	// Appending after Send latches the error instead of reordering.
	err := chain.VolumeUp().Send()
	require.Error(t, err)
	assert.ErrorIs(t, err, roku.ErrChainAlreadySent)
	assert.Equal(t, []string{"POST /keypress/Home"}, rs.recorded())
}

func TestCommanderStopsOnFirstFailure(t *testing.T) {
	var count int
	rs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		count++
		if count == 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})
	client := roku.NewClient(rs.server.URL, false)

	err := client.Command().Home().Select().VolumeUp().Send()
	require.Error(t, err)
	assert.Equal(t, []string{
		"POST /keypress/Home",
		"POST /keypress/Select",
	}, rs.recorded())
}

func TestCommanderInvalidInputSurfacesAtSend(t *testing.T) {
	rs := newRecordingServer(t, nil)
	client := roku.NewClient(rs.server.URL, false)

	err := client.Command().Keypress("not a key").Send()
	require.Error(t, err)
	assert.ErrorIs(t, err, roku.ErrInvalidInput)
	assert.Empty(t, rs.recorded())
}

func TestCommanderEmptyChain(t *testing.T) {
	rs := newRecordingServer(t, nil)
	client := roku.NewClient(rs.server.URL, false)

	require.NoError(t, client.Command().Send())
	assert.Empty(t, rs.recorded())
}
