package board

import (
	"errors"
	"io"
	"testing"

	"github.com/park285/shax-client/internal/msgcat"
	"github.com/park285/shax-client/internal/settings"
	"github.com/park285/shax-client/internal/shaxws"
	"github.com/park285/shax-client/pkg/shaxdto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportError_WhileRunningEndsGameFirst(t *testing.T) {
	h := newHarness(t, settings.Defaults())
	h.running(shaxdto.Seat1, [2]int{6, 5})

	h.m.process(transportDown{err: &shaxws.TransportError{Kind: shaxws.FailurePeerClosed, Err: io.EOF}})

	assert.Equal(t, []shaxdto.EventKind{shaxdto.KindQuitResult, shaxdto.KindConnectionError}, h.log.kinds())

	evs := h.log.events()
	qr := evs[0].ev.(shaxdto.QuitResult)
	assert.True(t, qr.Success)
	assert.False(t, qr.Waiting)
	assert.Equal(t, shaxdto.FlagDisconnect, qr.Flag)
	assert.Equal(t, shaxdto.Seat0, qr.Winner)
	// The quit is observed while the connection still counts as up.
	assert.True(t, evs[0].snap.Connected)

	ce := evs[1].ev.(shaxdto.ConnectionError)
	assert.Equal(t, "peer_closed", ce.Reason)
	assert.Equal(t, "Lost the connection to the server. Check your connection and try again.", ce.Message)

	s := h.m.Snapshot()
	assert.False(t, s.Connected)
	assert.False(t, s.Running)
	assert.False(t, s.Waiting)
}

func TestTransportError_RefusedWhileWaiting(t *testing.T) {
	h := newHarness(t, settings.Defaults())
	h.connect()
	h.feed(`{"action":"join_game","success":true,"waiting":true,"player_num":0,"next_state":"STOPPED","next_player":0}`)
	require.True(t, h.m.Snapshot().Waiting)

	h.m.process(transportDown{err: &shaxws.TransportError{Kind: shaxws.FailureConnectionRefused, Err: errors.New("dial: connection refused")}})

	kinds := h.log.kinds()
	assert.Equal(t, []shaxdto.EventKind{
		shaxdto.KindConnected, shaxdto.KindJoinResult, shaxdto.KindQuitResult, shaxdto.KindConnectionError,
	}, kinds)

	evs := h.log.events()
	qr := evs[2].ev.(shaxdto.QuitResult)
	assert.True(t, qr.Success)
	assert.Equal(t, shaxdto.FlagDisconnect, qr.Flag)
	assert.False(t, qr.Waiting)
	assert.Equal(t, "Couldn't connect to the server.", evs[3].ev.(shaxdto.ConnectionError).Message)

	s := h.m.Snapshot()
	assert.False(t, s.Running)
	assert.False(t, s.Waiting)
	assert.False(t, s.Connected)
}

func TestTransportError_IdleOnlyReportsConnection(t *testing.T) {
	h := newHarness(t, settings.Defaults())
	h.connect()

	h.m.process(transportDown{err: &shaxws.TransportError{Kind: shaxws.FailureOther}})

	assert.Equal(t, []shaxdto.EventKind{shaxdto.KindConnected, shaxdto.KindConnectionError}, h.log.kinds())
	ce := h.log.events()[1].ev.(shaxdto.ConnectionError)
	assert.Equal(t, "other", ce.Reason)
	assert.Equal(t, "An error occurred with the connection to the server.", ce.Message)
	assert.False(t, h.m.Snapshot().Connected)
}

func TestTransportError_NilTreatedAsOther(t *testing.T) {
	h := newHarness(t, settings.Defaults())
	h.m.process(transportDown{})
	ce := h.log.events()[0].ev.(shaxdto.ConnectionError)
	assert.Equal(t, "other", ce.Reason)
}

func TestConnectionText_UsesCatalog(t *testing.T) {
	cat, err := msgcat.New("")
	require.NoError(t, err)

	m := New(newFakeTransport(), settings.Defaults(), WithCatalog(cat))
	assert.Equal(t, "Couldn't connect to the server.", m.connectionText(shaxws.FailureConnectionRefused))

	bare := New(newFakeTransport(), settings.Defaults())
	assert.Equal(t, textPeerClosed, bare.connectionText(shaxws.FailurePeerClosed))
}
