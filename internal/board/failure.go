package board

import (
	"github.com/park285/shax-client/internal/codec"
	"github.com/park285/shax-client/internal/shaxws"
	"github.com/park285/shax-client/pkg/shaxdto"
	"go.uber.org/zap"
)

const (
	textPeerClosed = "Lost the connection to the server. Check your connection and try again."
	textRefused    = "Couldn't connect to the server."
	textOther      = "An error occurred with the connection to the server."
)

// disconnectQuit is the quit response the client plays to itself when the
// connection dies under an active game.
func disconnectQuit() codec.Message {
	return codec.Message{
		"action":  string(codec.ActionQuitGame),
		"success": true,
		"error":   "",
		"winner":  0,
		"flag":    []any{int(shaxdto.FlagDisconnect)},
	}
}

// onTransportError ends any active game through the quit handler, clears
// the connection flags, then reports the failure. The quit event is always
// published before the ConnectionError event.
func (m *Manager) onTransportError(terr *shaxws.TransportError) {
	if terr == nil {
		terr = &shaxws.TransportError{Kind: shaxws.FailureOther}
	}
	m.metrics.TransportError(terr.Kind.String())
	m.logger.Warn("board_transport_error",
		zap.String("kind", terr.Kind.String()),
		zap.Bool("running", m.sess.Running),
		zap.Bool("waiting", m.sess.Waiting),
		zap.Error(terr.Err),
	)

	if m.sess.Active() {
		if err := m.handleQuit(disconnectQuit()); err != nil {
			m.logger.Error("board_synth_quit_failed", zap.Error(err))
		}
	}

	m.sess.Connected = false
	m.sess.Running = false
	m.sess.Waiting = false

	m.emit(shaxdto.ConnectionError{
		Reason:  terr.Kind.String(),
		Message: m.connectionText(terr.Kind),
	})
}

func (m *Manager) connectionText(kind shaxws.FailureKind) string {
	switch kind {
	case shaxws.FailurePeerClosed:
		return m.catalog.Text("connection.peer_closed", nil, textPeerClosed)
	case shaxws.FailureConnectionRefused:
		return m.catalog.Text("connection.refused", nil, textRefused)
	default:
		return m.catalog.Text("connection.other", nil, textOther)
	}
}
