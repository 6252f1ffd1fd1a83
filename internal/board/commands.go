package board

import (
	"context"
	"errors"

	"github.com/park285/shax-client/internal/codec"
	"github.com/park285/shax-client/internal/settings"
	"github.com/park285/shax-client/internal/shaxws"
	"go.uber.org/zap"
)

// The command methods return once the request is queued. A command issued
// while disconnected is dropped and logged; errors only report a closed
// Manager or a cancelled ctx.

// StartGame asks the server for a game using the configured mode and lobby key.
func (m *Manager) StartGame(ctx context.Context) error {
	return m.request(ctx, startGameReq{})
}

func (m *Manager) PlacePiece(ctx context.Context, x, y uint8) error {
	return m.request(ctx, sendCommand{cmd: codec.PlacePiece{X: x, Y: y}})
}

func (m *Manager) RemovePiece(ctx context.Context, pieceID uint16) error {
	return m.request(ctx, sendCommand{cmd: codec.RemovePiece{PieceID: pieceID}})
}

func (m *Manager) MovePiece(ctx context.Context, pieceID uint16, x, y uint8) error {
	return m.request(ctx, sendCommand{cmd: codec.MovePiece{PieceID: pieceID, X: x, Y: y}})
}

func (m *Manager) QuitGame(ctx context.Context) error {
	return m.request(ctx, sendCommand{cmd: codec.QuitGame{}})
}

// Reconnect reopens the transport against target. An active game is ended
// through the quit path first; the rest of the session is left for the next
// join response to overwrite.
func (m *Manager) Reconnect(ctx context.Context, target settings.Target) error {
	return m.request(ctx, reconnectReq{target: target})
}

func (m *Manager) joinCommand() codec.JoinGame {
	cmd := codec.JoinGame{LobbyKey: m.target.LobbyKey}
	if gt, ok := m.target.Mode.GameType(); ok {
		cmd.GameType = &gt
	}
	return cmd
}

func (m *Manager) send(cmd codec.Command) {
	action := string(cmd.Action())
	if !m.sess.Connected {
		m.metrics.CommandSkipped(action, "not_connected")
		m.logger.Warn("board_send_skipped", zap.String("action", action), zap.String("reason", "not_connected"))
		return
	}
	data, err := codec.Encode(cmd)
	if err != nil {
		m.metrics.CommandSkipped(action, "encode")
		m.logger.Error("board_encode_error", zap.String("action", action), zap.Error(err))
		return
	}
	if err := m.tr.Send(m.ctx, data); err != nil {
		reason := "write_error"
		if errors.Is(err, shaxws.ErrNotConnected) {
			reason = "not_connected"
		}
		m.metrics.CommandSkipped(action, reason)
		m.logger.Warn("board_send_failed", zap.String("action", action), zap.String("reason", reason), zap.Error(err))
		return
	}
	m.metrics.CommandSent(action)
	m.logger.Debug("board_sent", zap.String("action", action), zap.ByteString("payload", data))
}

func (m *Manager) reconnect(target settings.Target) {
	if m.sess.Active() {
		m.logger.Info("board_reconnect_ends_game", zap.Bool("running", m.sess.Running), zap.Bool("waiting", m.sess.Waiting))
		m.handleQuit(disconnectQuit())
	}
	m.sess.Connected = false
	m.sess.Running = false
	m.sess.Waiting = false
	m.sess.LobbyKey = target.LobbyKey

	m.snapM.Lock()
	m.target = target
	m.snapM.Unlock()

	m.logger.Info("board_reconnect", zap.String("endpoint", target.Endpoint), zap.String("mode", string(target.Mode)))
	m.tr.Open(target.Endpoint)
}
