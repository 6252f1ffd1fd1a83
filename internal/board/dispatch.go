package board

import (
	"errors"
	"fmt"

	"github.com/park285/shax-client/internal/codec"
	"go.uber.org/zap"
)

// ErrUnknownAction marks an inbound message whose action tag is missing or
// not one of the five response types.
var ErrUnknownAction = errors.New("unknown action")

// dispatch decodes one frame and routes it to the response handler for its
// action. Nothing here returns an error to the transport: bad frames are
// logged, counted and dropped.
func (m *Manager) dispatch(raw []byte) {
	msg, err := codec.Decode(raw)
	if err != nil {
		m.drop("decode", err, raw)
		return
	}

	action := msg.Action()
	switch action {
	case codec.ActionJoinGame:
		err = m.handleJoin(msg)
	case codec.ActionPlacePiece:
		err = m.handlePlace(msg)
	case codec.ActionRemovePiece:
		err = m.handleRemove(msg)
	case codec.ActionMovePiece:
		err = m.handleMove(msg)
	case codec.ActionQuitGame:
		err = m.handleQuit(msg)
	default:
		m.drop("unknown_action", fmt.Errorf("%w: %q", ErrUnknownAction, action), raw)
		return
	}
	if err != nil {
		m.drop("invalid_field", fmt.Errorf("%s: %w", action, err), raw)
		return
	}
	m.metrics.MessageReceived(string(action))
}

func (m *Manager) drop(reason string, err error, raw []byte) {
	m.metrics.MessageDropped(reason)
	m.logger.Warn("board_message_dropped",
		zap.String("reason", reason),
		zap.Error(err),
		zap.ByteString("raw", truncate(raw, 512)),
	)
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
