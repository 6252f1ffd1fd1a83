package board

import (
	"github.com/park285/shax-client/internal/codec"
	"github.com/park285/shax-client/pkg/shaxdto"
	"go.uber.org/zap"
)

// Handlers parse first and return the parse error untouched; the session is
// only written after the whole response validated.

func (m *Manager) handleJoin(msg codec.Message) error {
	r, err := parseJoin(msg)
	if err != nil {
		return err
	}

	if r.success {
		// Queued joins report success too; the game only runs once paired.
		m.sess.Running = !r.waiting
		m.sess.TotalPieces = [2]int{}
	}
	m.setState(r.nextState)
	m.sess.Waiting = r.waiting
	m.sess.PlayerNum = r.playerNum
	m.sess.CurrentTurn = r.nextPlayer
	if r.hasLobbyKey {
		m.sess.LobbyKey = r.lobbyKey
	}

	m.logger.Info("board_join",
		zap.Bool("success", r.success),
		zap.String("error", r.errText),
		zap.Bool("waiting", r.waiting),
		zap.Uint8("player_num", uint8(r.playerNum)),
		zap.String("next_state", r.nextState),
		zap.Int("board_nodes", len(r.board)),
	)
	m.emit(shaxdto.JoinResult{
		Success:    r.success,
		Error:      r.errText,
		Waiting:    r.waiting,
		LobbyKey:   m.sess.LobbyKey,
		NextState:  r.nextState,
		NextPlayer: r.nextPlayer,
		Board:      r.board,
	})
	return nil
}

func (m *Manager) handlePlace(msg codec.Message) error {
	r, err := parsePlace(msg)
	if err != nil {
		return err
	}

	if r.success {
		m.sess.TotalPieces[m.sess.CurrentTurn]++
	}
	m.emit(shaxdto.PlaceResult{
		Success:      r.success,
		Error:        r.errText,
		PieceID:      r.pieceID,
		X:            r.x,
		Y:            r.y,
		NextState:    r.nextState,
		NextPlayer:   r.nextPlayer,
		ActivePieces: r.active,
	})
	m.advance(r.outcome)
	return nil
}

func (m *Manager) handleRemove(msg codec.Message) error {
	r, err := parseRemove(msg)
	if err != nil {
		return err
	}

	if r.success {
		// The removed piece always belongs to the player who did not act.
		victim := m.sess.CurrentTurn.Other()
		if m.sess.TotalPieces[victim] > 0 {
			m.sess.TotalPieces[victim]--
		} else {
			m.logger.Warn("board_piece_count_underflow", zap.Uint8("seat", uint8(victim)), zap.Uint16("removed_piece", uint16(r.pieceID)))
		}
	}
	m.emit(shaxdto.RemoveResult{
		Success:      r.success,
		Error:        r.errText,
		PieceID:      r.pieceID,
		NextState:    r.nextState,
		NextPlayer:   r.nextPlayer,
		ActivePieces: r.active,
	})
	m.advance(r.outcome)
	return nil
}

func (m *Manager) handleMove(msg codec.Message) error {
	r, err := parseMove(msg)
	if err != nil {
		return err
	}

	m.emit(shaxdto.MoveResult{
		Success:      r.success,
		Error:        r.errText,
		PieceID:      r.pieceID,
		X:            r.x,
		Y:            r.y,
		NextState:    r.nextState,
		NextPlayer:   r.nextPlayer,
		ActivePieces: r.active,
	})
	m.advance(r.outcome)
	return nil
}

func (m *Manager) handleQuit(msg codec.Message) error {
	r, err := parseQuit(msg)
	if err != nil {
		return err
	}

	if r.success {
		m.sess.Running = false
		m.sess.Waiting = false
		m.sess.Winner = r.winner
		m.metrics.GameEnded(r.flag.String())
	}
	m.logger.Info("board_quit",
		zap.Bool("success", r.success),
		zap.String("error", r.errText),
		zap.Uint8("winner", uint8(r.winner)),
		zap.Stringer("flag", r.flag),
	)
	m.emit(shaxdto.QuitResult{
		Success: r.success,
		Error:   r.errText,
		Winner:  r.winner,
		Flag:    r.flag,
		Waiting: m.sess.Waiting,
	})
	return nil
}

// advance follows the server-declared transition regardless of success.
func (m *Manager) advance(o outcome) {
	m.setState(o.nextState)
	m.sess.CurrentTurn = o.nextPlayer
}

func (m *Manager) setState(name string) {
	st, ok := shaxdto.ParseGameState(name)
	if !ok {
		m.logger.Warn("board_unknown_state", zap.String("next_state", name), zap.Stringer("kept", m.sess.State))
		return
	}
	m.sess.State = st
}
