package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Action is the message type tag carried in the "action" field.
type Action string

const (
	ActionJoinGame    Action = "join_game"
	ActionPlacePiece  Action = "place_piece"
	ActionRemovePiece Action = "remove_piece"
	ActionMovePiece   Action = "move_piece"
	ActionQuitGame    Action = "quit_game"
)

// Command is one of the outgoing request shapes.
type Command interface {
	Action() Action
	fields() map[string]any
}

// JoinGame asks the server for a game. GameType is omitted from the wire when nil.
type JoinGame struct {
	GameType *int
	LobbyKey uint64
}

type PlacePiece struct {
	X, Y uint8
}

type RemovePiece struct {
	PieceID uint16
}

type MovePiece struct {
	PieceID uint16
	X, Y    uint8
}

type QuitGame struct{}

func (JoinGame) Action() Action    { return ActionJoinGame }
func (PlacePiece) Action() Action  { return ActionPlacePiece }
func (RemovePiece) Action() Action { return ActionRemovePiece }
func (MovePiece) Action() Action   { return ActionMovePiece }
func (QuitGame) Action() Action    { return ActionQuitGame }

func (c JoinGame) fields() map[string]any {
	m := map[string]any{}
	if c.GameType != nil {
		m["game_type"] = *c.GameType
	}
	if c.LobbyKey != 0 {
		m["lobby_key"] = c.LobbyKey
	}
	return m
}

func (c PlacePiece) fields() map[string]any {
	return map[string]any{"x": c.X, "y": c.Y}
}

func (c RemovePiece) fields() map[string]any {
	return map[string]any{"piece_ID": c.PieceID}
}

func (c MovePiece) fields() map[string]any {
	return map[string]any{"piece_ID": c.PieceID, "new_x": c.X, "new_y": c.Y}
}

func (QuitGame) fields() map[string]any { return nil }

// Encode serializes cmd to a compact JSON object. Keys are emitted in sorted
// order, so equal commands always produce equal bytes.
func Encode(cmd Command) ([]byte, error) {
	if cmd == nil {
		return nil, fmt.Errorf("encode: nil command")
	}
	m := cmd.fields()
	if m == nil {
		m = map[string]any{}
	}
	m["action"] = string(cmd.Action())

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode %s: %w", cmd.Action(), err)
	}
	// Encoder appends a newline; frames are newline-free.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
