package board

import (
	"fmt"
	"math"

	"github.com/park285/shax-client/internal/codec"
	"github.com/park285/shax-client/pkg/shaxdto"
)

// Typed views of the five server responses. Each parse function validates
// every field it reads, so handlers only mutate after a complete parse.

// outcome holds the fields every move response carries.
type outcome struct {
	success    bool
	errText    string
	nextState  string
	nextPlayer shaxdto.Seat
}

type joinResponse struct {
	success     bool
	errText     string
	waiting     bool
	playerNum   shaxdto.Seat
	nextState   string
	nextPlayer  shaxdto.Seat
	lobbyKey    uint64
	hasLobbyKey bool
	board       shaxdto.BoardGraph
}

type placeResponse struct {
	outcome
	pieceID shaxdto.PieceID
	x, y    uint8
	active  []shaxdto.PieceID
}

type removeResponse struct {
	outcome
	pieceID shaxdto.PieceID
	active  []shaxdto.PieceID
}

type moveResponse struct {
	outcome
	pieceID shaxdto.PieceID
	x, y    uint8
	active  []shaxdto.PieceID
}

type quitResponse struct {
	success bool
	errText string
	winner  shaxdto.Seat
	flag    shaxdto.QuitFlag
}

func seat(msg codec.Message, key string) (shaxdto.Seat, error) {
	n, err := msg.Int(key, 0, 1)
	return shaxdto.Seat(n), err
}

func parseOutcome(msg codec.Message) (outcome, error) {
	var o outcome
	var err error
	if o.success, err = msg.Bool("success"); err != nil {
		return o, err
	}
	if o.errText, err = msg.StringOr("error", ""); err != nil {
		return o, err
	}
	if o.nextState, err = msg.String("next_state"); err != nil {
		return o, err
	}
	if o.nextPlayer, err = seat(msg, "next_player"); err != nil {
		return o, err
	}
	return o, nil
}

// pieceField reads a piece ID that is required on success and optional otherwise.
func pieceField(msg codec.Message, key string, required bool) (shaxdto.PieceID, error) {
	var n int64
	var err error
	if required {
		n, err = msg.Int(key, 0, math.MaxUint16)
	} else {
		n, err = msg.IntOr(key, 0, 0, math.MaxUint16)
	}
	return shaxdto.PieceID(n), err
}

func coordField(msg codec.Message, key string, required bool) (uint8, error) {
	var n int64
	var err error
	if required {
		n, err = msg.Int(key, 0, math.MaxUint8)
	} else {
		n, err = msg.IntOr(key, 0, 0, math.MaxUint8)
	}
	return uint8(n), err
}

func activePieces(msg codec.Message) ([]shaxdto.PieceID, error) {
	ids, err := msg.Ints("active_pieces", 0, math.MaxUint16)
	if err != nil || ids == nil {
		return nil, err
	}
	out := make([]shaxdto.PieceID, len(ids))
	for i, id := range ids {
		out[i] = shaxdto.PieceID(id)
	}
	return out, nil
}

func parseJoin(msg codec.Message) (joinResponse, error) {
	var r joinResponse
	var err error
	if r.success, err = msg.Bool("success"); err != nil {
		return r, err
	}
	if r.errText, err = msg.StringOr("error", ""); err != nil {
		return r, err
	}
	if r.waiting, err = msg.Bool("waiting"); err != nil {
		return r, err
	}
	if r.playerNum, err = seat(msg, "player_num"); err != nil {
		return r, err
	}
	if r.nextState, err = msg.String("next_state"); err != nil {
		return r, err
	}
	if r.nextPlayer, err = seat(msg, "next_player"); err != nil {
		return r, err
	}
	if _, ok := msg.Get("lobby_key"); ok {
		n, err := msg.Int("lobby_key", 0, math.MaxInt64)
		if err != nil {
			return r, err
		}
		r.lobbyKey, r.hasLobbyKey = uint64(n), true
	}
	if r.board, err = parseBoard(msg); err != nil {
		return r, err
	}
	return r, nil
}

// parseBoard reads adjacent_pieces: [{x, y, neighbors: [{x, y}, ...]}, ...].
// An absent list yields a nil graph.
func parseBoard(msg codec.Message) (shaxdto.BoardGraph, error) {
	nodes, err := msg.Array("adjacent_pieces")
	if err != nil || nodes == nil {
		return nil, err
	}
	g := make(shaxdto.BoardGraph, len(nodes))
	for i, raw := range nodes {
		key := fmt.Sprintf("adjacent_pieces[%d]", i)
		node, err := codec.Object(key, raw)
		if err != nil {
			return nil, err
		}
		p, err := point(node, key)
		if err != nil {
			return nil, err
		}
		rawNeighbors, err := node.Array("neighbors")
		if err != nil {
			return nil, err
		}
		neighbors := make([]shaxdto.Point, 0, len(rawNeighbors))
		for j, rn := range rawNeighbors {
			nkey := fmt.Sprintf("%s.neighbors[%d]", key, j)
			nobj, err := codec.Object(nkey, rn)
			if err != nil {
				return nil, err
			}
			np, err := point(nobj, nkey)
			if err != nil {
				return nil, err
			}
			neighbors = append(neighbors, np)
		}
		g[p] = neighbors
	}
	return g, nil
}

func point(obj codec.Message, prefix string) (shaxdto.Point, error) {
	x, err := obj.Int("x", math.MinInt32, math.MaxInt32)
	if err != nil {
		return shaxdto.Point{}, fmt.Errorf("%s: %w", prefix, err)
	}
	y, err := obj.Int("y", math.MinInt32, math.MaxInt32)
	if err != nil {
		return shaxdto.Point{}, fmt.Errorf("%s: %w", prefix, err)
	}
	return shaxdto.Point{X: int(x), Y: int(y)}, nil
}

func parsePlace(msg codec.Message) (placeResponse, error) {
	var r placeResponse
	var err error
	if r.outcome, err = parseOutcome(msg); err != nil {
		return r, err
	}
	if r.pieceID, err = pieceField(msg, "new_piece_ID", r.success); err != nil {
		return r, err
	}
	if r.x, err = coordField(msg, "new_x", r.success); err != nil {
		return r, err
	}
	if r.y, err = coordField(msg, "new_y", r.success); err != nil {
		return r, err
	}
	r.active, err = activePieces(msg)
	return r, err
}

func parseRemove(msg codec.Message) (removeResponse, error) {
	var r removeResponse
	var err error
	if r.outcome, err = parseOutcome(msg); err != nil {
		return r, err
	}
	if r.pieceID, err = pieceField(msg, "removed_piece", r.success); err != nil {
		return r, err
	}
	r.active, err = activePieces(msg)
	return r, err
}

func parseMove(msg codec.Message) (moveResponse, error) {
	var r moveResponse
	var err error
	if r.outcome, err = parseOutcome(msg); err != nil {
		return r, err
	}
	if r.pieceID, err = pieceField(msg, "moved_piece", r.success); err != nil {
		return r, err
	}
	if r.x, err = coordField(msg, "new_x", r.success); err != nil {
		return r, err
	}
	if r.y, err = coordField(msg, "new_y", r.success); err != nil {
		return r, err
	}
	r.active, err = activePieces(msg)
	return r, err
}

func parseQuit(msg codec.Message) (quitResponse, error) {
	var r quitResponse
	var err error
	if r.success, err = msg.Bool("success"); err != nil {
		return r, err
	}
	if r.errText, err = msg.StringOr("error", ""); err != nil {
		return r, err
	}
	if r.success {
		r.winner, err = seat(msg, "winner")
	} else {
		var n int64
		n, err = msg.IntOr("winner", 0, 0, 1)
		r.winner = shaxdto.Seat(n)
	}
	if err != nil {
		return r, err
	}
	r.flag, err = quitFlag(msg)
	return r, err
}

// quitFlag accepts flag as a number or as an array whose first element is
// the flag. Absent or empty means FlagLeftQueue.
func quitFlag(msg codec.Message) (shaxdto.QuitFlag, error) {
	v, ok := msg.Get("flag")
	if !ok {
		return shaxdto.FlagLeftQueue, nil
	}
	if arr, isArr := v.([]any); isArr {
		if len(arr) == 0 {
			return shaxdto.FlagLeftQueue, nil
		}
		v = arr[0]
	}
	n, err := codec.AsInt("flag", v, 0, math.MaxUint8)
	return shaxdto.QuitFlag(n), err
}
