package shaxdto

// EventKind tags an Event variant.
type EventKind string

const (
	KindConnected       EventKind = "connected"
	KindConnectionError EventKind = "connection_error"
	KindJoinResult      EventKind = "join_result"
	KindPlaceResult     EventKind = "place_result"
	KindRemoveResult    EventKind = "remove_result"
	KindMoveResult      EventKind = "move_result"
	KindQuitResult      EventKind = "quit_result"
)

// Event is published to collaborators after the session mirror changes.
type Event interface {
	Kind() EventKind
}

type Connected struct{}

// ConnectionError carries a human-readable description of a transport failure.
type ConnectionError struct {
	Reason  string // peer_closed | connection_refused | other
	Message string
}

type JoinResult struct {
	Success    bool
	Error      string
	Waiting    bool
	LobbyKey   uint64
	NextState  string
	NextPlayer Seat
	Board      BoardGraph
}

type PlaceResult struct {
	Success      bool
	Error        string
	PieceID      PieceID
	X, Y         uint8
	NextState    string
	NextPlayer   Seat
	ActivePieces []PieceID
}

type RemoveResult struct {
	Success      bool
	Error        string
	PieceID      PieceID
	NextState    string
	NextPlayer   Seat
	ActivePieces []PieceID
}

type MoveResult struct {
	Success      bool
	Error        string
	PieceID      PieceID
	X, Y         uint8
	NextState    string
	NextPlayer   Seat
	ActivePieces []PieceID
}

type QuitResult struct {
	Success bool
	Error   string
	Winner  Seat
	Flag    QuitFlag
	Waiting bool
}

func (Connected) Kind() EventKind       { return KindConnected }
func (ConnectionError) Kind() EventKind { return KindConnectionError }
func (JoinResult) Kind() EventKind      { return KindJoinResult }
func (PlaceResult) Kind() EventKind     { return KindPlaceResult }
func (RemoveResult) Kind() EventKind    { return KindRemoveResult }
func (MoveResult) Kind() EventKind      { return KindMoveResult }
func (QuitResult) Kind() EventKind      { return KindQuitResult }
