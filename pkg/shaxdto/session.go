package shaxdto

// Snapshot is a read-only copy of the local session mirror.
type Snapshot struct {
	State       GameState
	Running     bool
	Waiting     bool
	Connected   bool
	CurrentTurn Seat
	PlayerNum   Seat
	TotalPieces [2]int
	Winner      Seat
	LobbyKey    uint64
}

// Active reports whether a game is in progress or queued.
func (s Snapshot) Active() bool { return s.Running || s.Waiting }

// IsMyTurn reports whether the server expects a move from this client's seat.
func (s Snapshot) IsMyTurn() bool { return s.Running && s.CurrentTurn == s.PlayerNum }
