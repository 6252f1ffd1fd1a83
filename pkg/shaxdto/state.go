package shaxdto

// GameState mirrors the server-declared game phase.
type GameState int

const (
	StateStopped GameState = iota
	StatePlacement
	StateRemoval
	StateFirstRemoval
	StateMovement
)

var stateNames = map[GameState]string{
	StateStopped:      "STOPPED",
	StatePlacement:    "PLACEMENT",
	StateRemoval:      "REMOVAL",
	StateFirstRemoval: "FIRST_REMOVAL",
	StateMovement:     "MOVEMENT",
}

func (s GameState) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}

// ParseGameState maps a wire state name onto a GameState. ok is false for
// names outside the fixed set; callers keep their previous value in that case.
func ParseGameState(s string) (GameState, bool) {
	switch s {
	case "STOPPED":
		return StateStopped, true
	case "PLACEMENT":
		return StatePlacement, true
	case "REMOVAL":
		return StateRemoval, true
	case "FIRST_REMOVAL":
		return StateFirstRemoval, true
	case "MOVEMENT":
		return StateMovement, true
	default:
		return StateStopped, false
	}
}

// Seat identifies one of the two players.
type Seat uint8

const (
	Seat0 Seat = 0
	Seat1 Seat = 1
)

// Other returns the opposing seat.
func (s Seat) Other() Seat { return (s + 1) % 2 }

func (s Seat) Valid() bool { return s == Seat0 || s == Seat1 }

// QuitFlag tells why a game ended.
type QuitFlag uint8

const (
	FlagLeftQueue QuitFlag = iota
	FlagWinLoss
	FlagForfeit
	FlagDisconnect
)

func (f QuitFlag) String() string {
	switch f {
	case FlagLeftQueue:
		return "left_queue"
	case FlagWinLoss:
		return "win_loss"
	case FlagForfeit:
		return "forfeit"
	case FlagDisconnect:
		return "disconnect"
	default:
		return "unknown"
	}
}
