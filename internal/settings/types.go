package settings

import (
	"context"
	"strings"
)

const (
	DefaultEndpoint = "ws://localhost:8765"
	DefaultMode     = ModeRemote
)

// Mode is the requested matchmaking mode.
type Mode string

const (
	ModeOnline Mode = "Online"
	ModeLocal  Mode = "Local"
	ModeCPU    Mode = "CPU"
	ModeRemote Mode = "Remote"
)

// ParseMode accepts any casing of the known modes. Unknown values are kept
// verbatim; they are forwarded without a game type.
func ParseMode(s string) Mode {
	v := strings.TrimSpace(s)
	switch strings.ToLower(v) {
	case "online":
		return ModeOnline
	case "local":
		return ModeLocal
	case "cpu":
		return ModeCPU
	case "remote", "":
		return ModeRemote
	default:
		return Mode(v)
	}
}

// GameType returns the join_game game_type for the mode, ok=false when the
// mode carries none.
func (m Mode) GameType() (int, bool) {
	switch m {
	case ModeOnline:
		return 0, true
	case ModeLocal:
		return 1, true
	case ModeCPU:
		return 2, true
	default:
		return 0, false
	}
}

// Target is everything the client needs to reach a game.
type Target struct {
	Endpoint string
	Mode     Mode
	LobbyKey uint64
}

func Defaults() Target {
	return Target{Endpoint: DefaultEndpoint, Mode: DefaultMode}
}

// Store is a read-only source of the connection target.
type Store interface {
	Load(ctx context.Context) (Target, error)
}
