package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/park285/shax-client/internal/msgcat"
	"github.com/park285/shax-client/internal/settings"
	"github.com/park285/shax-client/pkg/shaxdto"
)

// session is the slice of board.Manager the CLI drives.
type session interface {
	StartGame(ctx context.Context) error
	PlacePiece(ctx context.Context, x, y uint8) error
	RemovePiece(ctx context.Context, pieceID uint16) error
	MovePiece(ctx context.Context, pieceID uint16, x, y uint8) error
	QuitGame(ctx context.Context) error
	Reconnect(ctx context.Context, target settings.Target) error
	Snapshot() shaxdto.Snapshot
}

type cli struct {
	sess  session
	store settings.Store
	cat   *msgcat.Catalog

	outM sync.Mutex
	out  io.Writer
}

func newCLI(sess session, store settings.Store, cat *msgcat.Catalog, out io.Writer) *cli {
	return &cli{sess: sess, store: store, cat: cat, out: out}
}

// handle runs one input line. It returns true when the user asked to exit.
func (c *cli) handle(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "exit":
		return true
	case "help":
		c.say("cli.help", nil, "commands: start, place X Y, remove ID, move ID X Y, quit, reconnect [URL], status, exit")
	case "status":
		c.printStatus()
	case "start":
		err = c.sess.StartGame(ctx)
	case "quit":
		err = c.sess.QuitGame(ctx)
	case "place":
		var x, y uint8
		if x, y, err = coords(args, 0); err != nil {
			c.usage("place X Y")
			return false
		}
		err = c.sess.PlacePiece(ctx, x, y)
	case "remove":
		if len(args) != 1 {
			c.usage("remove ID")
			return false
		}
		var id uint16
		if id, err = pieceID(args[0]); err != nil {
			c.usage("remove ID")
			return false
		}
		err = c.sess.RemovePiece(ctx, id)
	case "move":
		if len(args) != 3 {
			c.usage("move ID X Y")
			return false
		}
		id, perr := pieceID(args[0])
		x, y, cerr := coords(args, 1)
		if perr != nil || cerr != nil {
			c.usage("move ID X Y")
			return false
		}
		err = c.sess.MovePiece(ctx, id, x, y)
	case "reconnect":
		err = c.reconnect(ctx, args)
	default:
		c.say("cli.unknown_command", map[string]any{"Command": cmd}, "unknown command "+cmd)
	}
	if err != nil {
		c.println("error: " + err.Error())
	}
	return false
}

// reconnect re-reads the settings store; an optional argument replaces the
// endpoint. Refused while a game is running or queued.
func (c *cli) reconnect(ctx context.Context, args []string) error {
	if c.sess.Snapshot().Active() {
		c.say("cli.reconnect_refused", nil, "finish or quit the current game before reconnecting")
		return nil
	}
	target, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload settings: %w", err)
	}
	if len(args) > 0 {
		url := args[0]
		if !strings.HasPrefix(url, "ws://") && !strings.HasPrefix(url, "wss://") {
			c.usage("reconnect [ws://host:port]")
			return nil
		}
		target.Endpoint = url
	}
	return c.sess.Reconnect(ctx, target)
}

func (c *cli) printStatus() {
	s := c.sess.Snapshot()
	c.println(fmt.Sprintf("connected=%t running=%t waiting=%t state=%s player=%d turn=%d my_turn=%t pieces=%d/%d winner=%d lobby_key=%d",
		s.Connected, s.Running, s.Waiting, s.State, s.PlayerNum, s.CurrentTurn, s.IsMyTurn(),
		s.TotalPieces[0], s.TotalPieces[1], s.Winner, s.LobbyKey))
}

func (c *cli) usage(u string) {
	c.say("cli.usage", map[string]any{"Usage": u}, "usage: "+u)
}

func (c *cli) say(key string, data any, fallback string) {
	c.println(c.cat.Text(key, data, fallback))
}

func (c *cli) println(s string) {
	c.outM.Lock()
	defer c.outM.Unlock()
	fmt.Fprintln(c.out, strings.TrimRight(s, "\n"))
}

func coords(args []string, from int) (uint8, uint8, error) {
	if len(args) < from+2 {
		return 0, 0, fmt.Errorf("need two coordinates")
	}
	x, err := strconv.ParseUint(args[from], 10, 8)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.ParseUint(args[from+1], 10, 8)
	if err != nil {
		return 0, 0, err
	}
	return uint8(x), uint8(y), nil
}

func pieceID(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	return uint16(n), err
}
