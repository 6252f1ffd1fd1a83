package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/park285/shax-client/internal/msgcat"
	"github.com/park285/shax-client/internal/settings"
	"github.com/park285/shax-client/pkg/shaxdto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	calls  []string
	snap   shaxdto.Snapshot
	target settings.Target
}

func (f *fakeSession) StartGame(context.Context) error {
	f.calls = append(f.calls, "start")
	return nil
}

func (f *fakeSession) PlacePiece(_ context.Context, x, y uint8) error {
	f.calls = append(f.calls, fmt.Sprintf("place %d %d", x, y))
	return nil
}

func (f *fakeSession) RemovePiece(_ context.Context, id uint16) error {
	f.calls = append(f.calls, fmt.Sprintf("remove %d", id))
	return nil
}

func (f *fakeSession) MovePiece(_ context.Context, id uint16, x, y uint8) error {
	f.calls = append(f.calls, fmt.Sprintf("move %d %d %d", id, x, y))
	return nil
}

func (f *fakeSession) QuitGame(context.Context) error {
	f.calls = append(f.calls, "quit")
	return nil
}

func (f *fakeSession) Reconnect(_ context.Context, t settings.Target) error {
	f.calls = append(f.calls, "reconnect "+t.Endpoint)
	f.target = t
	return nil
}

func (f *fakeSession) Snapshot() shaxdto.Snapshot { return f.snap }

func newTestCLI(t *testing.T) (*cli, *fakeSession, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	fs := &fakeSession{}
	c := newCLI(fs, settings.NewFileStore(""), msgcat.MustDefault(), &out)
	return c, fs, &out
}

func TestCLI_GameCommands(t *testing.T) {
	c, fs, _ := newTestCLI(t)
	ctx := context.Background()

	for _, line := range []string{"start", "place 2 3", "REMOVE 5", "move 8 1 0", "quit", "", "   "} {
		assert.False(t, c.handle(ctx, line), line)
	}
	assert.Equal(t, []string{"start", "place 2 3", "remove 5", "move 8 1 0", "quit"}, fs.calls)
	assert.True(t, c.handle(ctx, "exit"))
}

func TestCLI_BadArguments(t *testing.T) {
	c, fs, out := newTestCLI(t)
	ctx := context.Background()

	c.handle(ctx, "place 1")
	c.handle(ctx, "place 1 256")
	c.handle(ctx, "remove -1")
	c.handle(ctx, "move 1 2")
	c.handle(ctx, "jump")

	assert.Empty(t, fs.calls)
	assert.Contains(t, out.String(), "usage: place X Y")
	assert.Contains(t, out.String(), "usage: move ID X Y")
	assert.Contains(t, out.String(), "unknown command jump")
}

func TestCLI_ReconnectRefusedDuringGame(t *testing.T) {
	c, fs, out := newTestCLI(t)
	fs.snap.Running = true

	c.handle(context.Background(), "reconnect")

	assert.Empty(t, fs.calls)
	assert.Contains(t, out.String(), "finish or quit the current game")
}

func TestCLI_ReconnectReloadsSettings(t *testing.T) {
	c, fs, _ := newTestCLI(t)
	ctx := context.Background()

	c.handle(ctx, "reconnect")
	require.Len(t, fs.calls, 1)
	assert.Equal(t, settings.Defaults(), fs.target)

	c.handle(ctx, "reconnect wss://play.example:443")
	assert.Equal(t, "wss://play.example:443", fs.target.Endpoint)

	c.handle(ctx, "reconnect http://nope")
	assert.Len(t, fs.calls, 2)
}

func TestCLI_PrintsEvents(t *testing.T) {
	c, fs, out := newTestCLI(t)
	fs.snap.PlayerNum = 1

	c.printEvent(shaxdto.JoinResult{Success: true, NextState: "PLACEMENT", NextPlayer: 0})
	c.printEvent(shaxdto.PlaceResult{Success: false, Error: "occupied"})
	c.printEvent(shaxdto.QuitResult{Success: true, Winner: 1, Flag: shaxdto.FlagDisconnect})
	c.printEvent(shaxdto.ConnectionError{Reason: "peer_closed", Message: "Lost the connection"})

	s := out.String()
	assert.Contains(t, s, "game joined, you are player 1")
	assert.Contains(t, s, "place_piece rejected: occupied")
	assert.Contains(t, s, "game over: player 1 wins (disconnect)")
	assert.Contains(t, s, "connection error (peer_closed): Lost the connection")
}

func TestCLI_Status(t *testing.T) {
	c, fs, out := newTestCLI(t)
	fs.snap = shaxdto.Snapshot{Connected: true, Running: true, State: shaxdto.StateMovement, TotalPieces: [2]int{4, 3}}

	c.handle(context.Background(), "status")

	assert.Contains(t, out.String(), "state=MOVEMENT")
	assert.Contains(t, out.String(), "my_turn=true")
	assert.Contains(t, out.String(), "pieces=4/3")
}
