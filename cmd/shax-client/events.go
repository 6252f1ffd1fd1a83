package main

import (
	"github.com/park285/shax-client/internal/eventbus"
	"github.com/park285/shax-client/pkg/shaxdto"
)

func subscribePrinter(bus *eventbus.Bus, c *cli) {
	bus.SubscribeAll(func(ev shaxdto.Event) { c.printEvent(ev) })
}

func (c *cli) printEvent(ev shaxdto.Event) {
	switch e := ev.(type) {
	case shaxdto.Connected:
		c.say("cli.connected", nil, "connected")
	case shaxdto.ConnectionError:
		c.say("cli.connection_error", map[string]any{"Reason": e.Reason, "Message": e.Message}, e.Message)
	case shaxdto.JoinResult:
		switch {
		case !e.Success:
			c.say("cli.join_failed", map[string]any{"Error": e.Error}, "join failed: "+e.Error)
		case e.Waiting:
			c.say("cli.waiting", map[string]any{"LobbyKey": e.LobbyKey}, "waiting for an opponent")
		default:
			s := c.sess.Snapshot()
			c.say("cli.joined", map[string]any{"Player": s.PlayerNum, "State": e.NextState, "Next": e.NextPlayer}, "game joined")
		}
	case shaxdto.PlaceResult:
		if !e.Success {
			c.rejected("place_piece", e.Error)
			return
		}
		c.say("cli.place", map[string]any{"PieceID": e.PieceID, "X": e.X, "Y": e.Y, "State": e.NextState, "Next": e.NextPlayer}, "piece placed")
	case shaxdto.RemoveResult:
		if !e.Success {
			c.rejected("remove_piece", e.Error)
			return
		}
		c.say("cli.remove", map[string]any{"PieceID": e.PieceID, "State": e.NextState, "Next": e.NextPlayer}, "piece removed")
	case shaxdto.MoveResult:
		if !e.Success {
			c.rejected("move_piece", e.Error)
			return
		}
		c.say("cli.move", map[string]any{"PieceID": e.PieceID, "X": e.X, "Y": e.Y, "State": e.NextState, "Next": e.NextPlayer}, "piece moved")
	case shaxdto.QuitResult:
		switch {
		case !e.Success:
			c.rejected("quit_game", e.Error)
		case e.Flag == shaxdto.FlagLeftQueue:
			c.say("cli.left_queue", nil, "left the queue")
		default:
			c.say("cli.game_over", map[string]any{"Winner": e.Winner, "Flag": e.Flag}, "game over")
		}
	}
}

func (c *cli) rejected(action, errText string) {
	c.say("cli.rejected", map[string]any{"Action": action, "Error": errText}, action+" rejected: "+errText)
}
