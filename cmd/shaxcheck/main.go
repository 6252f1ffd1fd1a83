package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/park285/shax-client/internal/codec"
	"github.com/park285/shax-client/internal/shaxws"
	"go.uber.org/zap"
)

func main() {
	endpoint := flag.String("url", os.Getenv("SHAX_URL"), "server websocket URL")
	window := flag.Duration("wait", 10*time.Second, "how long to observe the connection")
	join := flag.Bool("join", false, "send a join_game request once connected")
	verbose := flag.Bool("v", false, "log transport internals")
	flag.Parse()

	if *endpoint == "" {
		*endpoint = "ws://localhost:8765"
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			log.Fatalf("logger: %v", err)
		}
	}

	ws := shaxws.NewWebSocket(shaxws.WithLogger(logger), shaxws.WithDialTimeout(5*time.Second))
	connected := make(chan struct{}, 1)
	failed := make(chan *shaxws.TransportError, 1)

	ws.OnStateChange(func(state shaxws.WebSocketState) {
		log.Printf("WS state: %s", state)
		if state == shaxws.WSStateConnected {
			select {
			case connected <- struct{}{}:
			default:
			}
		}
	})
	ws.OnMessage(func(data []byte) {
		action := "?"
		if msg, err := codec.Decode(data); err == nil && msg.Action() != "" {
			action = string(msg.Action())
		}
		fmt.Printf("WS msg action=%s raw=%s\n", action, data)
	})
	ws.OnError(func(terr *shaxws.TransportError) {
		log.Printf("WS error: %v", terr)
		select {
		case failed <- terr:
		default:
		}
	})

	log.Printf("connecting to %s", *endpoint)
	ws.Open(*endpoint)

	exit := 0
	select {
	case <-connected:
		if *join {
			data, err := codec.Encode(codec.JoinGame{})
			if err != nil {
				log.Fatalf("encode: %v", err)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := ws.Send(ctx, data); err != nil {
				log.Printf("send error: %v", err)
			}
			cancel()
		}
		t := time.NewTimer(*window)
		select {
		case <-t.C:
		case <-failed:
			exit = 1
		}
	case <-failed:
		exit = 1
	case <-time.After(*window):
		log.Printf("no connection within %s", *window)
		exit = 1
	}

	_ = ws.Close(context.Background())
	os.Exit(exit)
}
