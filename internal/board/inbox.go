package board

import (
	"github.com/park285/shax-client/internal/codec"
	"github.com/park285/shax-client/internal/settings"
	"github.com/park285/shax-client/internal/shaxws"
)

// inboxMsg is everything the loop goroutine consumes.
type inboxMsg interface{ isInbox() }

type textReceived struct{ data []byte }

type transportUp struct{}

type transportDown struct{ err *shaxws.TransportError }

type sendCommand struct{ cmd codec.Command }

type startGameReq struct{}

type reconnectReq struct{ target settings.Target }

func (textReceived) isInbox()  {}
func (transportUp) isInbox()   {}
func (transportDown) isInbox() {}
func (sendCommand) isInbox()   {}
func (startGameReq) isInbox()  {}
func (reconnectReq) isInbox()  {}
