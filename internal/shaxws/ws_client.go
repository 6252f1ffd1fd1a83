package shaxws

import "context"

type MessageCallback func(data []byte)

type StateCallback func(state WebSocketState)

type ErrorCallback func(err *TransportError)

// WebSocketState is the lifecycle of the current connection.
type WebSocketState string

const (
	WSStateDisconnected WebSocketState = "disconnected"
	WSStateConnecting   WebSocketState = "connecting"
	WSStateConnected    WebSocketState = "connected"
	WSStateFailed       WebSocketState = "failed"
)

// WSClient is the transport contract the board manager depends on.
type WSClient interface {
	Open(endpoint string)
	Send(ctx context.Context, data []byte) error
	OnMessage(cb MessageCallback) int
	RemoveMessageCallback(id int)
	OnStateChange(cb StateCallback) int
	RemoveStateCallback(id int)
	OnError(cb ErrorCallback) int
	RemoveErrorCallback(id int)
	Close(ctx context.Context) error
}
