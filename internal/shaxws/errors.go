package shaxws

import (
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"nhooyr.io/websocket"
)

var ErrNotConnected = errors.New("ws not connected")

// FailureKind classifies transport failures.
type FailureKind int

const (
	FailureOther FailureKind = iota
	FailurePeerClosed
	FailureConnectionRefused
)

func (k FailureKind) String() string {
	switch k {
	case FailurePeerClosed:
		return "peer_closed"
	case FailureConnectionRefused:
		return "connection_refused"
	default:
		return "other"
	}
}

// TransportError is a classified socket failure.
type TransportError struct {
	Kind FailureKind
	Err  error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return "transport: " + e.Kind.String()
	}
	return "transport: " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

func classifyDial(err error) *TransportError {
	if errors.Is(err, syscall.ECONNREFUSED) || strings.Contains(err.Error(), "connection refused") {
		return &TransportError{Kind: FailureConnectionRefused, Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return &TransportError{Kind: FailureConnectionRefused, Err: err}
	}
	return &TransportError{Kind: FailureOther, Err: err}
}

func classifyRead(err error) *TransportError {
	if websocket.CloseStatus(err) != -1 {
		return &TransportError{Kind: FailurePeerClosed, Err: err}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, syscall.ECONNRESET) {
		return &TransportError{Kind: FailurePeerClosed, Err: err}
	}
	return &TransportError{Kind: FailureOther, Err: err}
}
