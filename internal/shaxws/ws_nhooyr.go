package shaxws

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

type callbackEntry struct {
	id       int
	callback MessageCallback
}

type stateCallbackEntry struct {
	id       int
	callback StateCallback
}

type errorCallbackEntry struct {
	id       int
	callback ErrorCallback
}

// HeaderProvider injects headers into the websocket handshake.
type HeaderProvider func() map[string]string

type WebSocket struct {
	logger *zap.Logger

	// connM guards conn, gen and cancel. gen increases on every Open/Close so
	// goroutines belonging to an older connection can tell they are stale.
	connM  sync.Mutex
	conn   *websocket.Conn
	gen    uint64
	cancel context.CancelFunc
	connID string

	writeM sync.Mutex

	state  WebSocketState
	stateM sync.RWMutex

	msgCbs   []callbackEntry
	stateCbs []stateCallbackEntry
	errCbs   []errorCallbackEntry
	nextCbID int
	cbM      sync.RWMutex

	pingInterval time.Duration
	dialTimeout  time.Duration
	writeTimeout time.Duration
	readLimit    int64

	headerProvider HeaderProvider

	wg sync.WaitGroup
}

type Option func(*WebSocket)

func WithLogger(l *zap.Logger) Option {
	return func(ws *WebSocket) {
		if l != nil {
			ws.logger = l
		}
	}
}

func WithPingInterval(d time.Duration) Option {
	return func(ws *WebSocket) { ws.pingInterval = d }
}

func WithDialTimeout(d time.Duration) Option {
	return func(ws *WebSocket) { ws.dialTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(ws *WebSocket) { ws.writeTimeout = d }
}

func WithHeaderProvider(h HeaderProvider) Option {
	return func(ws *WebSocket) { ws.headerProvider = h }
}

func NewWebSocket(opts ...Option) *WebSocket {
	ws := &WebSocket{
		logger:       zap.NewNop(),
		state:        WSStateDisconnected,
		pingInterval: 30 * time.Second,
		dialTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
		readLimit:    1 << 20,
	}
	for _, opt := range opts {
		opt(ws)
	}
	return ws
}

// Open starts connecting to endpoint and returns immediately. Completion is
// reported through the state callbacks, failures through the error callbacks.
// An existing connection is dropped first.
func (ws *WebSocket) Open(endpoint string) {
	ws.connM.Lock()
	ws.dropLocked()
	ws.gen++
	gen := ws.gen
	ctx, cancel := context.WithCancel(context.Background())
	ws.cancel = cancel
	ws.connID = uuid.NewString()
	connID := ws.connID
	ws.connM.Unlock()

	ws.logger.Info("ws_open", zap.String("endpoint", endpoint), zap.String("conn_id", connID))
	ws.setState(WSStateConnecting)

	ws.wg.Add(1)
	go ws.dial(ctx, gen, endpoint, connID)
}

func (ws *WebSocket) dial(ctx context.Context, gen uint64, endpoint, connID string) {
	defer ws.wg.Done()

	dialCtx, cancel := context.WithTimeout(ctx, ws.dialTimeout)
	conn, _, err := websocket.Dial(dialCtx, endpoint, &websocket.DialOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
		HTTPHeader:      ws.buildHeaders(),
	})
	cancel()
	if err != nil {
		if !ws.isCurrent(gen) {
			return
		}
		terr := classifyDial(err)
		ws.logger.Warn("ws_dial_failed", zap.String("conn_id", connID), zap.String("kind", terr.Kind.String()), zap.Error(err))
		ws.setState(WSStateFailed)
		ws.emitError(terr)
		return
	}
	conn.SetReadLimit(ws.readLimit)

	ws.connM.Lock()
	if ws.gen != gen {
		ws.connM.Unlock()
		_ = conn.CloseNow()
		return
	}
	ws.conn = conn
	ws.connM.Unlock()

	ws.logger.Info("ws_connected", zap.String("conn_id", connID))
	ws.setState(WSStateConnected)

	ws.wg.Add(2)
	go ws.listen(ctx, gen, conn)
	go ws.pingLoop(ctx, gen, conn)
}

func (ws *WebSocket) listen(ctx context.Context, gen uint64, conn *websocket.Conn) {
	defer ws.wg.Done()
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			ws.fail(gen, classifyRead(err))
			return
		}
		if typ != websocket.MessageText {
			ws.logger.Debug("ws_binary_frame_ignored", zap.Int("bytes", len(data)))
			continue
		}
		if !ws.isCurrent(gen) {
			return
		}

		ws.cbM.RLock()
		callbacks := make([]callbackEntry, len(ws.msgCbs))
		copy(callbacks, ws.msgCbs)
		ws.cbM.RUnlock()
		for _, entry := range callbacks {
			if entry.callback != nil {
				entry.callback(data)
			}
		}
	}
}

func (ws *WebSocket) pingLoop(ctx context.Context, gen uint64, conn *websocket.Conn) {
	defer ws.wg.Done()
	if ws.pingInterval <= 0 {
		return
	}
	t := time.NewTicker(ws.pingInterval)
	defer t.Stop()
	consecutivePingFailures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				consecutivePingFailures++
				if consecutivePingFailures >= 2 {
					ws.fail(gen, &TransportError{Kind: FailureOther, Err: err})
					return
				}
				continue
			}
			consecutivePingFailures = 0
		}
	}
}

// fail tears down the connection of generation gen and reports terr, unless
// that connection was already replaced or closed on purpose.
func (ws *WebSocket) fail(gen uint64, terr *TransportError) {
	ws.connM.Lock()
	if ws.gen != gen || ws.conn == nil {
		ws.connM.Unlock()
		return
	}
	connID := ws.connID
	ws.dropLocked()
	ws.gen++
	ws.connM.Unlock()

	ws.logger.Warn("ws_connection_lost", zap.String("conn_id", connID), zap.String("kind", terr.Kind.String()), zap.Error(terr.Err))
	ws.setState(WSStateDisconnected)
	ws.emitError(terr)
}

// Send writes one text frame. It returns ErrNotConnected when no connection is up.
func (ws *WebSocket) Send(ctx context.Context, data []byte) error {
	ws.connM.Lock()
	conn := ws.conn
	ws.connM.Unlock()
	if conn == nil || ws.State() != WSStateConnected {
		return ErrNotConnected
	}

	wctx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(ctx, ws.writeTimeout)
		defer cancel()
	}
	ws.writeM.Lock()
	defer ws.writeM.Unlock()
	return conn.Write(wctx, websocket.MessageText, data)
}

func (ws *WebSocket) OnMessage(cb MessageCallback) int {
	ws.cbM.Lock()
	defer ws.cbM.Unlock()
	ws.nextCbID++
	ws.msgCbs = append(ws.msgCbs, callbackEntry{id: ws.nextCbID, callback: cb})
	return ws.nextCbID
}

func (ws *WebSocket) RemoveMessageCallback(id int) {
	ws.cbM.Lock()
	defer ws.cbM.Unlock()
	for i, cb := range ws.msgCbs {
		if cb.id == id {
			ws.msgCbs = append(ws.msgCbs[:i], ws.msgCbs[i+1:]...)
			break
		}
	}
}

func (ws *WebSocket) OnStateChange(cb StateCallback) int {
	ws.cbM.Lock()
	defer ws.cbM.Unlock()
	ws.nextCbID++
	ws.stateCbs = append(ws.stateCbs, stateCallbackEntry{id: ws.nextCbID, callback: cb})
	return ws.nextCbID
}

func (ws *WebSocket) RemoveStateCallback(id int) {
	ws.cbM.Lock()
	defer ws.cbM.Unlock()
	for i, cb := range ws.stateCbs {
		if cb.id == id {
			ws.stateCbs = append(ws.stateCbs[:i], ws.stateCbs[i+1:]...)
			break
		}
	}
}

func (ws *WebSocket) OnError(cb ErrorCallback) int {
	ws.cbM.Lock()
	defer ws.cbM.Unlock()
	ws.nextCbID++
	ws.errCbs = append(ws.errCbs, errorCallbackEntry{id: ws.nextCbID, callback: cb})
	return ws.nextCbID
}

func (ws *WebSocket) RemoveErrorCallback(id int) {
	ws.cbM.Lock()
	defer ws.cbM.Unlock()
	for i, cb := range ws.errCbs {
		if cb.id == id {
			ws.errCbs = append(ws.errCbs[:i], ws.errCbs[i+1:]...)
			break
		}
	}
}

func (ws *WebSocket) State() WebSocketState {
	ws.stateM.RLock()
	defer ws.stateM.RUnlock()
	return ws.state
}

func (ws *WebSocket) setState(state WebSocketState) {
	ws.stateM.Lock()
	ws.state = state
	ws.stateM.Unlock()

	ws.cbM.RLock()
	callbacks := make([]stateCallbackEntry, len(ws.stateCbs))
	copy(callbacks, ws.stateCbs)
	ws.cbM.RUnlock()
	for _, entry := range callbacks {
		if entry.callback != nil {
			entry.callback(state)
		}
	}
}

func (ws *WebSocket) emitError(terr *TransportError) {
	ws.cbM.RLock()
	callbacks := make([]errorCallbackEntry, len(ws.errCbs))
	copy(callbacks, ws.errCbs)
	ws.cbM.RUnlock()
	for _, entry := range callbacks {
		if entry.callback != nil {
			entry.callback(terr)
		}
	}
}

// Close drops the connection without a close handshake, so the server sees an
// abnormal disconnect, then waits for the connection goroutines up to ctx.
// Calling Close more than once is safe.
func (ws *WebSocket) Close(ctx context.Context) error {
	ws.connM.Lock()
	hadConn := ws.conn != nil || ws.cancel != nil
	ws.dropLocked()
	ws.gen++
	ws.connM.Unlock()

	if hadConn {
		ws.logger.Info("ws_closed")
		ws.setState(WSStateDisconnected)
	}

	done := make(chan struct{})
	go func() {
		ws.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// dropLocked closes the current socket and cancels its goroutines. connM must be held.
func (ws *WebSocket) dropLocked() {
	if ws.cancel != nil {
		ws.cancel()
		ws.cancel = nil
	}
	if ws.conn != nil {
		_ = ws.conn.CloseNow()
		ws.conn = nil
	}
}

func (ws *WebSocket) isCurrent(gen uint64) bool {
	ws.connM.Lock()
	defer ws.connM.Unlock()
	return ws.gen == gen
}

func (ws *WebSocket) buildHeaders() http.Header {
	hdr := http.Header{}
	if ws.headerProvider == nil {
		return hdr
	}
	for k, v := range ws.headerProvider() {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			continue
		}
		hdr.Set(k, v)
	}
	return hdr
}
