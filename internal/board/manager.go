package board

import (
	"context"
	"errors"
	"sync"

	"github.com/park285/shax-client/internal/eventbus"
	"github.com/park285/shax-client/internal/metrics"
	"github.com/park285/shax-client/internal/msgcat"
	"github.com/park285/shax-client/internal/settings"
	"github.com/park285/shax-client/internal/shaxws"
	"github.com/park285/shax-client/pkg/shaxdto"
	"go.uber.org/zap"
)

var (
	ErrClosed     = errors.New("board manager closed")
	ErrNotStarted = errors.New("board manager not started")
)

const inboxSize = 64

// Manager mirrors the server-side game session. All session mutation, all
// sends and all event publication happen on a single loop goroutine; the
// exported methods only post requests to it.
//
// Event handlers run on the loop goroutine and must not block on the
// Manager (posting further commands is fine while the inbox has room).
type Manager struct {
	tr      shaxws.WSClient
	logger  *zap.Logger
	metrics *metrics.Client
	catalog *msgcat.Catalog
	bus     *eventbus.Bus

	inbox chan inboxMsg

	// loop-owned
	sess   shaxdto.Snapshot
	target settings.Target

	snapM sync.RWMutex
	snap  shaxdto.Snapshot

	lifeM   sync.Mutex
	started bool
	closed  bool
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	cbIDs   [3]int
}

type Option func(*Manager)

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func WithMetrics(c *metrics.Client) Option {
	return func(m *Manager) { m.metrics = c }
}

func WithCatalog(c *msgcat.Catalog) Option {
	return func(m *Manager) { m.catalog = c }
}

// WithBus publishes events on an existing bus instead of a private one.
func WithBus(b *eventbus.Bus) Option {
	return func(m *Manager) {
		if b != nil {
			m.bus = b
		}
	}
}

func New(tr shaxws.WSClient, target settings.Target, opts ...Option) *Manager {
	m := &Manager{
		tr:     tr,
		logger: zap.NewNop(),
		bus:    eventbus.New(),
		inbox:  make(chan inboxMsg, inboxSize),
		target: target,
		ctx:    context.Background(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.sess.LobbyKey = target.LobbyKey
	m.snap = m.sess
	return m
}

// Bus returns the bus events are published on.
func (m *Manager) Bus() *eventbus.Bus { return m.bus }

// Snapshot returns a copy of the session mirror.
func (m *Manager) Snapshot() shaxdto.Snapshot {
	m.snapM.RLock()
	defer m.snapM.RUnlock()
	return m.snap
}

// Target returns the connection target currently in use.
func (m *Manager) Target() settings.Target {
	m.snapM.RLock()
	defer m.snapM.RUnlock()
	return m.target
}

// Start registers transport callbacks, starts the loop and opens the
// connection to the configured endpoint. Connection completion is reported
// through a Connected or ConnectionError event.
func (m *Manager) Start(ctx context.Context) error {
	m.lifeM.Lock()
	defer m.lifeM.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.started {
		return nil
	}
	m.started = true
	m.ctx, m.cancel = context.WithCancel(ctx)

	m.cbIDs[0] = m.tr.OnMessage(func(data []byte) {
		m.post(textReceived{data: data})
	})
	m.cbIDs[1] = m.tr.OnStateChange(func(state shaxws.WebSocketState) {
		if state == shaxws.WSStateConnected {
			m.post(transportUp{})
		}
	})
	m.cbIDs[2] = m.tr.OnError(func(terr *shaxws.TransportError) {
		m.post(transportDown{err: terr})
	})

	endpoint := m.target.Endpoint
	go m.loop()

	m.logger.Info("board_start", zap.String("endpoint", endpoint))
	m.tr.Open(endpoint)
	return nil
}

// Close stops the loop and drops the connection. Pending inbox entries are
// discarded. Idempotent.
func (m *Manager) Close(ctx context.Context) error {
	m.lifeM.Lock()
	if m.closed {
		m.lifeM.Unlock()
		return nil
	}
	m.closed = true
	started := m.started
	m.lifeM.Unlock()

	if started {
		m.tr.RemoveMessageCallback(m.cbIDs[0])
		m.tr.RemoveStateCallback(m.cbIDs[1])
		m.tr.RemoveErrorCallback(m.cbIDs[2])
		m.cancel()
		select {
		case <-m.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	err := m.tr.Close(ctx)

	m.sess.Connected = false
	m.syncSnapshot()
	m.logger.Info("board_closed")
	return err
}

func (m *Manager) loop() {
	defer close(m.done)
	for {
		select {
		case <-m.ctx.Done():
			return
		case msg := <-m.inbox:
			m.process(msg)
		}
	}
}

// post hands msg to the loop. Transport callbacks use it; it gives up once
// the Manager is closing.
func (m *Manager) post(msg inboxMsg) {
	select {
	case m.inbox <- msg:
	case <-m.ctx.Done():
	}
}

// request posts a collaborator command, honouring the caller's ctx.
func (m *Manager) request(ctx context.Context, msg inboxMsg) error {
	m.lifeM.Lock()
	started, closed := m.started, m.closed
	m.lifeM.Unlock()
	if closed {
		return ErrClosed
	}
	if !started {
		return ErrNotStarted
	}
	select {
	case m.inbox <- msg:
		return nil
	case <-m.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) process(msg inboxMsg) {
	switch v := msg.(type) {
	case textReceived:
		m.dispatch(v.data)
	case transportUp:
		m.onConnected()
	case transportDown:
		m.onTransportError(v.err)
	case sendCommand:
		m.send(v.cmd)
	case startGameReq:
		m.send(m.joinCommand())
	case reconnectReq:
		m.reconnect(v.target)
	}
	m.syncSnapshot()
}

func (m *Manager) onConnected() {
	m.sess.Connected = true
	m.logger.Info("board_connected", zap.String("endpoint", m.target.Endpoint))
	m.emit(shaxdto.Connected{})
}

// syncSnapshot publishes the loop-owned session to readers.
func (m *Manager) syncSnapshot() {
	m.snapM.Lock()
	m.snap = m.sess
	m.snapM.Unlock()
}

// emit refreshes the read model, then publishes ev. The lock is not held
// while subscribers run.
func (m *Manager) emit(ev shaxdto.Event) {
	m.syncSnapshot()
	m.bus.Publish(ev)
}
