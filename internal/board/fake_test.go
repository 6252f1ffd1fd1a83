package board

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/park285/shax-client/internal/metrics"
	"github.com/park285/shax-client/internal/settings"
	"github.com/park285/shax-client/internal/shaxws"
	"github.com/park285/shax-client/pkg/shaxdto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// fakeTransport records sends and lets tests fire transport callbacks.
type fakeTransport struct {
	mu      sync.Mutex
	opened  []string
	sent    []string
	closed  int
	sendErr error
	nextID  int
	msgCbs  map[int]shaxws.MessageCallback
	stCbs   map[int]shaxws.StateCallback
	errCbs  map[int]shaxws.ErrorCallback
	sentSig chan struct{}
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		msgCbs:  map[int]shaxws.MessageCallback{},
		stCbs:   map[int]shaxws.StateCallback{},
		errCbs:  map[int]shaxws.ErrorCallback{},
		sentSig: make(chan struct{}, 16),
	}
}

func (f *fakeTransport) Open(endpoint string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, endpoint)
}

func (f *fakeTransport) Send(_ context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, string(data))
	select {
	case f.sentSig <- struct{}{}:
	default:
	}
	return nil
}

func (f *fakeTransport) OnMessage(cb shaxws.MessageCallback) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.msgCbs[f.nextID] = cb
	return f.nextID
}

func (f *fakeTransport) RemoveMessageCallback(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.msgCbs, id)
}

func (f *fakeTransport) OnStateChange(cb shaxws.StateCallback) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.stCbs[f.nextID] = cb
	return f.nextID
}

func (f *fakeTransport) RemoveStateCallback(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stCbs, id)
}

func (f *fakeTransport) OnError(cb shaxws.ErrorCallback) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.errCbs[f.nextID] = cb
	return f.nextID
}

func (f *fakeTransport) RemoveErrorCallback(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.errCbs, id)
}

func (f *fakeTransport) Close(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeTransport) fireState(s shaxws.WebSocketState) {
	f.mu.Lock()
	cbs := make([]shaxws.StateCallback, 0, len(f.stCbs))
	for _, cb := range f.stCbs {
		cbs = append(cbs, cb)
	}
	f.mu.Unlock()
	for _, cb := range cbs {
		cb(s)
	}
}

func (f *fakeTransport) fireMessage(data string) {
	f.mu.Lock()
	cbs := make([]shaxws.MessageCallback, 0, len(f.msgCbs))
	for _, cb := range f.msgCbs {
		cbs = append(cbs, cb)
	}
	f.mu.Unlock()
	for _, cb := range cbs {
		cb([]byte(data))
	}
}

func (f *fakeTransport) fireError(terr *shaxws.TransportError) {
	f.mu.Lock()
	cbs := make([]shaxws.ErrorCallback, 0, len(f.errCbs))
	for _, cb := range f.errCbs {
		cbs = append(cbs, cb)
	}
	f.mu.Unlock()
	for _, cb := range cbs {
		cb(terr)
	}
}

func (f *fakeTransport) sentFrames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func (f *fakeTransport) openedEndpoints() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.opened...)
}

// observed is one published event plus the read model at publish time.
type observed struct {
	ev   shaxdto.Event
	snap shaxdto.Snapshot
}

type eventLog struct {
	mu  sync.Mutex
	all []observed
	ch  chan shaxdto.Event
}

func (l *eventLog) events() []observed {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]observed(nil), l.all...)
}

func (l *eventLog) kinds() []shaxdto.EventKind {
	var out []shaxdto.EventKind
	for _, o := range l.events() {
		out = append(out, o.ev.Kind())
	}
	return out
}

func (l *eventLog) wait(t *testing.T, kind shaxdto.EventKind) shaxdto.Event {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-l.ch:
			if ev.Kind() == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", kind)
			return nil
		}
	}
}

type harness struct {
	m   *Manager
	tr  *fakeTransport
	log *eventLog
	met *metrics.Client
}

func newHarness(t *testing.T, target settings.Target) *harness {
	t.Helper()
	met, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	tr := newFakeTransport()
	m := New(tr, target, WithMetrics(met))
	log := &eventLog{ch: make(chan shaxdto.Event, 64)}
	m.Bus().SubscribeAll(func(ev shaxdto.Event) {
		log.mu.Lock()
		log.all = append(log.all, observed{ev: ev, snap: m.Snapshot()})
		log.mu.Unlock()
		select {
		case log.ch <- ev:
		default:
		}
	})
	return &harness{m: m, tr: tr, log: log, met: met}
}

// feed runs one inbound frame through the loop body synchronously.
func (h *harness) feed(raw string) {
	h.m.process(textReceived{data: []byte(raw)})
}

func (h *harness) connect() {
	h.m.process(transportUp{})
}

// running puts the mirror into a paired game on seat 0 without a join frame.
func (h *harness) running(turn shaxdto.Seat, pieces [2]int) {
	h.m.sess.Connected = true
	h.m.sess.Running = true
	h.m.sess.CurrentTurn = turn
	h.m.sess.TotalPieces = pieces
	h.m.syncSnapshot()
}
