package eventbus

import (
	"sync"

	"github.com/park285/shax-client/pkg/shaxdto"
)

type Handler func(ev shaxdto.Event)

type subscription struct {
	id      int
	kind    shaxdto.EventKind // empty matches every kind
	handler Handler
}

// Bus fans events out to subscribers in registration order. Publish calls
// handlers synchronously on the publishing goroutine.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID int
}

func New() *Bus { return &Bus{} }

// Subscribe registers h for one event kind and returns an id for Unsubscribe.
func (b *Bus) Subscribe(kind shaxdto.EventKind, h Handler) int {
	return b.add(kind, h)
}

// SubscribeAll registers h for every event kind.
func (b *Bus) SubscribeAll(h Handler) int {
	return b.add("", h)
}

func (b *Bus) add(kind shaxdto.EventKind, h Handler) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs = append(b.subs, subscription{id: b.nextID, kind: kind, handler: h})
	return b.nextID
}

func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

func (b *Bus) Publish(ev shaxdto.Event) {
	if ev == nil {
		return
	}
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	kind := ev.Kind()
	for _, s := range subs {
		if s.handler == nil {
			continue
		}
		if s.kind == "" || s.kind == kind {
			s.handler(ev)
		}
	}
}
