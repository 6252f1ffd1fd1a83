package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/park285/shax-client/pkg/shaxdto"
)

func TestBus_RoutesByKind(t *testing.T) {
	b := New()
	var quits, all []shaxdto.EventKind
	b.Subscribe(shaxdto.KindQuitResult, func(ev shaxdto.Event) { quits = append(quits, ev.Kind()) })
	b.SubscribeAll(func(ev shaxdto.Event) { all = append(all, ev.Kind()) })

	b.Publish(shaxdto.Connected{})
	b.Publish(shaxdto.QuitResult{Success: true})
	b.Publish(shaxdto.ConnectionError{Message: "x"})

	assert.Equal(t, []shaxdto.EventKind{shaxdto.KindQuitResult}, quits)
	assert.Equal(t, []shaxdto.EventKind{shaxdto.KindConnected, shaxdto.KindQuitResult, shaxdto.KindConnectionError}, all)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := New()
	n := 0
	id := b.SubscribeAll(func(shaxdto.Event) { n++ })
	b.Publish(shaxdto.Connected{})
	b.Unsubscribe(id)
	b.Publish(shaxdto.Connected{})
	assert.Equal(t, 1, n)
}

func TestBus_IDsAreNotReused(t *testing.T) {
	b := New()
	a := b.SubscribeAll(func(shaxdto.Event) {})
	b.Unsubscribe(a)
	c := b.SubscribeAll(func(shaxdto.Event) {})
	assert.NotEqual(t, a, c)
}

func TestBus_HandlerMaySubscribeDuringPublish(t *testing.T) {
	b := New()
	calls := 0
	b.SubscribeAll(func(shaxdto.Event) {
		calls++
		b.SubscribeAll(func(shaxdto.Event) {})
	})
	b.Publish(shaxdto.Connected{})
	assert.Equal(t, 1, calls)
}
