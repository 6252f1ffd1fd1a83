package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Client counts protocol traffic and session outcomes for one board manager.
// A nil *Client is valid and records nothing.
type Client struct {
	received   *prometheus.CounterVec
	dropped    *prometheus.CounterVec
	sent       *prometheus.CounterVec
	skipped    *prometheus.CounterVec
	transport  *prometheus.CounterVec
	gamesEnded *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer to
// expose them through promhttp.Handler.
func New(reg prometheus.Registerer) (*Client, error) {
	c := &Client{
		received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shax", Subsystem: "client", Name: "messages_received_total",
			Help: "Server messages dispatched to a handler, by action.",
		}, []string{"action"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shax", Subsystem: "client", Name: "messages_dropped_total",
			Help: "Server messages discarded without a state change, by reason.",
		}, []string{"reason"}),
		sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shax", Subsystem: "client", Name: "commands_sent_total",
			Help: "Commands written to the transport, by action.",
		}, []string{"action"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shax", Subsystem: "client", Name: "commands_skipped_total",
			Help: "Commands not sent, by action and reason.",
		}, []string{"action", "reason"}),
		transport: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shax", Subsystem: "client", Name: "transport_errors_total",
			Help: "Transport failures, by kind.",
		}, []string{"kind"}),
		gamesEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shax", Subsystem: "client", Name: "games_ended_total",
			Help: "Successful quit results, by flag.",
		}, []string{"flag"}),
	}
	for _, col := range []prometheus.Collector{c.received, c.dropped, c.sent, c.skipped, c.transport, c.gamesEnded} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) MessageReceived(action string) {
	if c == nil {
		return
	}
	c.received.WithLabelValues(action).Inc()
}

func (c *Client) MessageDropped(reason string) {
	if c == nil {
		return
	}
	c.dropped.WithLabelValues(reason).Inc()
}

func (c *Client) CommandSent(action string) {
	if c == nil {
		return
	}
	c.sent.WithLabelValues(action).Inc()
}

func (c *Client) CommandSkipped(action, reason string) {
	if c == nil {
		return
	}
	c.skipped.WithLabelValues(action, reason).Inc()
}

func (c *Client) TransportError(kind string) {
	if c == nil {
		return
	}
	c.transport.WithLabelValues(kind).Inc()
}

func (c *Client) GameEnded(flag string) {
	if c == nil {
		return
	}
	c.gamesEnded.WithLabelValues(flag).Inc()
}
