package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "concierge",
			Name:      "ws_connections_active",
			Help:      "Live websocket connections across all rooms.",
		},
	)

	messagesStored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "concierge",
			Name:      "chat_messages_total",
			Help:      "Chat messages persisted.",
		},
	)

	broadcastDrops = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "concierge",
			Name:      "broadcast_drops_total",
			Help:      "Connections pruned because a broadcast delivery failed.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concierge",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route.",
		},
		[]string{"route"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(wsConnections, messagesStored, broadcastDrops, httpRequests)
	})
}

// WSConnected increments the live connection gauge.
func WSConnected() { wsConnections.Inc() }

// WSDisconnected decrements the live connection gauge.
func WSDisconnected() { wsConnections.Dec() }

// MessageStored counts one persisted chat message.
func MessageStored() { messagesStored.Inc() }

// BroadcastDropped counts one pruned connection.
func BroadcastDropped() { broadcastDrops.Inc() }

// IncHTTP increments the counter for a route label.
func IncHTTP(route string) { httpRequests.WithLabelValues(route).Inc() }
