package chathub

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// relayChannel is the single redis pub/sub channel shared by all instances.
const relayChannel = "chat:broadcast"

// relayEnvelope wraps a broadcast frame with its conversation and the
// publishing instance, so a node never re-delivers its own frames.
type relayEnvelope struct {
	Origin         string          `json:"origin"`
	ConversationID uint            `json:"conversation_id"`
	Frame          json.RawMessage `json:"frame"`
}

// Relay fans broadcast frames out to other server instances over redis
// pub/sub. Publishing is fire-and-forget: a redis outage degrades the service
// to single-instance delivery, it never fails or stalls a send. A single
// drain goroutine keeps the redis round-trip off the sender's loop while
// preserving publish order.
type Relay struct {
	rdb    *redis.Client
	origin string
	queue  chan []byte
	log    zerolog.Logger
}

// NewRelay constructs a relay with a fresh origin id and starts its drain
// goroutine. The relay lives as long as the process.
func NewRelay(rdb *redis.Client, log zerolog.Logger) *Relay {
	r := &Relay{
		rdb:    rdb,
		origin: uuid.NewString(),
		queue:  make(chan []byte, 256),
		log:    log.With().Str("component", "relay").Logger(),
	}
	go r.drain()
	return r
}

// Publish enqueues one already-encoded frame for the shared channel. Never
// blocks; when the queue is full the frame is dropped for remote peers only,
// local delivery has already happened.
func (r *Relay) Publish(conversationID uint, frame []byte) {
	payload, err := json.Marshal(relayEnvelope{
		Origin:         r.origin,
		ConversationID: conversationID,
		Frame:          frame,
	})
	if err != nil {
		r.log.Error().Err(err).Msg("encode relay envelope")
		return
	}

	select {
	case r.queue <- payload:
	default:
		r.log.Warn().Uint("conversation_id", conversationID).Msg("relay queue full, frame dropped")
	}
}

func (r *Relay) drain() {
	for payload := range r.queue {
		if err := r.rdb.Publish(context.Background(), relayChannel, payload).Err(); err != nil {
			r.log.Warn().Err(err).Msg("relay publish failed")
		}
	}
}

// Listen subscribes to the shared channel and feeds frames from other
// instances into the hub's local rooms. It blocks until ctx is cancelled.
func (r *Relay) Listen(ctx context.Context, hub *Hub) {
	pubsub := r.rdb.Subscribe(ctx, relayChannel)
	defer pubsub.Close()

	go func() {
		<-ctx.Done()
		pubsub.Close()
	}()

	for msg := range pubsub.Channel() {
		var env relayEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			r.log.Warn().Err(err).Msg("malformed relay payload")
			continue
		}
		if env.Origin == r.origin {
			continue
		}
		hub.broadcastLocal(env.ConversationID, env.Frame)
	}
}
