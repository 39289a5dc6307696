package chathub

import (
	"encoding/json"
	"sync"

	"conciergego/backend/internal/metrics"

	"github.com/rs/zerolog"
)

// Client is one live realtime connection attached to a single conversation.
// It abstracts the underlying transport so the hub can manage websocket
// connections and test doubles uniformly.
type Client interface {
	// ID returns the unique identifier of this connection (not the user).
	ID() string
	// ConversationID returns the conversation this connection listens to.
	ConversationID() uint
	// Enqueue hands an encoded frame to the client's writer. It must never
	// block; it reports false when the client can no longer accept frames
	// (buffer full or connection closing) so the hub can prune it.
	Enqueue(frame []byte) bool
	// Close shuts the client down. Safe to call more than once.
	Close()
}

// Hub tracks the set of live connections per conversation and provides the
// broadcast and unicast primitives. It is the single source of truth for who
// is listening; it holds no conversation or message data.
//
// A room exists in the registry iff it has at least one connection. All
// registry mutations are serialized by one mutex; room slices preserve
// registration order so broadcast delivery order is deterministic.
type Hub struct {
	mu    sync.Mutex
	rooms map[uint][]Client

	relay *Relay
	log   zerolog.Logger
}

// NewHub constructs an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		rooms: make(map[uint][]Client),
		log:   log.With().Str("component", "chathub").Logger(),
	}
}

// SetRelay attaches the optional cross-instance broadcast relay.
func (h *Hub) SetRelay(r *Relay) {
	h.relay = r
}

// Connect registers the client under its conversation's room. Adding the same
// client twice is a no-op.
func (h *Hub) Connect(c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.rooms[c.ConversationID()]
	for _, existing := range room {
		if existing.ID() == c.ID() {
			return
		}
	}
	h.rooms[c.ConversationID()] = append(room, c)

	metrics.WSConnected()
	h.log.Info().
		Uint("conversation_id", c.ConversationID()).
		Str("connection_id", c.ID()).
		Int("room_size", len(room)+1).
		Msg("connection joined room")
}

// Disconnect removes the client from its room and drops the room entry when
// it becomes empty. Removing an absent client is a no-op, so duplicate
// teardown paths are safe.
func (h *Hub) Disconnect(c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c Client) {
	room, ok := h.rooms[c.ConversationID()]
	if !ok {
		return
	}
	for i, existing := range room {
		if existing.ID() != c.ID() {
			continue
		}
		room = append(room[:i], room[i+1:]...)
		if len(room) == 0 {
			delete(h.rooms, c.ConversationID())
		} else {
			h.rooms[c.ConversationID()] = room
		}

		metrics.WSDisconnected()
		h.log.Info().
			Uint("conversation_id", c.ConversationID()).
			Str("connection_id", c.ID()).
			Msg("connection left room")
		return
	}
}

// Broadcast delivers the payload to every connection in the conversation's
// room, in registration order. A connection that cannot accept the frame is
// removed from the room and closed; the others still receive it. When a relay
// is attached, the frame is also published for other instances.
func (h *Hub) Broadcast(conversationID uint, payload any) {
	frame, err := json.Marshal(payload)
	if err != nil {
		h.log.Error().Err(err).Uint("conversation_id", conversationID).Msg("encode broadcast frame")
		return
	}

	h.broadcastLocal(conversationID, frame)

	if h.relay != nil {
		h.relay.Publish(conversationID, frame)
	}
}

func (h *Hub) broadcastLocal(conversationID uint, frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var dead []Client
	for _, c := range h.rooms[conversationID] {
		if !c.Enqueue(frame) {
			dead = append(dead, c)
		}
	}

	for _, c := range dead {
		metrics.BroadcastDropped()
		h.log.Warn().
			Uint("conversation_id", conversationID).
			Str("connection_id", c.ID()).
			Msg("dropping unresponsive connection")
		h.removeLocked(c)
		c.Close()
	}
}

// SendPersonal delivers the payload to exactly one connection. Failures are
// logged, never raised to the caller.
func (h *Hub) SendPersonal(c Client, payload any) {
	frame, err := json.Marshal(payload)
	if err != nil {
		h.log.Error().Err(err).Str("connection_id", c.ID()).Msg("encode personal frame")
		return
	}
	if !c.Enqueue(frame) {
		h.log.Warn().Str("connection_id", c.ID()).Msg("personal send failed")
	}
}

// RoomSize reports how many connections are registered for a conversation.
func (h *Hub) RoomSize(conversationID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[conversationID])
}

// Rooms reports the number of non-empty rooms.
func (h *Hub) Rooms() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}

// Shutdown closes every connection in every room and empties the registry.
// Called once when the server drains.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := make([]Client, 0)
	for _, room := range h.rooms {
		clients = append(clients, room...)
	}
	h.rooms = make(map[uint][]Client)
	h.mu.Unlock()

	for _, c := range clients {
		metrics.WSDisconnected()
		c.Close()
	}
	h.log.Info().Int("connections", len(clients)).Msg("hub shut down")
}
