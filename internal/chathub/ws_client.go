package chathub

import (
	"encoding/json"
	"sync"
	"time"

	"conciergego/backend/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// MessageStore is the slice of persistence the session loop needs: append a
// message and learn its assigned id and timestamp.
type MessageStore interface {
	AddMessage(msg *models.Message) error
}

// Notifier is the fire-and-forget side channel poked on inbound messages.
// Implementations must swallow their own errors.
type Notifier interface {
	MessageReceived(conv *models.Conversation, msg *models.Message)
}

// WSClient owns one websocket chat session end-to-end: it reads inbound
// frames and hands them to the publisher, which persists and fans out as one
// ordered step. The handler authenticates and authorizes before constructing
// it.
type WSClient struct {
	id         string
	conn       *websocket.Conn
	hub        *Hub
	publisher  *Publisher
	notifier   Notifier
	conv       *models.Conversation
	userID     uint
	senderType models.SenderType
	log        zerolog.Logger

	send   chan []byte
	mu     sync.Mutex
	closed bool
}

// NewWSClient builds a client for an authorized connection.
func NewWSClient(
	conn *websocket.Conn,
	hub *Hub,
	publisher *Publisher,
	notifier Notifier,
	conv *models.Conversation,
	userID uint,
	senderType models.SenderType,
	log zerolog.Logger,
) *WSClient {
	id := uuid.NewString()
	return &WSClient{
		id:         id,
		conn:       conn,
		hub:        hub,
		publisher:  publisher,
		notifier:   notifier,
		conv:       conv,
		userID:     userID,
		senderType: senderType,
		log: log.With().
			Str("connection_id", id).
			Uint("conversation_id", conv.ID).
			Uint("user_id", userID).
			Logger(),
		send: make(chan []byte, 256),
	}
}

func (c *WSClient) ID() string            { return c.id }
func (c *WSClient) ConversationID() uint  { return c.conv.ID }
func (c *WSClient) UserID() uint          { return c.userID }
func (c *WSClient) SenderType() models.SenderType { return c.senderType }

// Enqueue hands a frame to the write pump without blocking.
func (c *WSClient) Enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// Close stops the write pump. Idempotent; every teardown path funnels here.
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// Run starts the read and write pumps.
func (c *WSClient) Run() {
	go c.writePump()
	go c.readPump()
}

// readPump is the session loop: receive one inbound frame, persist, notify
// the other party best-effort, broadcast. Validation failures keep the
// session alive; transport errors end it.
func (c *WSClient) readPump() {
	defer func() {
		c.hub.Disconnect(c)
		c.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("read error")
			}
			break
		}

		var in models.InboundFrame
		if err := json.Unmarshal(raw, &in); err != nil {
			c.hub.SendPersonal(c, models.NewErrorFrame("invalid message format"))
			continue
		}

		msg, err := models.NewMessage(c.conv.ID, c.userID, c.senderType, in.Content)
		if err != nil {
			c.hub.SendPersonal(c, models.NewErrorFrame(err.Error()))
			continue
		}

		// Persist and broadcast as one ordered step; the publisher keeps
		// frames in persisted order across concurrent senders.
		if err := c.publisher.Publish(msg); err != nil {
			c.log.Error().Err(err).Msg("persist message")
			c.hub.SendPersonal(c, models.NewErrorFrame("failed to process message"))
			continue
		}

		// Off the broadcast path; the notifier swallows its own failures.
		go c.notifier.MessageReceived(c.conv, msg)
	}
}

// writePump drains the send channel onto the socket and keeps the connection
// alive with pings. It exits when the send channel closes or a write fails.
func (c *WSClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
