package chathub

import (
	"sync"

	"conciergego/backend/internal/metrics"
	"conciergego/backend/internal/models"
)

// Publisher is the single entry point for appending a chat message. It holds
// a per-conversation lock across persist and fan-out, so every listener
// observes message frames in exactly the persisted id order even when senders
// race. Both the websocket session loop and the HTTP message endpoint go
// through here.
type Publisher struct {
	store MessageStore
	hub   *Hub

	mu    sync.Mutex
	locks map[uint]*convLock
}

// convLock is refcounted so idle conversations do not pin a mutex forever.
type convLock struct {
	mu   sync.Mutex
	refs int
}

// NewPublisher constructs a publisher over the store and hub.
func NewPublisher(store MessageStore, hub *Hub) *Publisher {
	return &Publisher{
		store: store,
		hub:   hub,
		locks: make(map[uint]*convLock),
	}
}

// Publish persists the message and broadcasts the resulting frame while
// holding the conversation's lock. The next sender for the same conversation
// cannot persist until this frame has been handed to every room member.
func (p *Publisher) Publish(msg *models.Message) error {
	l := p.acquire(msg.ConversationID)
	defer p.release(msg.ConversationID, l)

	if err := p.store.AddMessage(msg); err != nil {
		return err
	}
	metrics.MessageStored()

	p.hub.Broadcast(msg.ConversationID, models.NewMessageFrame(msg))
	return nil
}

func (p *Publisher) acquire(conversationID uint) *convLock {
	p.mu.Lock()
	l, ok := p.locks[conversationID]
	if !ok {
		l = &convLock{}
		p.locks[conversationID] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()
	return l
}

func (p *Publisher) release(conversationID uint, l *convLock) {
	l.mu.Unlock()

	p.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(p.locks, conversationID)
	}
	p.mu.Unlock()
}
