package chathub_test

import (
	"sync"

	"conciergego/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of the chathub.MessageStore interface.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) AddMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

// stubNotifier is a no-op chathub.Notifier; notification content is asserted
// in the notify package's own tests.
type stubNotifier struct{}

func (stubNotifier) MessageReceived(conv *models.Conversation, msg *models.Message) {}

// mockClient is a controllable test double for the chathub.Client interface.
type mockClient struct {
	id             string
	conversationID uint

	mu      sync.Mutex
	frames  [][]byte
	healthy bool
	closed  bool
}

func newMockClient(id string, conversationID uint) *mockClient {
	return &mockClient{id: id, conversationID: conversationID, healthy: true}
}

func (c *mockClient) ID() string           { return c.id }
func (c *mockClient) ConversationID() uint { return c.conversationID }

func (c *mockClient) Enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.healthy || c.closed {
		return false
	}
	c.frames = append(c.frames, frame)
	return true
}

func (c *mockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *mockClient) kill() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.healthy = false
}

func (c *mockClient) received() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.frames))
	for i, f := range c.frames {
		out[i] = string(f)
	}
	return out
}

func (c *mockClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
