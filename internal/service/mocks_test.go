package service_test

import (
	"sync"

	"conciergego/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock over the storage interfaces the services use.
type MockStorage struct {
	mock.Mock
}

// --- requests ---

func (m *MockStorage) SaveRequest(req *models.Request) error {
	return m.Called(req).Error(0)
}

func (m *MockStorage) GetRequestByID(id uint) (*models.Request, error) {
	args := m.Called(id)
	if req, ok := args.Get(0).(*models.Request); ok {
		return req, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) UpdateRequest(req *models.Request) error {
	return m.Called(req).Error(0)
}

func (m *MockStorage) ListRequestsByUser(userID uint, offset, limit int) ([]models.Request, error) {
	args := m.Called(userID, offset, limit)
	if reqs, ok := args.Get(0).([]models.Request); ok {
		return reqs, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- conversations ---

func (m *MockStorage) SaveConversation(conv *models.Conversation) error {
	return m.Called(conv).Error(0)
}

func (m *MockStorage) GetConversationByID(id uint) (*models.Conversation, error) {
	args := m.Called(id)
	if conv, ok := args.Get(0).(*models.Conversation); ok {
		return conv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) GetConversationWithMessages(id uint) (*models.Conversation, error) {
	args := m.Called(id)
	if conv, ok := args.Get(0).(*models.Conversation); ok {
		return conv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) GetConversationByRequestID(requestID uint) (*models.Conversation, error) {
	args := m.Called(requestID)
	if conv, ok := args.Get(0).(*models.Conversation); ok {
		return conv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) ListConversationsByUser(userID uint, offset, limit int) ([]models.Conversation, error) {
	args := m.Called(userID, offset, limit)
	if convs, ok := args.Get(0).([]models.Conversation); ok {
		return convs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) ListConversations(offset, limit int) ([]models.Conversation, int64, error) {
	args := m.Called(offset, limit)
	if convs, ok := args.Get(0).([]models.Conversation); ok {
		return convs, args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *MockStorage) AddMessage(msg *models.Message) error {
	return m.Called(msg).Error(0)
}

func (m *MockStorage) ListMessages(conversationID uint, offset, limit int) ([]models.Message, error) {
	args := m.Called(conversationID, offset, limit)
	if msgs, ok := args.Get(0).([]models.Message); ok {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- bookings ---

func (m *MockStorage) SaveBooking(b *models.Booking) error {
	return m.Called(b).Error(0)
}

func (m *MockStorage) GetBookingByID(id uint) (*models.Booking, error) {
	args := m.Called(id)
	if b, ok := args.Get(0).(*models.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) UpdateBooking(b *models.Booking) error {
	return m.Called(b).Error(0)
}

func (m *MockStorage) ListBookingsByUser(userID uint, status models.BookingStatus, offset, limit int) ([]models.Booking, error) {
	args := m.Called(userID, status, offset, limit)
	if bookings, ok := args.Get(0).([]models.Booking); ok {
		return bookings, args.Error(1)
	}
	return nil, args.Error(1)
}

// spyNotifier counts dispatched notifications.
type spyNotifier struct {
	mu               sync.Mutex
	messagesReceived int
	newRequests      int
	requestUpdates   int
	bookingConfirms  int
	bookingCancels   int
}

func (n *spyNotifier) MessageReceived(*models.Conversation, *models.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messagesReceived++
}

func (n *spyNotifier) NewRequest(*models.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.newRequests++
}

func (n *spyNotifier) RequestUpdated(*models.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.requestUpdates++
}

func (n *spyNotifier) BookingConfirmed(*models.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bookingConfirms++
}

func (n *spyNotifier) BookingCancelled(*models.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bookingCancels++
}
