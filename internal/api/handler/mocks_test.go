package handler_test

import (
	"conciergego/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock over the full storage surface.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetUserByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) AdminUserIDs() ([]uint, error) {
	args := m.Called()
	if ids, ok := args.Get(0).([]uint); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) SaveRequest(req *models.Request) error {
	return m.Called(req).Error(0)
}

func (m *MockStore) GetRequestByID(id uint) (*models.Request, error) {
	args := m.Called(id)
	if req, ok := args.Get(0).(*models.Request); ok {
		return req, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) UpdateRequest(req *models.Request) error {
	return m.Called(req).Error(0)
}

func (m *MockStore) ListRequestsByUser(userID uint, offset, limit int) ([]models.Request, error) {
	args := m.Called(userID, offset, limit)
	if reqs, ok := args.Get(0).([]models.Request); ok {
		return reqs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) SaveConversation(conv *models.Conversation) error {
	return m.Called(conv).Error(0)
}

func (m *MockStore) GetConversationByID(id uint) (*models.Conversation, error) {
	args := m.Called(id)
	if conv, ok := args.Get(0).(*models.Conversation); ok {
		return conv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) GetConversationWithMessages(id uint) (*models.Conversation, error) {
	args := m.Called(id)
	if conv, ok := args.Get(0).(*models.Conversation); ok {
		return conv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) GetConversationByRequestID(requestID uint) (*models.Conversation, error) {
	args := m.Called(requestID)
	if conv, ok := args.Get(0).(*models.Conversation); ok {
		return conv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) ListConversationsByUser(userID uint, offset, limit int) ([]models.Conversation, error) {
	args := m.Called(userID, offset, limit)
	if convs, ok := args.Get(0).([]models.Conversation); ok {
		return convs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) ListConversations(offset, limit int) ([]models.Conversation, int64, error) {
	args := m.Called(offset, limit)
	if convs, ok := args.Get(0).([]models.Conversation); ok {
		return convs, args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *MockStore) AddMessage(msg *models.Message) error {
	return m.Called(msg).Error(0)
}

func (m *MockStore) ListMessages(conversationID uint, offset, limit int) ([]models.Message, error) {
	args := m.Called(conversationID, offset, limit)
	if msgs, ok := args.Get(0).([]models.Message); ok {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) SaveBooking(b *models.Booking) error {
	return m.Called(b).Error(0)
}

func (m *MockStore) GetBookingByID(id uint) (*models.Booking, error) {
	args := m.Called(id)
	if b, ok := args.Get(0).(*models.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) UpdateBooking(b *models.Booking) error {
	return m.Called(b).Error(0)
}

func (m *MockStore) ListBookingsByUser(userID uint, status models.BookingStatus, offset, limit int) ([]models.Booking, error) {
	args := m.Called(userID, status, offset, limit)
	if bookings, ok := args.Get(0).([]models.Booking); ok {
		return bookings, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) SaveNotification(n *models.Notification) error {
	return m.Called(n).Error(0)
}

func (m *MockStore) ListNotificationsByUser(userID uint, offset, limit int) ([]models.Notification, error) {
	args := m.Called(userID, offset, limit)
	if ns, ok := args.Get(0).([]models.Notification); ok {
		return ns, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) MarkNotificationRead(id, userID uint) error {
	return m.Called(id, userID).Error(0)
}

// stubNotifier ignores every notification; side-channel delivery has its own
// tests.
type stubNotifier struct{}

func (stubNotifier) MessageReceived(*models.Conversation, *models.Message) {}
func (stubNotifier) NewRequest(*models.Request)                           {}
func (stubNotifier) RequestUpdated(*models.Request)                       {}
func (stubNotifier) BookingConfirmed(*models.Booking)                     {}
func (stubNotifier) BookingCancelled(*models.Booking)                     {}
