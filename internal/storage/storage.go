package storage

import (
	"context"
	"errors"
	"time"

	"conciergego/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("record not found")

// UserStore resolves users and the admin roster.
type UserStore interface {
	GetUserByID(id uint) (*models.User, error)
	AdminUserIDs() ([]uint, error)
}

// RequestStore persists concierge requests.
type RequestStore interface {
	SaveRequest(req *models.Request) error
	GetRequestByID(id uint) (*models.Request, error)
	UpdateRequest(req *models.Request) error
	ListRequestsByUser(userID uint, offset, limit int) ([]models.Request, error)
}

// ConversationStore enforces one conversation per request and owns the
// durable, append-only message sequence.
type ConversationStore interface {
	SaveConversation(conv *models.Conversation) error
	GetConversationByID(id uint) (*models.Conversation, error)
	GetConversationWithMessages(id uint) (*models.Conversation, error)
	GetConversationByRequestID(requestID uint) (*models.Conversation, error)
	ListConversationsByUser(userID uint, offset, limit int) ([]models.Conversation, error)
	ListConversations(offset, limit int) ([]models.Conversation, int64, error)

	AddMessage(msg *models.Message) error
	ListMessages(conversationID uint, offset, limit int) ([]models.Message, error)
}

// BookingStore persists bookings.
type BookingStore interface {
	SaveBooking(b *models.Booking) error
	GetBookingByID(id uint) (*models.Booking, error)
	UpdateBooking(b *models.Booking) error
	ListBookingsByUser(userID uint, status models.BookingStatus, offset, limit int) ([]models.Booking, error)
}

// NotificationStore persists in-app notifications.
type NotificationStore interface {
	SaveNotification(n *models.Notification) error
	ListNotificationsByUser(userID uint, offset, limit int) ([]models.Notification, error)
	MarkNotificationRead(id, userID uint) error
}

// Store is the full persistence surface, implemented by Service.
type Store interface {
	UserStore
	RequestStore
	ConversationStore
	BookingStore
	NotificationStore
}

// Service implements Store over gorm (PostgreSQL) plus an optional redis
// client used by the broadcast relay.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewService constructs the storage service.
func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// Migrate creates or updates the schema for every model.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.Request{},
		&models.Conversation{},
		&models.Message{},
		&models.Booking{},
		&models.Notification{},
	)
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// --- users ---

func (s *Service) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Service) AdminUserIDs() ([]uint, error) {
	var ids []uint
	err := s.DB.Model(&models.User{}).
		Where("is_admin = ?", true).
		Pluck("id", &ids).Error
	return ids, err
}

// --- requests ---

func (s *Service) SaveRequest(req *models.Request) error {
	return s.DB.Create(req).Error
}

func (s *Service) GetRequestByID(id uint) (*models.Request, error) {
	var req models.Request
	if err := s.DB.First(&req, id).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (s *Service) UpdateRequest(req *models.Request) error {
	return s.DB.Save(req).Error
}

func (s *Service) ListRequestsByUser(userID uint, offset, limit int) ([]models.Request, error) {
	var reqs []models.Request
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&reqs).Error
	return reqs, err
}

// --- conversations ---

// SaveConversation inserts the conversation for a request. The unique index
// on request_id backs the one-conversation-per-request invariant.
func (s *Service) SaveConversation(conv *models.Conversation) error {
	return s.DB.Create(conv).Error
}

func (s *Service) GetConversationByID(id uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := s.DB.First(&conv, id).Error; err != nil {
		return nil, translate(err)
	}
	return &conv, nil
}

func (s *Service) GetConversationWithMessages(id uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.DB.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("messages.id asc")
	}).First(&conv, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &conv, nil
}

func (s *Service) GetConversationByRequestID(requestID uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := s.DB.Where("request_id = ?", requestID).First(&conv).Error; err != nil {
		return nil, translate(err)
	}
	return &conv, nil
}

func (s *Service) ListConversationsByUser(userID uint, offset, limit int) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&convs).Error
	return convs, err
}

func (s *Service) ListConversations(offset, limit int) ([]models.Conversation, int64, error) {
	var convs []models.Conversation
	var total int64
	if err := s.DB.Model(&models.Conversation{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := s.DB.Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&convs).Error
	return convs, total, err
}

// --- messages ---

// AddMessage appends a message to its conversation, assigning ID and
// CreatedAt. Per-conversation ordering is the chathub publisher's job; it
// serializes persist and fan-out as one step.
func (s *Service) AddMessage(msg *models.Message) error {
	msg.CreatedAt = time.Now().UTC()
	return s.DB.Create(msg).Error
}

func (s *Service) ListMessages(conversationID uint, offset, limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := s.DB.Where("conversation_id = ?", conversationID).
		Order("id asc").
		Offset(offset).Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

// --- bookings ---

func (s *Service) SaveBooking(b *models.Booking) error {
	return s.DB.Create(b).Error
}

func (s *Service) GetBookingByID(id uint) (*models.Booking, error) {
	var b models.Booking
	if err := s.DB.First(&b, id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *Service) UpdateBooking(b *models.Booking) error {
	return s.DB.Save(b).Error
}

func (s *Service) ListBookingsByUser(userID uint, status models.BookingStatus, offset, limit int) ([]models.Booking, error) {
	q := s.DB.Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var bookings []models.Booking
	err := q.Order("start_at desc").
		Offset(offset).Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

// --- notifications ---

func (s *Service) SaveNotification(n *models.Notification) error {
	return s.DB.Create(n).Error
}

func (s *Service) ListNotificationsByUser(userID uint, offset, limit int) ([]models.Notification, error) {
	var ns []models.Notification
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&ns).Error
	return ns, err
}

func (s *Service) MarkNotificationRead(id, userID uint) error {
	res := s.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
