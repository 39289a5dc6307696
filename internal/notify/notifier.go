package notify

import (
	"fmt"

	"conciergego/backend/internal/models"
	"conciergego/backend/internal/storage"

	"github.com/rs/zerolog"
)

// Notifier is the fire-and-forget notification dispatcher. Every method is
// best-effort: failures are logged inside the implementation and never reach
// the caller, so a broken side channel cannot abort a message send, a booking
// creation, or a request transition.
type Notifier interface {
	MessageReceived(conv *models.Conversation, msg *models.Message)
	NewRequest(req *models.Request)
	RequestUpdated(req *models.Request)
	BookingConfirmed(b *models.Booking)
	BookingCancelled(b *models.Booking)
}

// Service persists notification rows and optionally pings the concierge
// telegram channel.
type Service struct {
	store    storage.NotificationStore
	admins   adminRoster
	telegram *TelegramChannel
	log      zerolog.Logger
}

type adminRoster interface {
	AdminUserIDs() ([]uint, error)
}

// NewService constructs the dispatcher. telegram may be nil.
func NewService(store storage.NotificationStore, admins adminRoster, telegram *TelegramChannel, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		admins:   admins,
		telegram: telegram,
		log:      log.With().Str("component", "notify").Logger(),
	}
}

func (s *Service) save(n *models.Notification) {
	if err := s.store.SaveNotification(n); err != nil {
		s.log.Warn().Err(err).
			Uint("user_id", n.UserID).
			Str("type", string(n.Type)).
			Msg("notification dropped")
	}
}

func (s *Service) eachAdmin(fn func(adminID uint)) {
	ids, err := s.admins.AdminUserIDs()
	if err != nil {
		s.log.Warn().Err(err).Msg("admin roster unavailable, notifications dropped")
		return
	}
	for _, id := range ids {
		fn(id)
	}
}

// MessageReceived notifies the party that did not send the message: the
// customer when an admin writes, the concierge team when a customer writes.
func (s *Service) MessageReceived(conv *models.Conversation, msg *models.Message) {
	convID := conv.ID
	if msg.SenderType == models.SenderTypeAdmin {
		s.save(&models.Notification{
			UserID:    conv.UserID,
			Title:     "New Message",
			Message:   "You received a new message from your concierge",
			Type:      models.NotificationMessageReceived,
			RelatedID: &convID,
		})
		return
	}

	s.eachAdmin(func(adminID uint) {
		s.save(&models.Notification{
			UserID:    adminID,
			Title:     "New Message",
			Message:   fmt.Sprintf("New customer message in conversation %d", convID),
			Type:      models.NotificationMessageReceived,
			RelatedID: &convID,
		})
	})
	s.ping(fmt.Sprintf("New customer message in conversation %d", convID))
}

// NewRequest notifies the concierge team about a freshly submitted request.
func (s *Service) NewRequest(req *models.Request) {
	reqID := req.ID
	s.eachAdmin(func(adminID uint) {
		s.save(&models.Notification{
			UserID:    adminID,
			Title:     "New Request",
			Message:   fmt.Sprintf("New request: %s", req.Title),
			Type:      models.NotificationNewRequest,
			RelatedID: &reqID,
		})
	})
	s.ping(fmt.Sprintf("New request #%d: %s", reqID, req.Title))
}

// RequestUpdated tells the owner their request changed status.
func (s *Service) RequestUpdated(req *models.Request) {
	reqID := req.ID
	s.save(&models.Notification{
		UserID:    req.UserID,
		Title:     "Request Updated",
		Message:   fmt.Sprintf("Your request status has been updated to: %s", req.Status),
		Type:      models.NotificationRequestUpdated,
		RelatedID: &reqID,
	})
}

// BookingConfirmed tells the owner a booking was created for them.
func (s *Service) BookingConfirmed(b *models.Booking) {
	bookingID := b.ID
	s.save(&models.Notification{
		UserID:    b.UserID,
		Title:     "Booking Confirmed",
		Message:   fmt.Sprintf("Your booking has been confirmed for %s", b.StartAt.Format("Jan 2, 15:04")),
		Type:      models.NotificationBookingConfirmed,
		RelatedID: &bookingID,
	})
}

// BookingCancelled tells the owner their booking was cancelled.
func (s *Service) BookingCancelled(b *models.Booking) {
	bookingID := b.ID
	s.save(&models.Notification{
		UserID:    b.UserID,
		Title:     "Booking Cancelled",
		Message:   "We regret to inform you that your booking has been cancelled. Please contact support if you have any questions.",
		Type:      models.NotificationBookingCancelled,
		RelatedID: &bookingID,
	})
}

func (s *Service) ping(text string) {
	if s.telegram == nil {
		return
	}
	if err := s.telegram.Send(text); err != nil {
		s.log.Warn().Err(err).Msg("telegram ping failed")
	}
}
