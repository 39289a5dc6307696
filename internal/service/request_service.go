package service

import (
	"errors"

	"conciergego/backend/internal/models"
	"conciergego/backend/internal/notify"
	"conciergego/backend/internal/storage"

	"github.com/rs/zerolog"
)

// ErrAccessDenied is returned when a caller touches a resource they do not
// own and is not an admin.
var ErrAccessDenied = errors.New("access denied")

// SubmitRequestInput is the payload for a new concierge request.
type SubmitRequestInput struct {
	Title        string `json:"title" binding:"required"`
	CategorySlug string `json:"category_slug" binding:"required"`
	Description  string `json:"description" binding:"required"`
	VendorID     *uint  `json:"vendor_id"`
}

// RequestService orchestrates the request lifecycle: submission creates the
// request, its conversation, and a first message carrying the description;
// transitions go through the state machine methods only.
type RequestService struct {
	requests      storage.RequestStore
	conversations storage.ConversationStore
	notifier      notify.Notifier
	log           zerolog.Logger
}

// NewRequestService constructs the service.
func NewRequestService(requests storage.RequestStore, conversations storage.ConversationStore, notifier notify.Notifier, log zerolog.Logger) *RequestService {
	return &RequestService{
		requests:      requests,
		conversations: conversations,
		notifier:      notifier,
		log:           log.With().Str("component", "requests").Logger(),
	}
}

// Submit creates a request in status "new" together with its conversation.
func (s *RequestService) Submit(userID uint, in SubmitRequestInput) (*models.Request, *models.Conversation, error) {
	req, err := models.NewRequest(userID, in.Title, in.CategorySlug, in.Description, in.VendorID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.requests.SaveRequest(req); err != nil {
		return nil, nil, err
	}

	conv := &models.Conversation{RequestID: req.ID, UserID: userID}
	if err := s.conversations.SaveConversation(conv); err != nil {
		return nil, nil, err
	}

	// The description doubles as the opening message of the thread.
	first, err := models.NewMessage(conv.ID, userID, models.SenderTypeUser, req.Description)
	if err == nil {
		if err := s.conversations.AddMessage(first); err != nil {
			s.log.Warn().Err(err).Uint("conversation_id", conv.ID).Msg("first message not persisted")
		}
	}

	s.notifier.NewRequest(req)
	s.log.Info().Uint("request_id", req.ID).Uint("user_id", userID).Msg("request submitted")
	return req, conv, nil
}

// Get returns a request, enforcing ownership for non-admins.
func (s *RequestService) Get(requestID, callerID uint, isAdmin bool) (*models.Request, error) {
	req, err := s.requests.GetRequestByID(requestID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && req.UserID != callerID {
		return nil, ErrAccessDenied
	}
	return req, nil
}

// ListByUser returns the caller's requests, newest first.
func (s *RequestService) ListByUser(userID uint, offset, limit int) ([]models.Request, error) {
	return s.requests.ListRequestsByUser(userID, offset, limit)
}

// Assign moves new -> assigned.
func (s *RequestService) Assign(requestID uint) (*models.Request, error) {
	return s.transition(requestID, (*models.Request).Assign)
}

// StartProgress moves assigned -> in_progress.
func (s *RequestService) StartProgress(requestID uint) (*models.Request, error) {
	return s.transition(requestID, (*models.Request).StartProgress)
}

// Fulfill moves in_progress -> fulfilled.
func (s *RequestService) Fulfill(requestID uint) (*models.Request, error) {
	return s.transition(requestID, (*models.Request).Fulfill)
}

// Cancel moves any non-terminal status -> cancelled.
func (s *RequestService) Cancel(requestID uint) (*models.Request, error) {
	return s.transition(requestID, (*models.Request).Cancel)
}

func (s *RequestService) transition(requestID uint, op func(*models.Request) error) (*models.Request, error) {
	req, err := s.requests.GetRequestByID(requestID)
	if err != nil {
		return nil, err
	}
	if err := op(req); err != nil {
		return nil, err
	}
	if err := s.requests.UpdateRequest(req); err != nil {
		return nil, err
	}
	s.notifier.RequestUpdated(req)
	return req, nil
}
