package service

import (
	"time"

	"conciergego/backend/internal/models"
	"conciergego/backend/internal/notify"
	"conciergego/backend/internal/storage"

	"github.com/rs/zerolog"
)

// ConfirmInput is the admin payload for confirming a conversation into a
// booking. RequestID and VendorID are resolved from the conversation and its
// request when omitted.
type ConfirmInput struct {
	StartAt  time.Time  `json:"start_at" binding:"required"`
	EndAt    *time.Time `json:"end_at"`
	VendorID *uint      `json:"vendor_id"`
	Notes    string     `json:"notes"`
}

// UpdateStatusInput is the payload for PATCH /bookings/{id}/status.
type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// BookingService drives the booking lifecycle and the admin confirmation flow
// that composes request transitions with booking creation.
type BookingService struct {
	bookings      storage.BookingStore
	requests      storage.RequestStore
	conversations storage.ConversationStore
	notifier      notify.Notifier
	log           zerolog.Logger
}

// NewBookingService constructs the service.
func NewBookingService(bookings storage.BookingStore, requests storage.RequestStore, conversations storage.ConversationStore, notifier notify.Notifier, log zerolog.Logger) *BookingService {
	return &BookingService{
		bookings:      bookings,
		requests:      requests,
		conversations: conversations,
		notifier:      notifier,
		log:           log.With().Str("component", "bookings").Logger(),
	}
}

// ConfirmConversation is the admin confirmation flow: walk the linked request
// into in_progress, then create exactly one upcoming booking for it. A
// request that is fulfilled or cancelled is a hard failure and no booking is
// created.
func (s *BookingService) ConfirmConversation(conversationID, adminID uint, in ConfirmInput) (*models.Booking, error) {
	conv, err := s.conversations.GetConversationByID(conversationID)
	if err != nil {
		return nil, err
	}

	req, err := s.requests.GetRequestByID(conv.RequestID)
	if err != nil {
		return nil, err
	}

	switch req.Status {
	case models.RequestStatusInProgress:
		// already being worked on, nothing to advance
	case models.RequestStatusAssigned:
		if err := req.StartProgress(); err != nil {
			return nil, err
		}
	case models.RequestStatusNew:
		if err := req.Assign(); err != nil {
			return nil, err
		}
		if err := req.StartProgress(); err != nil {
			return nil, err
		}
	default:
		return nil, models.NewValidationError("cannot confirm booking for request in status %q", req.Status)
	}

	if err := s.requests.UpdateRequest(req); err != nil {
		return nil, err
	}

	vendorID := in.VendorID
	if vendorID == nil {
		vendorID = req.VendorID
	}

	booking, err := models.NewBooking(req.ID, req.UserID, vendorID, in.StartAt, in.EndAt, &adminID, in.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.bookings.SaveBooking(booking); err != nil {
		return nil, err
	}

	s.notifier.BookingConfirmed(booking)
	s.notifier.RequestUpdated(req)
	s.log.Info().
		Uint("booking_id", booking.ID).
		Uint("request_id", req.ID).
		Uint("admin_id", adminID).
		Msg("conversation confirmed, booking created")
	return booking, nil
}

// UpdateStatus applies a target status through the booking state machine.
func (s *BookingService) UpdateStatus(bookingID uint, in UpdateStatusInput) (*models.Booking, error) {
	target, err := models.ParseBookingStatus(in.Status)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetBookingByID(bookingID)
	if err != nil {
		return nil, err
	}
	if err := booking.ApplyStatus(target); err != nil {
		return nil, err
	}
	if err := s.bookings.UpdateBooking(booking); err != nil {
		return nil, err
	}

	if booking.Status == models.BookingStatusCancelled {
		s.notifier.BookingCancelled(booking)
	}

	s.log.Info().Uint("booking_id", booking.ID).Str("status", string(booking.Status)).Msg("booking status updated")
	return booking, nil
}

// Get returns a booking, enforcing ownership for non-admins.
func (s *BookingService) Get(bookingID, callerID uint, isAdmin bool) (*models.Booking, error) {
	booking, err := s.bookings.GetBookingByID(bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != callerID {
		return nil, ErrAccessDenied
	}
	return booking, nil
}

// ListByUser returns the caller's bookings, optionally filtered by status.
func (s *BookingService) ListByUser(userID uint, status models.BookingStatus, offset, limit int) ([]models.Booking, error) {
	return s.bookings.ListBookingsByUser(userID, status, offset, limit)
}
