package models

import "time"

// BookingStatus is the lifecycle status of a booking.
type BookingStatus string

const (
	BookingStatusUpcoming  BookingStatus = "upcoming"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ParseBookingStatus validates a client-supplied status string.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingStatusUpcoming, BookingStatusCompleted, BookingStatusCancelled:
		return BookingStatus(s), nil
	}
	return "", NewValidationError("invalid booking status %q", s)
}

// Booking is a confirmed booking created from an admin-confirmed conversation.
// completed is terminal. cancelled is terminal except for Reset, which permits
// the administrative correction cancelled -> upcoming.
type Booking struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	RequestID uint          `gorm:"not null;index" json:"request_id"`
	UserID    uint          `gorm:"not null;index:idx_bookings_user" json:"user_id"`
	VendorID  *uint         `gorm:"index" json:"vendor_id,omitempty"`
	StartAt   time.Time     `gorm:"not null;index" json:"start_at"`
	EndAt     *time.Time    `json:"end_at,omitempty"`
	Status    BookingStatus `gorm:"type:text;not null;default:upcoming;index" json:"status"`
	Notes     string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy *uint         `json:"created_by,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewBooking builds an upcoming booking. StartAt is required.
func NewBooking(requestID, userID uint, vendorID *uint, startAt time.Time, endAt *time.Time, createdBy *uint, notes string) (*Booking, error) {
	if startAt.IsZero() {
		return nil, NewValidationError("start_at is required for a booking")
	}

	return &Booking{
		RequestID: requestID,
		UserID:    userID,
		VendorID:  vendorID,
		StartAt:   startAt,
		EndAt:     endAt,
		Status:    BookingStatusUpcoming,
		Notes:     notes,
		CreatedBy: createdBy,
	}, nil
}

// Complete requires the booking to still be upcoming.
func (b *Booking) Complete() error {
	if b.Status != BookingStatusUpcoming {
		return &InvalidStateError{Entity: "booking", Status: string(b.Status), Op: "complete"}
	}
	b.Status = BookingStatusCompleted
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// Cancel fails only for completed bookings. Cancelling an already-cancelled
// booking succeeds; the source system treats redundant cancels as idempotent.
func (b *Booking) Cancel() error {
	if b.Status == BookingStatusCompleted {
		return &InvalidStateError{Entity: "booking", Status: string(b.Status), Op: "cancel"}
	}
	b.Status = BookingStatusCancelled
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// Reset returns a cancelled booking to upcoming. Nothing ever leaves
// completed.
func (b *Booking) Reset() error {
	if b.Status == BookingStatusCompleted {
		return &InvalidStateError{Entity: "booking", Status: string(b.Status), Op: "reset"}
	}
	b.Status = BookingStatusUpcoming
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// ApplyStatus routes a client-supplied target status to the matching
// transition.
func (b *Booking) ApplyStatus(target BookingStatus) error {
	switch target {
	case BookingStatusCompleted:
		return b.Complete()
	case BookingStatusCancelled:
		return b.Cancel()
	case BookingStatusUpcoming:
		return b.Reset()
	}
	return NewValidationError("invalid booking status %q", target)
}
