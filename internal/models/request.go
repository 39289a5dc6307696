package models

import (
	"strings"
	"time"
)

// RequestStatus is the lifecycle status of a concierge request.
type RequestStatus string

const (
	RequestStatusNew        RequestStatus = "new"
	RequestStatusAssigned   RequestStatus = "assigned"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusFulfilled  RequestStatus = "fulfilled"
	RequestStatusCancelled  RequestStatus = "cancelled"
)

// Request represents a concierge service request. Its status moves strictly
// forward (new -> assigned -> in_progress -> fulfilled) through the named
// transition methods; callers never assign Status directly. cancelled is
// terminal and reachable from every non-terminal status.
type Request struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	UserID       uint          `gorm:"not null;index" json:"user_id"`
	VendorID     *uint         `gorm:"index" json:"vendor_id,omitempty"`
	Title        string        `gorm:"type:text;not null" json:"title"`
	CategorySlug string        `gorm:"type:text;not null" json:"category_slug"`
	Description  string        `gorm:"type:text;not null" json:"description"`
	Status       RequestStatus `gorm:"type:text;not null;default:new;index" json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewRequest validates input and builds a request in status "new".
func NewRequest(userID uint, title, categorySlug, description string, vendorID *uint) (*Request, error) {
	description = strings.TrimSpace(description)
	if len(description) < 10 {
		return nil, NewValidationError("description must be at least 10 characters")
	}

	return &Request{
		UserID:       userID,
		VendorID:     vendorID,
		Title:        strings.TrimSpace(title),
		CategorySlug: categorySlug,
		Description:  description,
		Status:       RequestStatusNew,
	}, nil
}

// Assign marks the request as picked up by a concierge.
func (r *Request) Assign() error {
	if r.Status != RequestStatusNew {
		return &InvalidStateError{Entity: "request", Status: string(r.Status), Op: "assign"}
	}
	r.Status = RequestStatusAssigned
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// StartProgress marks an assigned request as actively worked on.
func (r *Request) StartProgress() error {
	if r.Status != RequestStatusAssigned {
		return &InvalidStateError{Entity: "request", Status: string(r.Status), Op: "start progress on"}
	}
	r.Status = RequestStatusInProgress
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// Fulfill closes out a request that was in progress.
func (r *Request) Fulfill() error {
	if r.Status != RequestStatusInProgress {
		return &InvalidStateError{Entity: "request", Status: string(r.Status), Op: "fulfill"}
	}
	r.Status = RequestStatusFulfilled
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// Cancel is allowed from any non-terminal status.
func (r *Request) Cancel() error {
	if r.Status == RequestStatusFulfilled || r.Status == RequestStatusCancelled {
		return &InvalidStateError{Entity: "request", Status: string(r.Status), Op: "cancel"}
	}
	r.Status = RequestStatusCancelled
	r.UpdatedAt = time.Now().UTC()
	return nil
}
