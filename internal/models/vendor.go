package models

import (
	"time"

	"github.com/lib/pq"
)

// Vendor is a service provider that bookings reference. Vendor CRUD is managed
// elsewhere; this model exists so requests and bookings can resolve a vendor.
// Each vendor category has a fixed schema at the edges, so categories are a
// flat tag array rather than an open metadata map.
type Vendor struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"type:text;not null" json:"name"`
	Categories pq.StringArray `gorm:"type:text[]" json:"categories"`
	IsActive   bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
}
