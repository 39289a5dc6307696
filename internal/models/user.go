package models

import "time"

// User is a customer or concierge admin. Credentials and profile editing live
// outside this service; only identity and the admin flag matter here.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	FullName  string    `gorm:"type:text" json:"full_name"`
	IsAdmin   bool      `gorm:"not null;default:false;index" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
