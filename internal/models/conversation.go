package models

import (
	"strings"
	"time"
)

// SenderType distinguishes the two kinds of chat participants.
type SenderType string

const (
	SenderTypeUser  SenderType = "user"
	SenderTypeAdmin SenderType = "admin"
)

// Conversation is the chat thread bound one-to-one to a request. The customer
// is a fixed participant; admins are not bound at creation time, any
// authenticated admin may join.
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RequestID uint      `gorm:"not null;uniqueIndex" json:"request_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Messages []Message `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

// Message is an immutable chat message. ID and CreatedAt are assigned by the
// store on persist and are monotonic per conversation.
type Message struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ConversationID uint       `gorm:"not null;index:idx_conv_msg" json:"conversation_id"`
	SenderID       uint       `gorm:"not null" json:"sender_id"`
	SenderType     SenderType `gorm:"type:text;not null" json:"sender_type"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewMessage validates and builds an unsaved message. Content is trimmed and
// must not be empty.
func NewMessage(conversationID, senderID uint, senderType SenderType, content string) (*Message, error) {
	if senderType != SenderTypeUser && senderType != SenderTypeAdmin {
		return nil, NewValidationError("invalid sender type %q", senderType)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, NewValidationError("message content cannot be empty")
	}

	return &Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		SenderType:     senderType,
		Content:        content,
	}, nil
}
