package models

import "time"

// Wire frames for the websocket chat endpoint. Outbound frames are
// discriminated by Type.

const (
	FrameTypeConnected = "connected"
	FrameTypeMessage   = "message"
	FrameTypeError     = "error"
)

// InboundFrame is the only client-to-server frame: {"content": "..."}.
type InboundFrame struct {
	Content string `json:"content"`
}

// ConnectedFrame confirms a successful join and names the effective sender
// type for the session.
type ConnectedFrame struct {
	Type           string `json:"type"`
	ConversationID uint   `json:"conversation_id"`
	UserType       string `json:"user_type"`
	Message        string `json:"message"`
}

// MessageFrame carries one persisted message to every room member.
type MessageFrame struct {
	Type           string     `json:"type"`
	ID             uint       `json:"id"`
	ConversationID uint       `json:"conversation_id"`
	SenderID       uint       `json:"sender_id"`
	SenderType     SenderType `json:"sender_type"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ErrorFrame reports a recoverable or terminal error to one connection.
type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewMessageFrame builds the broadcast frame for a persisted message.
func NewMessageFrame(m *Message) MessageFrame {
	return MessageFrame{
		Type:           FrameTypeMessage,
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		SenderType:     m.SenderType,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

// NewErrorFrame builds an error frame.
func NewErrorFrame(msg string) ErrorFrame {
	return ErrorFrame{Type: FrameTypeError, Message: msg}
}
