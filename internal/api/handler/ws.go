package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"conciergego/backend/internal/chathub"
	"conciergego/backend/internal/models"
	"conciergego/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Close codes distinguishing why the server refused a chat session.
const (
	CloseInvalidToken = 4001
	CloseAccessDenied = 4003
	CloseNotFound     = 4004
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Tokens carry the trust here, not the Origin header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeChatWS upgrades the connection, authenticates and authorizes the
// caller, then hands the socket to a chathub session.
//
// The handshake is accepted even on failure so a structured error frame can
// be delivered before closing with a distinguishing code.
func (h *Handler) ServeChatWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// gorilla already wrote the HTTP error response
		return
	}

	claims, err := h.Auth.Verify(c.Query("token"))
	if err != nil {
		h.rejectWS(conn, CloseInvalidToken, "Invalid or expired token")
		return
	}

	conversationID, err := strconv.ParseUint(c.Param("conversation_id"), 10, 64)
	if err != nil || conversationID == 0 {
		h.rejectWS(conn, CloseNotFound, "Conversation not found")
		return
	}

	conv, err := h.Store.GetConversationByID(uint(conversationID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.rejectWS(conn, CloseNotFound, "Conversation not found")
		} else {
			h.Log.Error().Err(err).Uint64("conversation_id", conversationID).Msg("load conversation")
			h.rejectWS(conn, websocket.CloseInternalServerErr, "Internal error")
		}
		return
	}

	if !claims.IsAdmin && conv.UserID != claims.UserID {
		h.rejectWS(conn, CloseAccessDenied, "Access denied to this conversation")
		return
	}

	senderType := models.SenderTypeUser
	if claims.IsAdmin {
		senderType = models.SenderTypeAdmin
	}

	client := chathub.NewWSClient(conn, h.Hub, h.Publisher, h.Notifier, conv, claims.UserID, senderType, h.Log)
	h.Hub.Connect(client)
	h.Hub.SendPersonal(client, models.ConnectedFrame{
		Type:           models.FrameTypeConnected,
		ConversationID: conv.ID,
		UserType:       string(senderType),
		Message:        fmt.Sprintf("Connected to chat as %s", senderType),
	})
	client.Run()
}

// rejectWS delivers an error frame and closes with the given code. Best
// effort all the way down; the peer may already be gone.
func (h *Handler) rejectWS(conn *websocket.Conn, code int, msg string) {
	deadline := time.Now().Add(5 * time.Second)
	conn.SetWriteDeadline(deadline)
	conn.WriteJSON(models.NewErrorFrame(msg))
	conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, msg), deadline)
	conn.Close()
}
