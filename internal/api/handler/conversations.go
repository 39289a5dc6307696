package handler

import (
	"net/http"

	"conciergego/backend/internal/models"
	"conciergego/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type sendMessageInput struct {
	Content string `json:"content" binding:"required"`
}

// ListConversations returns the caller's conversations, newest first.
func (h *Handler) ListConversations(c *gin.Context) {
	offset, limit := paging(c)
	convs, err := h.Store.ListConversationsByUser(callerID(c), offset, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs, "total": len(convs), "skip": offset, "limit": limit})
}

// GetConversation returns one conversation with its full message history.
func (h *Handler) GetConversation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	conv, err := h.Store.GetConversationWithMessages(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !isAdmin(c) && conv.UserID != callerID(c) {
		h.fail(c, service.ErrAccessDenied)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// SendMessage is the HTTP fallback for posting into a conversation. The
// persisted message is fanned out to any live websocket listeners too.
func (h *Handler) SendMessage(c *gin.Context) {
	h.sendMessage(c, false)
}

// AdminSendMessage posts into any conversation with sender_type admin.
func (h *Handler) AdminSendMessage(c *gin.Context) {
	h.sendMessage(c, true)
}

func (h *Handler) sendMessage(c *gin.Context, asAdmin bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var in sendMessageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	conv, err := h.Store.GetConversationByID(id)
	if err != nil {
		h.fail(c, err)
		return
	}

	senderType := models.SenderTypeUser
	if asAdmin {
		senderType = models.SenderTypeAdmin
	} else if conv.UserID != callerID(c) {
		h.fail(c, service.ErrAccessDenied)
		return
	}

	msg, err := models.NewMessage(conv.ID, callerID(c), senderType, in.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	// Same ordered persist+fan-out path as the websocket loop.
	if err := h.Publisher.Publish(msg); err != nil {
		h.fail(c, err)
		return
	}

	go h.Notifier.MessageReceived(conv, msg)

	c.JSON(http.StatusCreated, msg)
}

// AdminListConversations lists conversations across all users with a total.
func (h *Handler) AdminListConversations(c *gin.Context) {
	offset, limit := paging(c)
	convs, total, err := h.Store.ListConversations(offset, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs, "total": total, "skip": offset, "limit": limit})
}

// AdminGetConversation returns any conversation with messages.
func (h *Handler) AdminGetConversation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	conv, err := h.Store.GetConversationWithMessages(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// ConfirmConversation runs the admin confirmation flow: advance the linked
// request to in_progress and create the booking.
func (h *Handler) ConfirmConversation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var in service.ConfirmInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_at is required"})
		return
	}

	booking, err := h.Bookings.ConfirmConversation(id, callerID(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}
