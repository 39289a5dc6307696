package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the caller's notifications, newest first.
func (h *Handler) ListNotifications(c *gin.Context) {
	offset, limit := paging(c)
	ns, err := h.Store.ListNotificationsByUser(callerID(c), offset, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": ns, "total": len(ns), "skip": offset, "limit": limit})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.Store.MarkNotificationRead(id, callerID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}
