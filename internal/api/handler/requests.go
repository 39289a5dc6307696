package handler

import (
	"net/http"

	"conciergego/backend/internal/models"
	"conciergego/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type requestResponse struct {
	*models.Request
	ConversationID uint `json:"conversation_id,omitempty"`
}

// SubmitRequest creates a request, its conversation, and the opening message.
func (h *Handler) SubmitRequest(c *gin.Context) {
	var in service.SubmitRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, category_slug and description are required"})
		return
	}

	req, conv, err := h.Requests.Submit(callerID(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, requestResponse{Request: req, ConversationID: conv.ID})
}

// ListRequests returns the caller's requests.
func (h *Handler) ListRequests(c *gin.Context) {
	offset, limit := paging(c)
	reqs, err := h.Requests.ListByUser(callerID(c), offset, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs, "total": len(reqs), "skip": offset, "limit": limit})
}

// GetRequest returns one request the caller may see.
func (h *Handler) GetRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	req, err := h.Requests.Get(id, callerID(c), isAdmin(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// transitionRequest adapts one state machine operation into an admin endpoint.
func (h *Handler) transitionRequest(op func(*service.RequestService, uint) (*models.Request, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		req, err := op(h.Requests, id)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, req)
	}
}
