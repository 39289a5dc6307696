package handler

import (
	"net/http"

	"conciergego/backend/internal/models"
	"conciergego/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ListBookings returns the caller's bookings, optionally filtered by status.
func (h *Handler) ListBookings(c *gin.Context) {
	offset, limit := paging(c)

	var status models.BookingStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := models.ParseBookingStatus(raw)
		if err != nil {
			h.fail(c, err)
			return
		}
		status = parsed
	}

	bookings, err := h.Bookings.ListByUser(callerID(c), status, offset, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "total": len(bookings), "skip": offset, "limit": limit})
}

// GetBooking returns one booking the caller may see.
func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	booking, err := h.Bookings.Get(id, callerID(c), isAdmin(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// UpdateBookingStatus applies a target status through the booking state
// machine (admin only).
func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var in service.UpdateStatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	booking, err := h.Bookings.UpdateStatus(id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
