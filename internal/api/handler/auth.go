package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type mintTokenInput struct {
	UserID  uint `json:"user_id" binding:"required"`
	IsAdmin bool `json:"is_admin"`
}

// MintToken issues a JWT for a known user id. Development convenience only;
// real issuance lives in the identity service. Gated by auth.dev_token_endpoint.
func (h *Handler) MintToken(c *gin.Context) {
	var in mintTokenInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	token, err := h.Auth.Issue(in.UserID, in.IsAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user_id": in.UserID, "is_admin": in.IsAdmin})
}
