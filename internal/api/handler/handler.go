package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"conciergego/backend/internal/auth"
	"conciergego/backend/internal/chathub"
	"conciergego/backend/internal/metrics"
	"conciergego/backend/internal/models"
	"conciergego/backend/internal/notify"
	"conciergego/backend/internal/service"
	"conciergego/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	ctxUserID  = "user_id"
	ctxIsAdmin = "is_admin"
)

// Handler wires the HTTP and websocket surfaces to the hub, the stores, and
// the services.
type Handler struct {
	Auth      *auth.Service
	Hub       *chathub.Hub
	Publisher *chathub.Publisher
	Store     storage.Store
	Requests  *service.RequestService
	Bookings  *service.BookingService
	Notifier  notify.Notifier
	Log       zerolog.Logger

	// DevToken enables the token mint endpoint for local development.
	DevToken bool
}

// Routes registers every route on the engine.
func (h *Handler) Routes(r *gin.Engine) {
	r.GET("/ws/chat/:conversation_id", h.ServeChatWS)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api/v1")
	if h.DevToken {
		api.POST("/auth/token", h.MintToken)
	}

	user := api.Group("", h.authRequired())
	{
		user.POST("/requests", h.SubmitRequest)
		user.GET("/requests", h.ListRequests)
		user.GET("/requests/:id", h.GetRequest)

		user.GET("/conversations", h.ListConversations)
		user.GET("/conversations/:id", h.GetConversation)
		user.POST("/conversations/:id/messages", h.SendMessage)

		user.GET("/bookings", h.ListBookings)
		user.GET("/bookings/:id", h.GetBooking)

		user.GET("/notifications", h.ListNotifications)
		user.POST("/notifications/:id/read", h.MarkNotificationRead)
	}

	admin := api.Group("/admin", h.authRequired(), h.adminRequired())
	{
		admin.GET("/conversations", h.AdminListConversations)
		admin.GET("/conversations/:id", h.AdminGetConversation)
		admin.POST("/conversations/:id/messages", h.AdminSendMessage)
		admin.POST("/conversations/:id/confirm", h.ConfirmConversation)

		admin.POST("/requests/:id/assign", h.transitionRequest((*service.RequestService).Assign))
		admin.POST("/requests/:id/start", h.transitionRequest((*service.RequestService).StartProgress))
		admin.POST("/requests/:id/fulfill", h.transitionRequest((*service.RequestService).Fulfill))
		admin.POST("/requests/:id/cancel", h.transitionRequest((*service.RequestService).Cancel))

		admin.PATCH("/bookings/:id/status", h.UpdateBookingStatus)
	}
}

// authRequired validates the Bearer token and stashes the caller identity.
func (h *Handler) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token missing"})
			return
		}

		claims, err := h.Auth.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxIsAdmin, claims.IsAdmin)
		metrics.IncHTTP(c.FullPath())
		c.Next()
	}
}

func (h *Handler) adminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ctxIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func callerID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

func isAdmin(c *gin.Context) bool {
	return c.GetBool(ctxIsAdmin)
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func paging(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return offset, limit
}

// fail maps domain errors onto HTTP statuses: not-found, access, client
// mistakes, invalid transitions, then server fault.
func (h *Handler) fail(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	var stateErr *models.InvalidStateError

	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Msg})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": stateErr.Error()})
	default:
		h.Log.Error().Err(err).Str("path", c.FullPath()).Msg("internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
