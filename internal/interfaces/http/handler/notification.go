package handler

import (
	"github.com/gin-gonic/gin"

	notificationapp "github.com/supplyoffice/backend/internal/application/notification"
	"github.com/supplyoffice/backend/internal/domain/shared"
	"github.com/supplyoffice/backend/internal/interfaces/http/dto"
)

// NotificationHandler serves the actor's notification feed
type NotificationHandler struct {
	BaseHandler
	dispatcher *notificationapp.Dispatcher
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(dispatcher *notificationapp.Dispatcher) *NotificationHandler {
	return &NotificationHandler{dispatcher: dispatcher}
}

// RegisterRoutes registers notification routes
func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.POST("/:id/read", h.MarkRead)
	}
}

// List returns the actor's notifications, newest first
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BindingError(c, err)
		return
	}
	listReq.Defaults()

	filter := shared.DefaultFilter()
	filter.Page = listReq.Page
	filter.PageSize = listReq.PageSize

	notifs, total, err := h.dispatcher.List(c.Request.Context(), actor.ID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, notifs, total, filter.Page, filter.PageSize)
}

// UnreadCount returns how many notifications the actor has not read
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	count, err := h.dispatcher.UnreadCount(c.Request.Context(), actor.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"unread": count})
}

// MarkRead marks one of the actor's notifications as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.dispatcher.MarkRead(c.Request.Context(), actor.ID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"read": true})
}
