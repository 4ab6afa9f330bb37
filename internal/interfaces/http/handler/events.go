package handler

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/supplyoffice/backend/internal/infrastructure/push"
)

// EventsHandler serves the SSE stream. Each connected client receives
// broadcast events plus events addressed to their user ID.
type EventsHandler struct {
	BaseHandler
	hub    *push.Hub
	logger *zap.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *push.Hub, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{hub: hub, logger: logger}
}

// RegisterRoutes registers the SSE route
func (h *EventsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/events/stream", h.Stream)
}

// Stream holds the connection open and forwards hub events as SSE
// frames until the client disconnects or the hub shuts down
func (h *EventsHandler) Stream(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	client, err := h.hub.Register(actor.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer h.hub.Unregister(client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	h.logger.Debug("sse client connected",
		zap.String("client_id", client.ID),
		zap.String("user_id", actor.ID.String()))

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case <-client.Done:
			return false
		case evt, open := <-client.Ch:
			if !open {
				return false
			}
			if evt.Type == "heartbeat" {
				c.SSEvent("heartbeat", "ping")
				return true
			}
			data, err := json.Marshal(evt)
			if err != nil {
				h.logger.Warn("failed to marshal sse event", zap.Error(err))
				return true
			}
			c.SSEvent(evt.Type, string(data))
			return true
		}
	})
}
