package handler

import (
	"github.com/gin-gonic/gin"

	requestapp "github.com/supplyoffice/backend/internal/application/request"
)

// RequestHandler serves the inventory request workflow
type RequestHandler struct {
	BaseHandler
	service *requestapp.Service
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(service *requestapp.Service) *RequestHandler {
	return &RequestHandler{service: service}
}

// RegisterRoutes registers request routes
func (h *RequestHandler) RegisterRoutes(r *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	requests := r.Group("/requests")
	{
		requests.POST("", h.Submit)
		requests.GET("", h.List)
		requests.GET("/:id", h.Get)
		requests.POST("/:id/review", adminOnly, h.Review)
	}
}

// Submit creates a pending inventory request
func (h *RequestHandler) Submit(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var input requestapp.SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns requests visible to the actor
func (h *RequestHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var filter requestapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	requests, total, err := h.service.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, requests, total, filter.Page, filter.PageSize)
}

// Get returns one request
func (h *RequestHandler) Get(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Review applies the admin's decision to a pending request
func (h *RequestHandler) Review(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input requestapp.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.service.Review(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
