package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/supplyoffice/backend/internal/application/inventory"
	notificationapp "github.com/supplyoffice/backend/internal/application/notification"
	"github.com/supplyoffice/backend/internal/domain/notification"
	"github.com/supplyoffice/backend/internal/domain/shared"
	"github.com/supplyoffice/backend/internal/interfaces/http/dto"
)

// InventoryHandler serves the ledger: item reads, admin edits,
// categories with their history, and the shortage escalation.
type InventoryHandler struct {
	BaseHandler
	service    *inventoryapp.Service
	dispatcher *notificationapp.Dispatcher
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service *inventoryapp.Service, dispatcher *notificationapp.Dispatcher) *InventoryHandler {
	return &InventoryHandler{service: service, dispatcher: dispatcher}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(r *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	items := r.Group("/inventory")
	{
		items.GET("/items", h.List)
		items.GET("/items/:id", h.Get)
		items.POST("/items", adminOnly, h.Create)
		items.PUT("/items/:id", adminOnly, h.Update)
		items.POST("/insufficient-stock", h.ReportShortage)
	}

	categories := r.Group("/categories")
	{
		categories.GET("", h.Categories)
		categories.GET("/:id/history", h.CategoryHistory)
	}
}

// List returns ledger items matching the query
func (h *InventoryHandler) List(c *gin.Context) {
	var filter inventoryapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Get returns one ledger item
func (h *InventoryHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Create inserts a ledger item directly. Admin only.
func (h *InventoryHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var input inventoryapp.CreateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	item, err := h.service.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Update edits a ledger item. Admin only.
func (h *InventoryHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input inventoryapp.UpdateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	item, err := h.service.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ShortageInput is the payload for escalating a stock shortage
type ShortageInput struct {
	InventoryItemID uuid.UUID `json:"inventory_item_id" binding:"required"`
	Requested       int64     `json:"requested" binding:"required,min=1"`
	Message         string    `json:"message"`
}

// ReportShortage lets an employee flag an item as out of stock; every
// admin gets an alert pointing at the item.
func (h *InventoryHandler) ReportShortage(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var input ShortageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), input.InventoryItemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	message := fmt.Sprintf("%s reported a shortage of %s: requested %d, %d %s on hand",
		actor.Name, item.Name, input.Requested, item.Quantity, item.Unit)
	if input.Message != "" {
		message = message + ": " + input.Message
	}
	if err := h.dispatcher.NotifyAdmins(c.Request.Context(), notification.TypeAlert,
		"Stock shortage reported", message, "/inventory/"+item.ID.String()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"reported": true})
}

// Categories returns all categories
func (h *InventoryHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// CategoryHistory returns the change trail for one category
func (h *InventoryHandler) CategoryHistory(c *gin.Context) {
	id, ok := parseID(c)
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

	entries, total, err := h.service.CategoryHistory(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}
