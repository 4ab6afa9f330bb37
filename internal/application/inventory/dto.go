package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/supplyoffice/backend/internal/domain/inventory"
)

// ItemResponse represents a ledger item in API responses
type ItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	Supplier   string          `json:"supplier"`
	Name       string          `json:"name"`
	CategoryID *uuid.UUID      `json:"category_id,omitempty"`
	Location   string          `json:"location"`
	Unit       string          `json:"unit"`
	Quantity   int64           `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Amount     decimal.Decimal `json:"amount"`
	Remarks    string          `json:"remarks,omitempty"`
	Version    int             `json:"version"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ToItemResponse converts a domain item to its response form
func ToItemResponse(item *inventory.Item) ItemResponse {
	return ItemResponse{
		ID:         item.ID,
		Supplier:   item.Supplier,
		Name:       item.Name,
		CategoryID: item.CategoryID,
		Location:   item.Location,
		Unit:       item.Unit,
		Quantity:   item.Quantity,
		UnitCost:   item.UnitCost,
		Amount:     item.Amount,
		Remarks:    item.Remarks,
		Version:    item.Version,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

// ToItemResponses converts a slice of domain items
func ToItemResponses(items []*inventory.Item) []ItemResponse {
	responses := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, ToItemResponse(item))
	}
	return responses
}

// CreateItemInput is the payload for a direct admin ledger insert
type CreateItemInput struct {
	Supplier     string          `json:"supplier" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	CategoryName string          `json:"category_name" binding:"required"`
	Location     string          `json:"location" binding:"required"`
	Unit         string          `json:"unit" binding:"required"`
	Quantity     int64           `json:"quantity" binding:"min=0"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Remarks      string          `json:"remarks"`
}

// UpdateItemInput is the payload for an admin ledger edit. Nil fields
// are left untouched; RestockQuantity adds to stock rather than
// replacing it.
type UpdateItemInput struct {
	Location        *string          `json:"location"`
	UnitCost        *decimal.Decimal `json:"unit_cost"`
	Remarks         *string          `json:"remarks"`
	RestockQuantity *int64           `json:"restock_quantity"`
	CategoryName    *string          `json:"category_name"`
}

// ListFilter represents filter options for the ledger list
type ListFilter struct {
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"category_id"`
	HasStock   *bool      `form:"has_stock"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToCategoryResponse converts a domain category
func ToCategoryResponse(category *inventory.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
	}
}

// HistoryEntryResponse represents one category history row
type HistoryEntryResponse struct {
	ID         uuid.UUID            `json:"id"`
	CategoryID uuid.UUID            `json:"category_id"`
	ItemID     *uuid.UUID           `json:"item_id,omitempty"`
	ChangeType inventory.ChangeType `json:"change_type"`
	Previous   string               `json:"previous,omitempty"`
	New        string               `json:"new,omitempty"`
	ChangedBy  string               `json:"changed_by"`
	ChangedAt  time.Time            `json:"changed_at"`
}

// ToHistoryEntryResponse converts a domain history entry
func ToHistoryEntryResponse(entry *inventory.CategoryHistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:         entry.ID,
		CategoryID: entry.CategoryID,
		ItemID:     entry.ItemID,
		ChangeType: entry.ChangeType,
		Previous:   entry.Previous,
		New:        entry.New,
		ChangedBy:  entry.ChangedBy,
		ChangedAt:  entry.ChangedAt,
	}
}
