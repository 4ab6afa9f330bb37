package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeItem = "InventoryItem"

// Event type constants
const (
	EventTypeItemCreated         = "InventoryItemCreated"
	EventTypeItemQuantityChanged = "InventoryItemQuantityChanged"
	EventTypeItemLocationChanged = "InventoryItemLocationChanged"
	EventTypeItemCostChanged     = "InventoryItemCostChanged"
)

// ItemCreatedEvent is raised when a new ledger item is created
type ItemCreatedEvent struct {
	shared.BaseDomainEvent
	ItemID   uuid.UUID       `json:"item_id"`
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// NewItemCreatedEvent creates a new ItemCreatedEvent
func NewItemCreatedEvent(item *Item) *ItemCreatedEvent {
	return &ItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemCreated, AggregateTypeItem, item.ID),
		ItemID:          item.ID,
		Name:            item.Name,
		Quantity:        item.Quantity,
		UnitCost:        item.UnitCost,
	}
}

// EventType returns the event type name
func (e *ItemCreatedEvent) EventType() string {
	return EventTypeItemCreated
}

// ItemQuantityChangedEvent is raised whenever stock is deducted or restocked
type ItemQuantityChangedEvent struct {
	shared.BaseDomainEvent
	ItemID           uuid.UUID `json:"item_id"`
	Name             string    `json:"name"`
	PreviousQuantity int64     `json:"previous_quantity"`
	NewQuantity      int64     `json:"new_quantity"`
}

// NewItemQuantityChangedEvent creates a new ItemQuantityChangedEvent
func NewItemQuantityChangedEvent(item *Item, previous, current int64) *ItemQuantityChangedEvent {
	return &ItemQuantityChangedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeItemQuantityChanged, AggregateTypeItem, item.ID),
		ItemID:           item.ID,
		Name:             item.Name,
		PreviousQuantity: previous,
		NewQuantity:      current,
	}
}

// EventType returns the event type name
func (e *ItemQuantityChangedEvent) EventType() string {
	return EventTypeItemQuantityChanged
}

// ItemLocationChangedEvent is raised when an item moves to a new location
type ItemLocationChangedEvent struct {
	shared.BaseDomainEvent
	ItemID           uuid.UUID `json:"item_id"`
	Name             string    `json:"name"`
	PreviousLocation string    `json:"previous_location"`
	NewLocation      string    `json:"new_location"`
}

// NewItemLocationChangedEvent creates a new ItemLocationChangedEvent
func NewItemLocationChangedEvent(item *Item, previous, current string) *ItemLocationChangedEvent {
	return &ItemLocationChangedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeItemLocationChanged, AggregateTypeItem, item.ID),
		ItemID:           item.ID,
		Name:             item.Name,
		PreviousLocation: previous,
		NewLocation:      current,
	}
}

// EventType returns the event type name
func (e *ItemLocationChangedEvent) EventType() string {
	return EventTypeItemLocationChanged
}

// ItemCostChangedEvent is raised when the unit cost changes
type ItemCostChangedEvent struct {
	shared.BaseDomainEvent
	ItemID       uuid.UUID       `json:"item_id"`
	Name         string          `json:"name"`
	PreviousCost decimal.Decimal `json:"previous_cost"`
	NewCost      decimal.Decimal `json:"new_cost"`
}

// NewItemCostChangedEvent creates a new ItemCostChangedEvent
func NewItemCostChangedEvent(item *Item, previous, current decimal.Decimal) *ItemCostChangedEvent {
	return &ItemCostChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemCostChanged, AggregateTypeItem, item.ID),
		ItemID:          item.ID,
		Name:            item.Name,
		PreviousCost:    previous,
		NewCost:         current,
	}
}

// EventType returns the event type name
func (e *ItemCostChangedEvent) EventType() string {
	return EventTypeItemCostChanged
}
