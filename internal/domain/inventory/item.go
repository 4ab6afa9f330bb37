package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

// Item represents one row of the supply office ledger: a stocked good
// at a storage location. It is the aggregate root for stock operations.
type Item struct {
	shared.BaseAggregateRoot
	Supplier   string          `gorm:"size:200;not null"`
	Name       string          `gorm:"size:200;not null;index"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index"`
	Location   string          `gorm:"size:200;not null"`
	Unit       string          `gorm:"size:50;not null"`
	Quantity   int64           `gorm:"not null;default:0"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Remarks    string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "inventory_items"
}

// NewItem creates a new ledger item. Amount is always computed
// server-side from quantity and unit cost, never taken from the caller.
func NewItem(supplier, name, location, unit string, quantity int64, unitCost decimal.Decimal, remarks string) (*Item, error) {
	supplier = strings.TrimSpace(supplier)
	name = strings.TrimSpace(name)
	location = strings.TrimSpace(location)
	unit = strings.TrimSpace(unit)

	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name is required")
	}
	if supplier == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier is required")
	}
	if location == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location is required")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit of measure is required")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	item := &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Supplier:          supplier,
		Name:              name,
		Location:          location,
		Unit:              unit,
		Quantity:          quantity,
		UnitCost:          unitCost,
		Remarks:           strings.TrimSpace(remarks),
	}
	item.recomputeAmount()

	item.AddDomainEvent(NewItemCreatedEvent(item))

	return item, nil
}

// AssignCategory links the item to a category
func (i *Item) AssignCategory(categoryID uuid.UUID) {
	i.CategoryID = &categoryID
	i.UpdatedAt = time.Now()
}

// Deduct removes quantity from stock. Stock can never go negative: a
// shortfall fails with INSUFFICIENT_STOCK carrying the item name,
// requested and available quantities.
func (i *Item) Deduct(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduction quantity must be positive")
	}
	if quantity > i.Quantity {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for %s: requested %d, available %d", i.Name, quantity, i.Quantity))
	}

	previous := i.Quantity
	i.Quantity -= quantity
	i.recomputeAmount()
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewItemQuantityChangedEvent(i, previous, i.Quantity))

	return nil
}

// Restock adds quantity to stock, optionally updating the unit cost
// (a new purchase may arrive at a different price).
func (i *Item) Restock(quantity int64, unitCost *decimal.Decimal) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Restock quantity must be positive")
	}
	if unitCost != nil && unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	previous := i.Quantity
	previousCost := i.UnitCost
	i.Quantity += quantity
	if unitCost != nil {
		i.UnitCost = *unitCost
	}
	i.recomputeAmount()
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewItemQuantityChangedEvent(i, previous, i.Quantity))
	if unitCost != nil && !previousCost.Equal(i.UnitCost) {
		i.AddDomainEvent(NewItemCostChangedEvent(i, previousCost, i.UnitCost))
	}

	return nil
}

// Relocate moves the item to a different storage location
func (i *Item) Relocate(location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return shared.NewDomainError("INVALID_LOCATION", "Location is required")
	}
	if location == i.Location {
		return nil
	}

	previous := i.Location
	i.Location = location
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewItemLocationChangedEvent(i, previous, location))

	return nil
}

// Reprice changes the unit cost and recomputes the amount
func (i *Item) Reprice(unitCost decimal.Decimal) error {
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if unitCost.Equal(i.UnitCost) {
		return nil
	}

	previous := i.UnitCost
	i.UnitCost = unitCost
	i.recomputeAmount()
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewItemCostChangedEvent(i, previous, unitCost))

	return nil
}

func (i *Item) recomputeAmount() {
	i.Amount = i.UnitCost.Mul(decimal.NewFromInt(i.Quantity))
}
