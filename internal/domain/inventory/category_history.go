package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

// ChangeType classifies a category history entry
type ChangeType string

const (
	ChangeTypeItemAdded      ChangeType = "item_added"
	ChangeTypeQuantityChange ChangeType = "quantity_change"
	ChangeTypeLocationChange ChangeType = "location_change"
	ChangeTypeCostChange     ChangeType = "cost_change"
	ChangeTypePurchase       ChangeType = "purchase"
)

// IsValid checks whether the change type is one of the known kinds
func (c ChangeType) IsValid() bool {
	switch c {
	case ChangeTypeItemAdded, ChangeTypeQuantityChange, ChangeTypeLocationChange, ChangeTypeCostChange, ChangeTypePurchase:
		return true
	}
	return false
}

// CategoryHistoryEntry is an append-only record of a ledger mutation
// within a category. Entries are never updated or deleted.
type CategoryHistoryEntry struct {
	shared.BaseEntity
	CategoryID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ItemID     *uuid.UUID `gorm:"type:uuid;index"`
	ChangeType ChangeType `gorm:"size:30;not null"`
	Previous   string     `gorm:"type:jsonb"` // JSON snapshot before the change
	New        string     `gorm:"type:jsonb"` // JSON snapshot after the change
	ChangedBy  string     `gorm:"size:200;not null"`
	ChangedAt  time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CategoryHistoryEntry) TableName() string {
	return "category_history_entries"
}

// NewCategoryHistoryEntry creates a new history entry
func NewCategoryHistoryEntry(categoryID uuid.UUID, itemID *uuid.UUID, changeType ChangeType, previous, current, changedBy string) (*CategoryHistoryEntry, error) {
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID is required")
	}
	if !changeType.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANGE_TYPE", "Unknown change type")
	}

	return &CategoryHistoryEntry{
		BaseEntity: shared.NewBaseEntity(),
		CategoryID: categoryID,
		ItemID:     itemID,
		ChangeType: changeType,
		Previous:   previous,
		New:        current,
		ChangedBy:  changedBy,
		ChangedAt:  time.Now(),
	}, nil
}
