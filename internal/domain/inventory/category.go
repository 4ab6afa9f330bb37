package inventory

import (
	"strings"

	"github.com/supplyoffice/backend/internal/domain/shared"
)

// Category groups ledger items by kind. Names are unique; categories
// are created on demand when a request references a name that does not
// exist yet.
type Category struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"size:200;not null;uniqueIndex"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name is required")
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       strings.TrimSpace(description),
	}, nil
}
