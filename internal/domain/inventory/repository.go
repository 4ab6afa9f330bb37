package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

// ItemRepository defines the interface for ledger item persistence
type ItemRepository interface {
	// Create creates a new ledger item
	Create(ctx context.Context, item *Item) error

	// Save persists changes without a version check
	Save(ctx context.Context, item *Item) error

	// SaveWithLock persists changes with an optimistic version check.
	// Returns ErrConcurrencyConflict when the row was modified by
	// another process since it was loaded.
	SaveWithLock(ctx context.Context, item *Item) error

	// FindByID finds an item by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByIDs finds items by a set of IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Item, error)

	// FindAll returns ledger items with pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]*Item, int64, error)
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// GetOrCreate returns the category with the given name, creating
	// it when missing. Concurrent callers racing on the same name all
	// receive the same row.
	GetOrCreate(ctx context.Context, name string) (*Category, error)

	// FindByID finds a category by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByName finds a category by name
	FindByName(ctx context.Context, name string) (*Category, error)

	// FindAll returns all categories
	FindAll(ctx context.Context) ([]*Category, error)
}

// CategoryHistoryRepository defines the interface for the append-only
// category history trail
type CategoryHistoryRepository interface {
	// Append stores a new history entry
	Append(ctx context.Context, entry *CategoryHistoryEntry) error

	// FindByCategory returns history entries for a category, newest first
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]*CategoryHistoryEntry, int64, error)
}
