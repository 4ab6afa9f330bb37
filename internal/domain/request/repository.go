package request

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

// Repository defines the interface for inventory request persistence
type Repository interface {
	// Create creates a new request with its lines
	Create(ctx context.Context, req *InventoryRequest) error

	// Save persists the aggregate and its line statuses
	Save(ctx context.Context, req *InventoryRequest) error

	// FindByID finds a request by ID, lines loaded in line order
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryRequest, error)

	// FindAll returns requests matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]*InventoryRequest, int64, error)

	// FindByEmployee returns requests submitted by an employee
	FindByEmployee(ctx context.Context, employeeID uuid.UUID, filter shared.Filter) ([]*InventoryRequest, int64, error)
}
