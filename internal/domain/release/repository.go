package release

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

// RequestRepository defines the interface for release request persistence
type RequestRepository interface {
	// Create creates a new release request with its lines
	Create(ctx context.Context, req *ReleaseRequest) error

	// Save persists the aggregate and its line statuses
	Save(ctx context.Context, req *ReleaseRequest) error

	// FindByID finds a release request by ID, lines in line order
	FindByID(ctx context.Context, id uuid.UUID) (*ReleaseRequest, error)

	// FindAll returns release requests matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]*ReleaseRequest, int64, error)

	// FindByEmployee returns release requests submitted by an employee
	FindByEmployee(ctx context.Context, employeeID uuid.UUID, filter shared.Filter) ([]*ReleaseRequest, int64, error)
}

// ReportRepository defines the interface for release report persistence
type ReportRepository interface {
	// Create persists a new report, assigning its SRO number. A second
	// report for the same request fails with ErrAlreadyExists.
	Create(ctx context.Context, report *ReleaseReport) error

	// FindByID finds a report by ID, lines in line order
	FindByID(ctx context.Context, id uuid.UUID) (*ReleaseReport, error)

	// FindByRequestID finds the report generated for a release request
	FindByRequestID(ctx context.Context, requestID uuid.UUID) (*ReleaseReport, error)

	// FindAll returns reports matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]*ReleaseReport, int64, error)
}
