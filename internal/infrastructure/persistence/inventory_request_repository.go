package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/supplyoffice/backend/internal/domain/request"
	"github.com/supplyoffice/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInventoryRequestRepository implements request.Repository using GORM
type GormInventoryRequestRepository struct {
	db *gorm.DB
}

// NewGormInventoryRequestRepository creates a new GormInventoryRequestRepository
func NewGormInventoryRequestRepository(db *gorm.DB) *GormInventoryRequestRepository {
	return &GormInventoryRequestRepository{db: db}
}

// Create creates a new request with its lines
func (r *GormInventoryRequestRepository) Create(ctx context.Context, req *request.InventoryRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// Save persists the aggregate and its line statuses
func (r *GormInventoryRequestRepository) Save(ctx context.Context, req *request.InventoryRequest) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(req).Error
}

// FindByID finds a request by ID, lines loaded in line order
func (r *GormInventoryRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*request.InventoryRequest, error) {
	var req request.InventoryRequest
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindAll returns requests matching the filter
func (r *GormInventoryRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*request.InventoryRequest, int64, error) {
	return r.findRequests(ctx, r.db.WithContext(ctx).Model(&request.InventoryRequest{}), filter)
}

// FindByEmployee returns requests submitted by an employee
func (r *GormInventoryRequestRepository) FindByEmployee(ctx context.Context, employeeID uuid.UUID, filter shared.Filter) ([]*request.InventoryRequest, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&request.InventoryRequest{}).
		Where("employee_id = ?", employeeID)
	return r.findRequests(ctx, query, filter)
}

func (r *GormInventoryRequestRepository) findRequests(ctx context.Context, query *gorm.DB, filter shared.Filter) ([]*request.InventoryRequest, int64, error) {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var reqs []*request.InventoryRequest
	if err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		Find(&reqs).Error; err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

// Ensure GormInventoryRequestRepository implements request.Repository
var _ request.Repository = (*GormInventoryRequestRepository)(nil)
