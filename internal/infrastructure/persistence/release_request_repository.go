package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/supplyoffice/backend/internal/domain/release"
	"github.com/supplyoffice/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReleaseRequestRepository implements release.RequestRepository using GORM
type GormReleaseRequestRepository struct {
	db *gorm.DB
}

// NewGormReleaseRequestRepository creates a new GormReleaseRequestRepository
func NewGormReleaseRequestRepository(db *gorm.DB) *GormReleaseRequestRepository {
	return &GormReleaseRequestRepository{db: db}
}

// Create creates a new release request with its lines
func (r *GormReleaseRequestRepository) Create(ctx context.Context, req *release.ReleaseRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// Save persists the aggregate and its line statuses
func (r *GormReleaseRequestRepository) Save(ctx context.Context, req *release.ReleaseRequest) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(req).Error
}

// FindByID finds a release request by ID, lines in line order
func (r *GormReleaseRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*release.ReleaseRequest, error) {
	var req release.ReleaseRequest
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

// FindAll returns release requests matching the filter
func (r *GormReleaseRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*release.ReleaseRequest, int64, error) {
	return r.findRequests(r.db.WithContext(ctx).Model(&release.ReleaseRequest{}), filter)
}

// FindByEmployee returns release requests submitted by an employee
func (r *GormReleaseRequestRepository) FindByEmployee(ctx context.Context, employeeID uuid.UUID, filter shared.Filter) ([]*release.ReleaseRequest, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&release.ReleaseRequest{}).
		Where("employee_id = ?", employeeID)
	return r.findRequests(query, filter)
}

func (r *GormReleaseRequestRepository) findRequests(query *gorm.DB, filter shared.Filter) ([]*release.ReleaseRequest, int64, error) {
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

	var reqs []*release.ReleaseRequest
	if err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		Find(&reqs).Error; err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

// Ensure GormReleaseRequestRepository implements release.RequestRepository
var _ release.RequestRepository = (*GormReleaseRequestRepository)(nil)
