package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplyoffice/backend/internal/domain/audit"
	"github.com/supplyoffice/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAuditRepository implements audit.Repository using GORM. The
// trail is append-only: no update or delete paths exist.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append stores a new audit event
func (r *GormAuditRepository) Append(ctx context.Context, event *audit.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// FindByEntity returns events for one entity, newest first
func (r *GormAuditRepository) FindByEntity(ctx context.Context, entityType audit.EntityType, entityID uuid.UUID, filter shared.Filter) ([]*audit.Event, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&audit.Event{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID)
	return r.findEvents(query, filter)
}

// FindAll returns events matching the filter, newest first
func (r *GormAuditRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*audit.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&audit.Event{})
	if entityType, ok := filter.Filters["entity_type"]; ok {
		query = query.Where("entity_type = ?", entityType)
	}
	if action, ok := filter.Filters["action"]; ok {
		query = query.Where("action = ?", action)
	}
	if actorID, ok := filter.Filters["actor_id"]; ok {
		query = query.Where("actor_id = ?", actorID)
	}
	return r.findEvents(query, filter)
}

func (r *GormAuditRepository) findEvents(query *gorm.DB, filter shared.Filter) ([]*audit.Event, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var events []*audit.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// Ensure GormAuditRepository implements audit.Repository
var _ audit.Repository = (*GormAuditRepository)(nil)
