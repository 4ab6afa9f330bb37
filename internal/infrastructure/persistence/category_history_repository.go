package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplyoffice/backend/internal/domain/inventory"
	"github.com/supplyoffice/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCategoryHistoryRepository implements inventory.CategoryHistoryRepository
// using GORM. The trail is append-only: no update or delete paths exist.
type GormCategoryHistoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryHistoryRepository creates a new GormCategoryHistoryRepository
func NewGormCategoryHistoryRepository(db *gorm.DB) *GormCategoryHistoryRepository {
	return &GormCategoryHistoryRepository{db: db}
}

// Append stores a new history entry
func (r *GormCategoryHistoryRepository) Append(ctx context.Context, entry *inventory.CategoryHistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByCategory returns history entries for a category, newest first
func (r *GormCategoryHistoryRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]*inventory.CategoryHistoryEntry, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.CategoryHistoryEntry{}).
		Where("category_id = ?", categoryID)

	if changeType, ok := filter.Filters["change_type"]; ok {
		query = query.Where("change_type = ?", changeType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("changed_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var entries []*inventory.CategoryHistoryEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Ensure GormCategoryHistoryRepository implements inventory.CategoryHistoryRepository
var _ inventory.CategoryHistoryRepository = (*GormCategoryHistoryRepository)(nil)
