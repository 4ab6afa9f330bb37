package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/supplyoffice/backend/internal/domain/inventory"
	"github.com/supplyoffice/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormItemRepository implements inventory.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// Create creates a new ledger item
func (r *GormItemRepository) Create(ctx context.Context, item *inventory.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Save creates or updates an item without a version check
func (r *GormItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// SaveWithLock saves with optimistic locking. The domain mutation has
// already bumped Version, so the row must still hold Version-1.
func (r *GormItemRepository) SaveWithLock(ctx context.Context, item *inventory.Item) error {
	result := r.db.WithContext(ctx).
		Model(item).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]interface{}{
			"quantity":    item.Quantity,
			"unit_cost":   item.UnitCost,
			"amount":      item.Amount,
			"location":    item.Location,
			"remarks":     item.Remarks,
			"version":     item.Version,
			"updated_at":  item.UpdatedAt,
			"category_id": item.CategoryID,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds an item by its ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	var item inventory.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDs finds items by a set of IDs
func (r *GormItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*inventory.Item, error) {
	if len(ids) == 0 {
		return []*inventory.Item{}, nil
	}
	var items []*inventory.Item
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindAll returns ledger items with pagination
func (r *GormItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*inventory.Item, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.Item{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR supplier ILIKE ?", pattern, pattern)
	}
	if categoryID, ok := filter.Filters["category_id"]; ok {
		query = query.Where("category_id = ?", categoryID)
	}
	if hasStock, ok := filter.Filters["has_stock"]; ok && hasStock == true {
		query = query.Where("quantity > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*inventory.Item
	if err := applyPagination(query, filter, itemSortColumns).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

var itemSortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"quantity":   true,
	"unit_cost":  true,
	"amount":     true,
}

// applyPagination applies ordering and paging. OrderBy is checked
// against a column whitelist so caller input never reaches raw SQL.
func applyPagination(query *gorm.DB, filter shared.Filter, sortColumns map[string]bool) *gorm.DB {
	orderBy := "created_at"
	if filter.OrderBy != "" && sortColumns[filter.OrderBy] {
		orderBy = filter.OrderBy
	}
	orderDir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		orderDir = "ASC"
	}
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}

// Ensure GormItemRepository implements inventory.ItemRepository
var _ inventory.ItemRepository = (*GormItemRepository)(nil)
