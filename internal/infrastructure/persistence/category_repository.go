package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/supplyoffice/backend/internal/domain/inventory"
	"github.com/supplyoffice/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCategoryRepository implements inventory.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// GetOrCreate returns the category with the given name, creating it
// when missing. ON CONFLICT DO NOTHING plus a refetch keeps concurrent
// callers racing on the same name on one row.
func (r *GormCategoryRepository) GetOrCreate(ctx context.Context, name string) (*inventory.Category, error) {
	name = strings.TrimSpace(name)

	category, err := r.FindByName(ctx, name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	category, err = inventory.NewCategory(name, "")
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(category)
	if result.Error != nil {
		return nil, result.Error
	}

	// lost the race, fetch the winner's row
	if result.RowsAffected == 0 {
		return r.FindByName(ctx, name)
	}

	return category, nil
}

// FindByID finds a category by ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Category, error) {
	var category inventory.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindByName finds a category by name
func (r *GormCategoryRepository) FindByName(ctx context.Context, name string) (*inventory.Category, error) {
	var category inventory.Category
	if err := r.db.WithContext(ctx).First(&category, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAll returns all categories ordered by name
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]*inventory.Category, error) {
	var categories []*inventory.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Ensure GormCategoryRepository implements inventory.CategoryRepository
var _ inventory.CategoryRepository = (*GormCategoryRepository)(nil)
