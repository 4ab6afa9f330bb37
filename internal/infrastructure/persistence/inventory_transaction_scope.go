package persistence

import (
	"context"

	"gorm.io/gorm"

	inventoryapp "github.com/supplyoffice/backend/internal/application/inventory"
	"github.com/supplyoffice/backend/internal/domain/audit"
	"github.com/supplyoffice/backend/internal/domain/inventory"
	"github.com/supplyoffice/backend/internal/domain/release"
	"github.com/supplyoffice/backend/internal/domain/request"
)

// GormTransactionScope implements TransactionScope using GORM
// transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction. If
// the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos inventoryapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories bound to the
// current transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) ItemRepo() inventory.ItemRepository {
	return NewGormItemRepository(r.tx)
}

func (r *gormTransactionalRepositories) CategoryRepo() inventory.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}

func (r *gormTransactionalRepositories) HistoryRepo() inventory.CategoryHistoryRepository {
	return NewGormCategoryHistoryRepository(r.tx)
}

func (r *gormTransactionalRepositories) RequestRepo() request.Repository {
	return NewGormInventoryRequestRepository(r.tx)
}

func (r *gormTransactionalRepositories) ReleaseRequestRepo() release.RequestRepository {
	return NewGormReleaseRequestRepository(r.tx)
}

func (r *gormTransactionalRepositories) ReleaseReportRepo() release.ReportRepository {
	return NewGormReleaseReportRepository(r.tx)
}

func (r *gormTransactionalRepositories) AuditRepo() audit.Repository {
	return NewGormAuditRepository(r.tx)
}

var (
	_ inventoryapp.TransactionScope          = (*GormTransactionScope)(nil)
	_ inventoryapp.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
