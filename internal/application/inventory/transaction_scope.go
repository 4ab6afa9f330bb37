package inventory

import (
	"context"

	"github.com/supplyoffice/backend/internal/domain/audit"
	"github.com/supplyoffice/backend/internal/domain/inventory"
	"github.com/supplyoffice/backend/internal/domain/release"
	"github.com/supplyoffice/backend/internal/domain/request"
)

// TransactionScope provides transactional access to the repositories a
// workflow mutates together. When a function is executed within a
// scope, all repository operations share one database transaction and
// commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to repositories within a
// transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// ItemRepo returns the ledger item repository
	ItemRepo() inventory.ItemRepository
	// CategoryRepo returns the category repository
	CategoryRepo() inventory.CategoryRepository
	// HistoryRepo returns the category history repository
	HistoryRepo() inventory.CategoryHistoryRepository
	// RequestRepo returns the inventory request repository
	RequestRepo() request.Repository
	// ReleaseRequestRepo returns the release request repository
	ReleaseRequestRepo() release.RequestRepository
	// ReleaseReportRepo returns the release report repository
	ReleaseReportRepo() release.ReportRepository
	// AuditRepo returns the audit trail repository
	AuditRepo() audit.Repository
}

// NoOpTransactionScope runs the function against fixed repositories
// without a real transaction. Used in tests.
type NoOpTransactionScope struct {
	Items          inventory.ItemRepository
	Categories     inventory.CategoryRepository
	History        inventory.CategoryHistoryRepository
	Requests       request.Repository
	ReleaseReqs    release.RequestRepository
	ReleaseReports release.ReportRepository
	Audits         audit.Repository
}

// Execute runs fn against the fixed repositories
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the ledger item repository
func (s *NoOpTransactionScope) ItemRepo() inventory.ItemRepository { return s.Items }

// CategoryRepo returns the category repository
func (s *NoOpTransactionScope) CategoryRepo() inventory.CategoryRepository { return s.Categories }

// HistoryRepo returns the category history repository
func (s *NoOpTransactionScope) HistoryRepo() inventory.CategoryHistoryRepository { return s.History }

// RequestRepo returns the inventory request repository
func (s *NoOpTransactionScope) RequestRepo() request.Repository { return s.Requests }

// ReleaseRequestRepo returns the release request repository
func (s *NoOpTransactionScope) ReleaseRequestRepo() release.RequestRepository { return s.ReleaseReqs }

// ReleaseReportRepo returns the release report repository
func (s *NoOpTransactionScope) ReleaseReportRepo() release.ReportRepository { return s.ReleaseReports }

// AuditRepo returns the audit trail repository
func (s *NoOpTransactionScope) AuditRepo() audit.Repository { return s.Audits }

// Ensure NoOpTransactionScope implements the interfaces
var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
