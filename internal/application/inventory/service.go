package inventory

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	auditapp "github.com/supplyoffice/backend/internal/application/audit"
	"github.com/supplyoffice/backend/internal/domain/audit"
	"github.com/supplyoffice/backend/internal/domain/identity"
	"github.com/supplyoffice/backend/internal/domain/inventory"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

// Service handles ledger operations. Reads go straight to the
// repositories; admin writes run inside a transaction scope so that
// the item, its category history and the audit trail commit together.
type Service struct {
	scope      TransactionScope
	items      inventory.ItemRepository
	categories inventory.CategoryRepository
	history    inventory.CategoryHistoryRepository
	publisher  shared.EventPublisher
	auditor    *auditapp.Recorder
	logger     *zap.Logger
}

// NewService creates a new ledger service
func NewService(
	scope TransactionScope,
	items inventory.ItemRepository,
	categories inventory.CategoryRepository,
	history inventory.CategoryHistoryRepository,
	publisher shared.EventPublisher,
	auditor *auditapp.Recorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		scope:      scope,
		items:      items,
		categories: categories,
		history:    history,
		publisher:  publisher,
		auditor:    auditor,
		logger:     logger,
	}
}

// List returns ledger items matching the filter
func (s *Service) List(ctx context.Context, filter ListFilter) ([]ItemResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	domainFilter.OrderBy = filter.OrderBy
	domainFilter.OrderDir = filter.OrderDir
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.HasStock != nil && *filter.HasStock {
		domainFilter.Filters["has_stock"] = true
	}

	items, total, err := s.items.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToItemResponses(items), total, nil
}

// GetByID returns one ledger item
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// Create inserts a ledger item directly, bypassing the request
// workflow. Admin only.
func (s *Service) Create(ctx context.Context, actor identity.Actor, input CreateItemInput) (*ItemResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	item, err := inventory.NewItem(input.Supplier, input.Name, input.Location, input.Unit, input.Quantity, input.UnitCost, input.Remarks)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		category, err := repos.CategoryRepo().GetOrCreate(ctx, input.CategoryName)
		if err != nil {
			return err
		}
		item.AssignCategory(category.ID)

		if err := repos.ItemRepo().Create(ctx, item); err != nil {
			return err
		}

		s.appendHistory(ctx, repos.HistoryRepo(), category.ID, item, inventory.ChangeTypeItemAdded, "", ItemSnapshot(item), actor.Name)
		s.auditor.Record(ctx, repos.AuditRepo(), auditapp.Entry{
			EntityType: audit.EntityTypeInventory,
			EntityID:   item.ID,
			Action:     audit.ActionCreate,
			Actor:      actor,
			After:      item,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, item)

	response := ToItemResponse(item)
	return &response, nil
}

// Update edits a ledger item in place. Admin only. Restock adds to
// stock; deductions only happen through release reports.
func (s *Service) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, input UpdateItemInput) (*ItemResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	var updated *inventory.Item
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		before := ItemSnapshot(item)

		if input.RestockQuantity != nil {
			if err := item.Restock(*input.RestockQuantity, input.UnitCost); err != nil {
				return err
			}
		} else if input.UnitCost != nil {
			if err := item.Reprice(*input.UnitCost); err != nil {
				return err
			}
		}
		if input.Location != nil {
			if err := item.Relocate(*input.Location); err != nil {
				return err
			}
		}
		if input.Remarks != nil {
			item.Remarks = *input.Remarks
		}
		if input.CategoryName != nil {
			category, err := repos.CategoryRepo().GetOrCreate(ctx, *input.CategoryName)
			if err != nil {
				return err
			}
			item.AssignCategory(category.ID)
		}

		if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}

		if item.CategoryID != nil {
			changeType := inventory.ChangeTypeQuantityChange
			switch {
			case input.RestockQuantity != nil:
				changeType = inventory.ChangeTypePurchase
			case input.UnitCost != nil:
				changeType = inventory.ChangeTypeCostChange
			case input.Location != nil:
				changeType = inventory.ChangeTypeLocationChange
			}
			s.appendHistory(ctx, repos.HistoryRepo(), *item.CategoryID, item, changeType, before, ItemSnapshot(item), actor.Name)
		}

		s.auditor.Record(ctx, repos.AuditRepo(), auditapp.Entry{
			EntityType: audit.EntityTypeInventory,
			EntityID:   item.ID,
			Action:     audit.ActionUpdate,
			Actor:      actor,
			Before:     before,
			After:      item,
		})

		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, updated)

	response := ToItemResponse(updated)
	return &response, nil
}

// Categories returns all categories ordered by name
func (s *Service) Categories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, ToCategoryResponse(category))
	}
	return responses, nil
}

// CategoryHistory returns the append-only trail for one category
func (s *Service) CategoryHistory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]HistoryEntryResponse, int64, error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, 0, err
	}

	entries, total, err := s.history.FindByCategory(ctx, categoryID, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ToHistoryEntryResponse(entry))
	}
	return responses, total, nil
}

// appendHistory writes a history entry; a failure is logged, never
// propagated, so the trail cannot block the ledger write it records.
func (s *Service) appendHistory(ctx context.Context, repo inventory.CategoryHistoryRepository, categoryID uuid.UUID, item *inventory.Item, changeType inventory.ChangeType, previous, current, changedBy string) {
	itemID := item.ID
	entry, err := inventory.NewCategoryHistoryEntry(categoryID, &itemID, changeType, previous, current, changedBy)
	if err != nil {
		s.logger.Warn("failed to build history entry", zap.Error(err))
		return
	}
	if err := repo.Append(ctx, entry); err != nil {
		s.logger.Warn("failed to append history entry",
			zap.String("category_id", categoryID.String()),
			zap.Error(err))
	}
}

func (s *Service) publishEvents(ctx context.Context, item *inventory.Item) {
	if s.publisher == nil || item == nil {
		return
	}
	events := item.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.publisher.Publish(ctx, events...)
	item.ClearDomainEvents()
}

// ItemSnapshot renders the fields the history trail cares about. The
// request and release workflows use it for their own ledger writes.
func ItemSnapshot(item *inventory.Item) string {
	data, err := json.Marshal(map[string]any{
		"name":      item.Name,
		"location":  item.Location,
		"quantity":  item.Quantity,
		"unit":      item.Unit,
		"unit_cost": item.UnitCost,
		"amount":    item.Amount,
	})
	if err != nil {
		return ""
	}
	return string(data)
}
