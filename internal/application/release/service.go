package release

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	auditapp "github.com/supplyoffice/backend/internal/application/audit"
	inventoryapp "github.com/supplyoffice/backend/internal/application/inventory"
	notificationapp "github.com/supplyoffice/backend/internal/application/notification"
	"github.com/supplyoffice/backend/internal/domain/audit"
	"github.com/supplyoffice/backend/internal/domain/identity"
	"github.com/supplyoffice/backend/internal/domain/inventory"
	"github.com/supplyoffice/backend/internal/domain/notification"
	"github.com/supplyoffice/backend/internal/domain/release"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

// maxGenerateRetries bounds how often Generate restarts after losing
// an optimistic-lock race on a ledger item
const maxGenerateRetries = 3

// Service runs the release workflow: employees ask to take goods out,
// an admin reviews, and generating the report is the single step that
// deducts stock. Deductions are version-guarded and the whole
// generation retries when a concurrent writer wins the race.
type Service struct {
	scope      inventoryapp.TransactionScope
	requests   release.RequestRepository
	reports    release.ReportRepository
	items      inventory.ItemRepository
	publisher  shared.EventPublisher
	dispatcher *notificationapp.Dispatcher
	auditor    *auditapp.Recorder
	logger     *zap.Logger
}

// NewService creates a new release workflow service
func NewService(
	scope inventoryapp.TransactionScope,
	requests release.RequestRepository,
	reports release.ReportRepository,
	items inventory.ItemRepository,
	publisher shared.EventPublisher,
	dispatcher *notificationapp.Dispatcher,
	auditor *auditapp.Recorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		scope:      scope,
		requests:   requests,
		reports:    reports,
		items:      items,
		publisher:  publisher,
		dispatcher: dispatcher,
		auditor:    auditor,
		logger:     logger,
	}
}

// Submit creates a pending release request. Each line is checked
// against the live ledger so obviously impossible requests fail fast;
// the binding check happens again at generation time.
func (s *Service) Submit(ctx context.Context, actor identity.Actor, input SubmitInput) (*Response, error) {
	if !actor.IsEmployee() {
		return nil, shared.ErrForbidden
	}

	inputs := make([]release.ItemInput, 0, len(input.Items))
	for _, line := range input.Items {
		item, err := s.items.FindByID(ctx, line.InventoryItemID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_INPUT",
					fmt.Sprintf("Inventory item %s does not exist", line.InventoryItemID))
			}
			return nil, err
		}
		if line.Quantity > item.Quantity {
			return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("Insufficient stock for %s: requested %d, available %d", item.Name, line.Quantity, item.Quantity))
		}

		inputs = append(inputs, release.ItemInput{
			InventoryItemID: item.ID,
			ItemName:        item.Name,
			Quantity:        line.Quantity,
			Unit:            item.Unit,
			Particulars:     line.Particulars,
			UnitCost:        item.UnitCost,
			Remarks:         line.Remarks,
		})
	}

	req, err := release.NewReleaseRequest(actor.ID, actor.Name, input.DepartmentOffice, input.RSNo, input.PartialRelease, inputs)
	if err != nil {
		return nil, err
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, req)
	s.notifyAdmins(ctx, req)

	response := ToResponse(req)
	return &response, nil
}

// Review applies an admin's decision. The ledger stays untouched; only
// report generation deducts stock.
func (s *Service) Review(ctx context.Context, actor identity.Actor, requestID uuid.UUID, input ReviewInput) (*Response, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := req.Review(actor.ID, input.ToDecision()); err != nil {
		return nil, err
	}

	if err := s.requests.Save(ctx, req); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, req)
	s.notifyEmployee(ctx, req)

	response := ToResponse(req)
	return &response, nil
}

// Generate deducts stock for every approved line and writes the
// release report, all in one transaction. Losing an optimistic-lock
// race on an item restarts the whole transaction against fresh rows,
// so concurrent generations serialize instead of double-deducting.
func (s *Service) Generate(ctx context.Context, actor identity.Actor, requestID uuid.UUID, input GenerateInput) (*ReportResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= maxGenerateRetries; attempt++ {
		report, err := s.generateOnce(ctx, actor, requestID, input)
		if err == nil {
			response := ToReportResponse(report)
			return &response, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		lastErr = err
		s.logger.Debug("report generation lost a version race, retrying",
			zap.String("request_id", requestID.String()),
			zap.Int("attempt", attempt+1))
	}
	return nil, lastErr
}

// GenerateDirect deducts stock and writes a report straight from the
// admin's item list, without a prior release request. The same
// validate-then-deduct transaction and version-race retry apply.
func (s *Service) GenerateDirect(ctx context.Context, actor identity.Actor, input DirectGenerateInput) (*ReportResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	var lastErr error
	for attempt := 0; attempt <= maxGenerateRetries; attempt++ {
		report, err := s.generateDirectOnce(ctx, actor, input)
		if err == nil {
			response := ToReportResponse(report)
			return &response, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		lastErr = err
		s.logger.Debug("direct report generation lost a version race, retrying",
			zap.Int("attempt", attempt+1))
	}
	return nil, lastErr
}

func (s *Service) generateDirectOnce(ctx context.Context, actor identity.Actor, input DirectGenerateInput) (*release.ReleaseReport, error) {
	var report *release.ReleaseReport
	var deducted []*inventory.Item

	err := s.scope.Execute(ctx, func(repos inventoryapp.TransactionalRepositories) error {
		lines := make([]release.ReportLine, 0, len(input.Items))
		deducted = deducted[:0]
		for _, line := range input.Items {
			item, err := repos.ItemRepo().FindByID(ctx, line.InventoryItemID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError("INVALID_INPUT",
						fmt.Sprintf("Inventory item %s does not exist", line.InventoryItemID))
				}
				return err
			}
			before := inventoryapp.ItemSnapshot(item)
			if err := item.Deduct(line.Quantity); err != nil {
				return err
			}
			if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
				return err
			}
			s.recordDeduction(ctx, repos, actor, item, before)
			deducted = append(deducted, item)

			lines = append(lines, release.ReportLine{
				InventoryItemID: item.ID,
				ItemName:        item.Name,
				Quantity:        line.Quantity,
				Unit:            item.Unit,
				Particulars:     line.Particulars,
				UnitCost:        item.UnitCost,
				Remarks:         line.Remarks,
			})
		}

		var err error
		report, err = release.NewReleaseReport(input.DepartmentOffice, input.RSNo, input.PartialRelease, actor.Name, input.ReceivedBy, nil, lines)
		if err != nil {
			return err
		}

		if err := repos.ReleaseReportRepo().Create(ctx, report); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, item := range deducted {
		s.publishEvents(ctx, item)
	}
	s.publishEvents(ctx, report)

	return report, nil
}

func (s *Service) generateOnce(ctx context.Context, actor identity.Actor, requestID uuid.UUID, input GenerateInput) (*release.ReleaseReport, error) {
	var report *release.ReleaseReport
	var deducted []*inventory.Item

	err := s.scope.Execute(ctx, func(repos inventoryapp.TransactionalRepositories) error {
		req, err := repos.ReleaseRequestRepo().FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && req.EmployeeID != actor.ID {
			return shared.ErrForbidden
		}
		if !req.Status.CanGenerate() {
			return shared.NewDomainError("INVALID_STATE", "Only approved release requests can generate a report")
		}

		if _, err := repos.ReleaseReportRepo().FindByRequestID(ctx, requestID); err == nil {
			return shared.ErrAlreadyExists
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		lines := make([]release.ReportLine, 0, len(req.Items))
		deducted = deducted[:0]
		for _, line := range req.ApprovedItems() {
			item, err := repos.ItemRepo().FindByID(ctx, line.InventoryItemID)
			if err != nil {
				return err
			}
			before := inventoryapp.ItemSnapshot(item)
			if err := item.Deduct(line.Quantity); err != nil {
				s.notifyInsufficientStock(ctx, req, item, line.Quantity)
				return err
			}
			if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
				return err
			}
			s.recordDeduction(ctx, repos, actor, item, before)
			deducted = append(deducted, item)

			lines = append(lines, release.ReportLine{
				InventoryItemID: item.ID,
				ItemName:        item.Name,
				Quantity:        line.Quantity,
				Unit:            item.Unit,
				Particulars:     line.Particulars,
				UnitCost:        item.UnitCost,
				Remarks:         line.Remarks,
			})
		}

		reqID := req.ID
		report, err = release.NewReleaseReport(req.DepartmentOffice, req.RSNo, req.PartialRelease, actor.Name, input.ReceivedBy, &reqID, lines)
		if err != nil {
			return err
		}

		if err := repos.ReleaseReportRepo().Create(ctx, report); err != nil {
			return err
		}

		s.auditor.Record(ctx, repos.AuditRepo(), auditapp.Entry{
			EntityType: audit.EntityTypeRequest,
			EntityID:   req.ID,
			Action:     audit.ActionUpdate,
			Actor:      actor,
			After:      report,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, item := range deducted {
		s.publishEvents(ctx, item)
	}
	s.publishEvents(ctx, report)

	return report, nil
}

// GetByID returns one release request with its lines
func (s *Service) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Response, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && req.EmployeeID != actor.ID {
		return nil, shared.ErrForbidden
	}
	response := ToResponse(req)
	return &response, nil
}

// List returns release requests visible to the actor
func (s *Service) List(ctx context.Context, actor identity.Actor, filter ListFilter) ([]Response, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	var (
		reqs  []*release.ReleaseRequest
		total int64
		err   error
	)
	if actor.IsAdmin() {
		reqs, total, err = s.requests.FindAll(ctx, domainFilter)
	} else {
		reqs, total, err = s.requests.FindByEmployee(ctx, actor.ID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}
	return ToResponses(reqs), total, nil
}

// GetReport returns one release report
func (s *Service) GetReport(ctx context.Context, id uuid.UUID) (*ReportResponse, error) {
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToReportResponse(report)
	return &response, nil
}

// GetReportDomain returns the domain report, for export rendering
func (s *Service) GetReportDomain(ctx context.Context, id uuid.UUID) (*release.ReleaseReport, error) {
	return s.reports.FindByID(ctx, id)
}

// ListReports returns release reports matching the filter
func (s *Service) ListReports(ctx context.Context, filter ReportListFilter) ([]ReportResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.DepartmentOffice != "" {
		domainFilter.Filters["department_office"] = filter.DepartmentOffice
	}

	reports, total, err := s.reports.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ReportResponse, 0, len(reports))
	for _, report := range reports {
		responses = append(responses, ToReportResponse(report))
	}
	return responses, total, nil
}

// recordDeduction mirrors one stock deduction into the category trail
// and the audit log, inside the caller's transaction. Trail failures
// are logged, never propagated; the audit row rides the transaction.
func (s *Service) recordDeduction(ctx context.Context, repos inventoryapp.TransactionalRepositories, actor identity.Actor, item *inventory.Item, before string) {
	if item.CategoryID != nil {
		itemID := item.ID
		entry, err := inventory.NewCategoryHistoryEntry(*item.CategoryID, &itemID,
			inventory.ChangeTypeQuantityChange, before, inventoryapp.ItemSnapshot(item), actor.Name)
		if err != nil {
			s.logger.Warn("failed to build history entry",
				zap.String("item_id", item.ID.String()),
				zap.Error(err))
		} else if err := repos.HistoryRepo().Append(ctx, entry); err != nil {
			s.logger.Warn("failed to append history entry",
				zap.String("item_id", item.ID.String()),
				zap.Error(err))
		}
	}

	s.auditor.Record(ctx, repos.AuditRepo(), auditapp.Entry{
		EntityType: audit.EntityTypeInventory,
		EntityID:   item.ID,
		Action:     audit.ActionUpdate,
		Actor:      actor,
		Before:     before,
		After:      item,
	})
}

type eventCarrier interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

func (s *Service) publishEvents(ctx context.Context, carrier eventCarrier) {
	if s.publisher == nil || carrier == nil {
		return
	}
	events := carrier.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.publisher.Publish(ctx, events...)
	carrier.ClearDomainEvents()
}

func (s *Service) notifyAdmins(ctx context.Context, req *release.ReleaseRequest) {
	if s.dispatcher == nil {
		return
	}
	title := "New release request"
	message := fmt.Sprintf("%s requested a release for %s", req.EmployeeName, req.DepartmentOffice)
	if err := s.dispatcher.NotifyAdmins(ctx, notification.TypeInfo, title, message, "/releases/"+req.ID.String()); err != nil {
		s.logger.Warn("failed to notify admins of release request",
			zap.String("request_id", req.ID.String()),
			zap.Error(err))
	}
}

func (s *Service) notifyEmployee(ctx context.Context, req *release.ReleaseRequest) {
	if s.dispatcher == nil {
		return
	}

	approved, denied := req.Tally()
	var (
		notifType notification.Type
		title     string
	)
	switch {
	case denied == 0:
		notifType, title = notification.TypeSuccess, "Release request approved"
	case approved == 0:
		notifType, title = notification.TypeAlert, "Release request denied"
	default:
		// any approval is a success from the employee's side
		notifType, title = notification.TypeSuccess, "Release request partially approved"
	}

	message := fmt.Sprintf("%d items approved, %d denied", approved, denied)
	if approved == 1 {
		message = fmt.Sprintf("1 item approved, %d denied", denied)
	}
	if err := s.dispatcher.Notify(ctx, req.EmployeeID, notifType, title, message, "/releases/"+req.ID.String()); err != nil {
		s.logger.Warn("failed to notify employee of release review",
			zap.String("request_id", req.ID.String()),
			zap.Error(err))
	}
}

// notifyInsufficientStock alerts both sides when a generation hits a
/// shortage: the requester learns their release stalled, the admins
// learn the ledger needs restocking.
func (s *Service) notifyInsufficientStock(ctx context.Context, req *release.ReleaseRequest, item *inventory.Item, requested int64) {
	if s.dispatcher == nil {
		return
	}

	message := fmt.Sprintf("Insufficient stock for %s: requested %d, available %d", item.Name, requested, item.Quantity)
	if err := s.dispatcher.Notify(ctx, req.EmployeeID, notification.TypeAlert, "Release blocked by stock shortage", message, "/releases/"+req.ID.String()); err != nil {
		s.logger.Warn("failed to notify employee of stock shortage", zap.Error(err))
	}
	if err := s.dispatcher.NotifyAdmins(ctx, notification.TypeAlert, "Stock shortage", message, "/inventory/"+item.ID.String()); err != nil {
		s.logger.Warn("failed to notify admins of stock shortage", zap.Error(err))
	}
}
