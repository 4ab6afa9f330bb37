package request

import (
	"context"
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
	"github.com/supplyoffice/backend/internal/domain/request"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

// Service runs the inventory request workflow: employees submit, an
// admin reviews, approved lines become ledger items in one
// transaction with the history and audit writes.
type Service struct {
	scope      inventoryapp.TransactionScope
	requests   request.Repository
	publisher  shared.EventPublisher
	dispatcher *notificationapp.Dispatcher
	auditor    *auditapp.Recorder
	logger     *zap.Logger
}

// NewService creates a new request workflow service
func NewService(
	scope inventoryapp.TransactionScope,
	requests request.Repository,
	publisher shared.EventPublisher,
	dispatcher *notificationapp.Dispatcher,
	auditor *auditapp.Recorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		scope:      scope,
		requests:   requests,
		publisher:  publisher,
		dispatcher: dispatcher,
		auditor:    auditor,
		logger:     logger,
	}
}

// Submit creates a pending request from the employee's lines. Nothing
// touches the ledger here.
func (s *Service) Submit(ctx context.Context, actor identity.Actor, input SubmitInput) (*Response, error) {
	if !actor.IsEmployee() {
		return nil, shared.ErrForbidden
	}

	inputs := make([]request.ItemInput, 0, len(input.Items))
	for _, line := range input.Items {
		inputs = append(inputs, request.ItemInput{
			Supplier:     line.Supplier,
			Name:         line.Name,
			Location:     line.Location,
			Unit:         line.Unit,
			Quantity:     line.Quantity,
			UnitCost:     line.UnitCost,
			Remarks:      line.Remarks,
			CategoryName: line.CategoryName,
		})
	}

	req, err := request.NewInventoryRequest(actor.ID, actor.Name, inputs)
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

// Review applies an admin's decision. Approved lines are inserted into
// the ledger atomically with the request's status change; a failure
// anywhere rolls the whole review back.
func (s *Service) Review(ctx context.Context, actor identity.Actor, requestID uuid.UUID, input ReviewInput) (*ReviewResult, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	var result *ReviewResult
	var reviewed *request.InventoryRequest

	err := s.scope.Execute(ctx, func(repos inventoryapp.TransactionalRepositories) error {
		req, err := repos.RequestRepo().FindByID(ctx, requestID)
		if err != nil {
			return err
		}

		if err := req.Review(actor.ID, input.ToDecision()); err != nil {
			return err
		}

		createdIDs := make([]uuid.UUID, 0)
		for _, line := range req.ApprovedItems() {
			itemID, err := s.materializeLine(ctx, repos, actor, line)
			if err != nil {
				return err
			}
			createdIDs = append(createdIDs, itemID)
		}

		if err := repos.RequestRepo().Save(ctx, req); err != nil {
			return err
		}

		approved, denied := req.Tally()
		action := audit.ActionApprove
		if approved == 0 {
			action = audit.ActionDeny
		}
		s.auditor.Record(ctx, repos.AuditRepo(), auditapp.Entry{
			EntityType: audit.EntityTypeRequest,
			EntityID:   req.ID,
			Action:     action,
			Actor:      actor,
			After:      req,
		})

		reviewed = req
		result = &ReviewResult{
			Request:        ToResponse(req),
			ApprovedCount:  approved,
			DeniedCount:    denied,
			CreatedItemIDs: createdIDs,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, reviewed)
	s.notifyEmployee(ctx, reviewed)

	return result, nil
}

// GetByID returns one request with its lines
func (s *Service) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Response, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// employees only see their own requests
	if !actor.IsAdmin() && req.EmployeeID != actor.ID {
		return nil, shared.ErrForbidden
	}
	response := ToResponse(req)
	return &response, nil
}

// List returns requests visible to the actor: all of them for admins,
// the actor's own for employees
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
		reqs  []*request.InventoryRequest
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

// materializeLine turns one approved line into a ledger item with its
// category and history entry
func (s *Service) materializeLine(ctx context.Context, repos inventoryapp.TransactionalRepositories, actor identity.Actor, line request.Item) (uuid.UUID, error) {
	item, err := inventory.NewItem(line.Supplier, line.Name, line.Location, line.Unit, line.Quantity, line.UnitCost, line.Remarks)
	if err != nil {
		return uuid.Nil, err
	}

	category, err := repos.CategoryRepo().GetOrCreate(ctx, line.CategoryName)
	if err != nil {
		return uuid.Nil, err
	}
	item.AssignCategory(category.ID)

	if err := repos.ItemRepo().Create(ctx, item); err != nil {
		return uuid.Nil, err
	}

	itemID := item.ID
	entry, err := inventory.NewCategoryHistoryEntry(category.ID, &itemID,
		inventory.ChangeTypeItemAdded, "", inventoryapp.ItemSnapshot(item), actor.Name)
	if err != nil {
		s.logger.Warn("failed to build history entry",
			zap.String("item_id", itemID.String()),
			zap.Error(err))
	} else if appendErr := repos.HistoryRepo().Append(ctx, entry); appendErr != nil {
		s.logger.Warn("failed to append history entry",
			zap.String("item_id", itemID.String()),
			zap.Error(appendErr))
	}

	s.auditor.Record(ctx, repos.AuditRepo(), auditapp.Entry{
		EntityType: audit.EntityTypeInventory,
		EntityID:   item.ID,
		Action:     audit.ActionCreate,
		Actor:      actor,
		After:      item,
	})

	s.publishEvents(ctx, item)
	return item.ID, nil
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

func (s *Service) notifyAdmins(ctx context.Context, req *request.InventoryRequest) {
	if s.dispatcher == nil {
		return
	}
	title := "New inventory request"
	message := fmt.Sprintf("%s submitted an inventory request with %d item(s)", req.EmployeeName, len(req.Items))
	if err := s.dispatcher.NotifyAdmins(ctx, notification.TypeInfo, title, message, "/requests/"+req.ID.String()); err != nil {
		s.logger.Warn("failed to notify admins of new request",
			zap.String("request_id", req.ID.String()),
			zap.Error(err))
	}
}

func (s *Service) notifyEmployee(ctx context.Context, req *request.InventoryRequest) {
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
		notifType, title = notification.TypeSuccess, "Inventory request approved"
	case approved == 0:
		notifType, title = notification.TypeAlert, "Inventory request denied"
	default:
		// any approval is a success from the employee's side
		notifType, title = notification.TypeSuccess, "Inventory request partially approved"
	}

	message := fmt.Sprintf("%d items approved, %d denied", approved, denied)
	if approved == 1 {
		message = fmt.Sprintf("1 item approved, %d denied", denied)
	}
	if err := s.dispatcher.Notify(ctx, req.EmployeeID, notifType, title, message, "/requests/"+req.ID.String()); err != nil {
		s.logger.Warn("failed to notify employee of review",
			zap.String("request_id", req.ID.String()),
			zap.Error(err))
	}
}
