package request

import (
	"github.com/google/uuid"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInventoryRequest = "InventoryRequest"

// Event type constants
const (
	EventTypeRequestSubmitted = "InventoryRequestSubmitted"
	EventTypeRequestReviewed  = "InventoryRequestReviewed"
)

// RequestSubmittedEvent is raised when an employee submits a request
type RequestSubmittedEvent struct {
	shared.BaseDomainEvent
	RequestID    uuid.UUID   `json:"request_id"`
	EmployeeID   uuid.UUID   `json:"employee_id"`
	EmployeeName string      `json:"employee_name"`
	RequestType  RequestType `json:"request_type"`
	ItemCount    int         `json:"item_count"`
}

// NewRequestSubmittedEvent creates a new RequestSubmittedEvent
func NewRequestSubmittedEvent(req *InventoryRequest) *RequestSubmittedEvent {
	return &RequestSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestSubmitted, AggregateTypeInventoryRequest, req.ID),
		RequestID:       req.ID,
		EmployeeID:      req.EmployeeID,
		EmployeeName:    req.EmployeeName,
		RequestType:     req.RequestType,
		ItemCount:       len(req.Items),
	}
}

// EventType returns the event type name
func (e *RequestSubmittedEvent) EventType() string {
	return EventTypeRequestSubmitted
}

// RequestReviewedEvent is raised when an admin reviews a request
type RequestReviewedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID `json:"request_id"`
	EmployeeID    uuid.UUID `json:"employee_id"`
	Status        Status    `json:"status"`
	ApprovedCount int       `json:"approved_count"`
	DeniedCount   int       `json:"denied_count"`
}

// NewRequestReviewedEvent creates a new RequestReviewedEvent
func NewRequestReviewedEvent(req *InventoryRequest) *RequestReviewedEvent {
	approved, denied := req.Tally()
	return &RequestReviewedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestReviewed, AggregateTypeInventoryRequest, req.ID),
		RequestID:       req.ID,
		EmployeeID:      req.EmployeeID,
		Status:          req.Status,
		ApprovedCount:   approved,
		DeniedCount:     denied,
	}
}

// EventType returns the event type name
func (e *RequestReviewedEvent) EventType() string {
	return EventTypeRequestReviewed
}
