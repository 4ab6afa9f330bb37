package release

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeReleaseRequest = "ReleaseRequest"
	AggregateTypeReleaseReport  = "ReleaseReport"
)

// Event type constants
const (
	EventTypeReleaseRequestSubmitted = "ReleaseRequestSubmitted"
	EventTypeReleaseRequestReviewed  = "ReleaseRequestReviewed"
	EventTypeReportGenerated         = "ReleaseReportGenerated"
)

// ReleaseRequestSubmittedEvent is raised when an employee submits a
// release request
type ReleaseRequestSubmittedEvent struct {
	shared.BaseDomainEvent
	RequestID        uuid.UUID `json:"request_id"`
	EmployeeID       uuid.UUID `json:"employee_id"`
	EmployeeName     string    `json:"employee_name"`
	DepartmentOffice string    `json:"department_office"`
	ItemCount        int       `json:"item_count"`
}

// NewReleaseRequestSubmittedEvent creates a new ReleaseRequestSubmittedEvent
func NewReleaseRequestSubmittedEvent(req *ReleaseRequest) *ReleaseRequestSubmittedEvent {
	return &ReleaseRequestSubmittedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeReleaseRequestSubmitted, AggregateTypeReleaseRequest, req.ID),
		RequestID:        req.ID,
		EmployeeID:       req.EmployeeID,
		EmployeeName:     req.EmployeeName,
		DepartmentOffice: req.DepartmentOffice,
		ItemCount:        len(req.Items),
	}
}

// EventType returns the event type name
func (e *ReleaseRequestSubmittedEvent) EventType() string {
	return EventTypeReleaseRequestSubmitted
}

// ReleaseRequestReviewedEvent is raised when an admin reviews a
// release request
type ReleaseRequestReviewedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID `json:"request_id"`
	EmployeeID    uuid.UUID `json:"employee_id"`
	Status        Status    `json:"status"`
	ApprovedCount int       `json:"approved_count"`
	DeniedCount   int       `json:"denied_count"`
}

// NewReleaseRequestReviewedEvent creates a new ReleaseRequestReviewedEvent
func NewReleaseRequestReviewedEvent(req *ReleaseRequest) *ReleaseRequestReviewedEvent {
	approved, denied := req.Tally()
	return &ReleaseRequestReviewedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReleaseRequestReviewed, AggregateTypeReleaseRequest, req.ID),
		RequestID:       req.ID,
		EmployeeID:      req.EmployeeID,
		Status:          req.Status,
		ApprovedCount:   approved,
		DeniedCount:     denied,
	}
}

// EventType returns the event type name
func (e *ReleaseRequestReviewedEvent) EventType() string {
	return EventTypeReleaseRequestReviewed
}

// ReportGeneratedEvent is raised when a release report is generated
// and stock has been deducted
type ReportGeneratedEvent struct {
	shared.BaseDomainEvent
	ReportID         uuid.UUID       `json:"report_id"`
	RequestID        *uuid.UUID      `json:"request_id,omitempty"`
	DepartmentOffice string          `json:"department_office"`
	ItemCount        int             `json:"item_count"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

// NewReportGeneratedEvent creates a new ReportGeneratedEvent
func NewReportGeneratedEvent(report *ReleaseReport) *ReportGeneratedEvent {
	return &ReportGeneratedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeReportGenerated, AggregateTypeReleaseReport, report.ID),
		ReportID:         report.ID,
		RequestID:        report.RequestID,
		DepartmentOffice: report.DepartmentOffice,
		ItemCount:        len(report.Items),
		TotalAmount:      report.TotalAmount,
	}
}

// EventType returns the event type name
func (e *ReportGeneratedEvent) EventType() string {
	return EventTypeReportGenerated
}
