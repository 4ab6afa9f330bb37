package request

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

// RequestType distinguishes a single-item request from a bulk one
type RequestType string

const (
	RequestTypeSingle RequestType = "single"
	RequestTypeBulk   RequestType = "bulk"
)

// Status is the aggregate state of an inventory request. Once a
// request leaves pending it is terminal and can never be reviewed
// again.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
	StatusPartial  Status = "partial"
)

// IsTerminal reports whether the status permits no further transitions
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusDenied || s == StatusPartial
}

// LineStatus is the per-item outcome within a request
type LineStatus string

const (
	LineStatusPending  LineStatus = "pending"
	LineStatusApproved LineStatus = "approved"
	LineStatusDenied   LineStatus = "denied"
)

// DenyReason is the closed set of reasons an admin may attach to a
// denied line
type DenyReason string

const (
	DenyReasonWrongItemName      DenyReason = "wrong_item_name"
	DenyReasonWrongLocation      DenyReason = "wrong_location"
	DenyReasonWrongQuantity      DenyReason = "wrong_quantity"
	DenyReasonWrongUnitOfMeasure DenyReason = "wrong_unit_of_measure"
	DenyReasonWrongUnitCost      DenyReason = "wrong_unit_cost"
	DenyReasonWrongAmount        DenyReason = "wrong_amount"
	DenyReasonOther              DenyReason = "other"
)

// IsValid checks whether the reason is one of the known reasons
func (r DenyReason) IsValid() bool {
	switch r {
	case DenyReasonWrongItemName, DenyReasonWrongLocation, DenyReasonWrongQuantity,
		DenyReasonWrongUnitOfMeasure, DenyReasonWrongUnitCost, DenyReasonWrongAmount, DenyReasonOther:
		return true
	}
	return false
}

// Item is one requested line. Lines are ordered by LineNo and keep
// their own review outcome so a partial decision survives persistence.
type Item struct {
	shared.BaseEntity
	RequestID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo       int             `gorm:"not null"`
	Supplier     string          `gorm:"size:200;not null"`
	Name         string          `gorm:"size:200;not null"`
	Location     string          `gorm:"size:200;not null"`
	Unit         string          `gorm:"size:50;not null"`
	Quantity     int64           `gorm:"not null"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Remarks      string          `gorm:"type:text"`
	CategoryName string          `gorm:"size:200;not null"`
	Status       LineStatus      `gorm:"size:20;not null;default:'pending'"`
	DenyReason   *DenyReason     `gorm:"size:40"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "inventory_request_items"
}

// ItemInput is the payload for one requested line
type ItemInput struct {
	Supplier     string
	Name         string
	Location     string
	Unit         string
	Quantity     int64
	UnitCost     decimal.Decimal
	Remarks      string
	CategoryName string
}

// InventoryRequest is an employee's proposal to add goods to the
// ledger. Nothing touches the ledger until an admin approves.
type InventoryRequest struct {
	shared.BaseAggregateRoot
	EmployeeID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	EmployeeName string      `gorm:"size:200;not null"`
	RequestType  RequestType `gorm:"size:10;not null"`
	Status       Status      `gorm:"size:20;not null;default:'pending';index"`
	Items        []Item      `gorm:"foreignKey:RequestID;references:ID"`
	ReviewedBy   *uuid.UUID  `gorm:"type:uuid"`
	ReviewedAt   *time.Time
}

// TableName returns the table name for GORM
func (InventoryRequest) TableName() string {
	return "inventory_requests"
}

// NewInventoryRequest creates a pending request from the submitted
// lines. Line amounts are computed here, never taken from the caller.
func NewInventoryRequest(employeeID uuid.UUID, employeeName string, inputs []ItemInput) (*InventoryRequest, error) {
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee ID is required")
	}
	if len(inputs) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "A request must contain at least one item")
	}

	requestType := RequestTypeSingle
	if len(inputs) > 1 {
		requestType = RequestTypeBulk
	}

	req := &InventoryRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EmployeeID:        employeeID,
		EmployeeName:      strings.TrimSpace(employeeName),
		RequestType:       requestType,
		Status:            StatusPending,
		Items:             make([]Item, 0, len(inputs)),
	}

	for idx, in := range inputs {
		line, err := newRequestItem(req.ID, idx, in)
		if err != nil {
			return nil, err
		}
		req.Items = append(req.Items, *line)
	}

	req.AddDomainEvent(NewRequestSubmittedEvent(req))

	return req, nil
}

func newRequestItem(requestID uuid.UUID, lineNo int, in ItemInput) (*Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Item name is required")
	}
	if strings.TrimSpace(in.Supplier) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Supplier is required")
	}
	if strings.TrimSpace(in.Location) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Location is required")
	}
	if strings.TrimSpace(in.Unit) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unit of measure is required")
	}
	if strings.TrimSpace(in.CategoryName) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Category name is required")
	}
	if in.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Quantity must be positive")
	}
	if in.UnitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unit cost cannot be negative")
	}

	return &Item{
		BaseEntity:   shared.NewBaseEntity(),
		RequestID:    requestID,
		LineNo:       lineNo,
		Supplier:     strings.TrimSpace(in.Supplier),
		Name:         name,
		Location:     strings.TrimSpace(in.Location),
		Unit:         strings.TrimSpace(in.Unit),
		Quantity:     in.Quantity,
		UnitCost:     in.UnitCost,
		Amount:       in.UnitCost.Mul(decimal.NewFromInt(in.Quantity)),
		Remarks:      strings.TrimSpace(in.Remarks),
		CategoryName: strings.TrimSpace(in.CategoryName),
		Status:       LineStatusPending,
	}, nil
}

// ItemDecision is the reviewer's verdict for one line, addressed by
// the line's position in the request
type ItemDecision struct {
	Index  int
	Status LineStatus
	Reason DenyReason
}

// Decision carries a review verdict: either a blanket outcome for the
// whole request or one entry per line. Never both.
type Decision struct {
	Blanket LineStatus
	Items   []ItemDecision
}

// BlanketDecision builds a decision applying one outcome to every line
func BlanketDecision(status LineStatus) Decision {
	return Decision{Blanket: status}
}

// PerItemDecision builds a decision with one verdict per line
func PerItemDecision(items []ItemDecision) Decision {
	return Decision{Items: items}
}

// Review applies a decision to a pending request. Per-item decisions
// must cover every line exactly once; an uncovered line is a
// validation error, never silently defaulted. The aggregate status is
// derived strictly from the per-line tally.
func (r *InventoryRequest) Review(reviewerID uuid.UUID, decision Decision) error {
	if r.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Request has already been reviewed")
	}

	if err := r.applyDecision(decision); err != nil {
		return err
	}

	r.Status = r.deriveStatus()
	now := time.Now()
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRequestReviewedEvent(r))

	return nil
}

func (r *InventoryRequest) applyDecision(decision Decision) error {
	if decision.Blanket != "" {
		if len(decision.Items) > 0 {
			return shared.NewDomainError("INVALID_INPUT", "Decision cannot be both blanket and per-item")
		}
		if decision.Blanket != LineStatusApproved && decision.Blanket != LineStatusDenied {
			return shared.NewDomainError("INVALID_INPUT", "Blanket decision must be approved or denied")
		}
		for idx := range r.Items {
			r.Items[idx].Status = decision.Blanket
			if decision.Blanket == LineStatusDenied {
				reason := DenyReasonOther
				r.Items[idx].DenyReason = &reason
			}
		}
		return nil
	}

	if len(decision.Items) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "Decision must carry a blanket status or per-item verdicts")
	}

	covered := make(map[int]ItemDecision, len(decision.Items))
	for _, d := range decision.Items {
		if d.Index < 0 || d.Index >= len(r.Items) {
			return shared.NewDomainError("INVALID_INPUT", "Item decision index out of range")
		}
		if _, dup := covered[d.Index]; dup {
			return shared.NewDomainError("INVALID_INPUT", "Duplicate decision for the same item")
		}
		if d.Status != LineStatusApproved && d.Status != LineStatusDenied {
			return shared.NewDomainError("INVALID_INPUT", "Item decision must be approved or denied")
		}
		if d.Status == LineStatusDenied && !d.Reason.IsValid() {
			return shared.NewDomainError("INVALID_INPUT", "Denied items require a deny reason")
		}
		covered[d.Index] = d
	}
	if len(covered) != len(r.Items) {
		return shared.NewDomainError("INVALID_INPUT", "Every item must receive a decision")
	}

	for idx := range r.Items {
		d := covered[idx]
		r.Items[idx].Status = d.Status
		if d.Status == LineStatusDenied {
			reason := d.Reason
			r.Items[idx].DenyReason = &reason
		}
	}
	return nil
}

func (r *InventoryRequest) deriveStatus() Status {
	approved, denied := r.Tally()
	switch {
	case denied == 0:
		return StatusApproved
	case approved == 0:
		return StatusDenied
	default:
		return StatusPartial
	}
}

// Tally counts approved and denied lines
func (r *InventoryRequest) Tally() (approved, denied int) {
	for idx := range r.Items {
		switch r.Items[idx].Status {
		case LineStatusApproved:
			approved++
		case LineStatusDenied:
			denied++
		}
	}
	return approved, denied
}

// ApprovedItems returns the lines that passed review, in line order
func (r *InventoryRequest) ApprovedItems() []Item {
	out := make([]Item, 0, len(r.Items))
	for idx := range r.Items {
		if r.Items[idx].Status == LineStatusApproved {
			out = append(out, r.Items[idx])
		}
	}
	return out
}
