package release

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

// Status is the aggregate state of a release request. Terminal states
// permit no further review.
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

// CanGenerate reports whether a report may be generated from a request
// in this status
func (s Status) CanGenerate() bool {
	return s == StatusApproved || s == StatusPartial
}

// LineStatus is the per-item outcome within a release request
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

// Item is one line of a release request: a reference to a ledger item
// and the quantity asked for, plus the line's own review outcome.
type Item struct {
	shared.BaseEntity
	RequestID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo          int             `gorm:"not null"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemName        string          `gorm:"size:200;not null"`
	Quantity        int64           `gorm:"not null"`
	Unit            string          `gorm:"size:50;not null"`
	Particulars     string          `gorm:"size:500"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Remarks         string          `gorm:"type:text"`
	Status          LineStatus      `gorm:"size:20;not null;default:'pending'"`
	DenyReason      *DenyReason     `gorm:"size:40"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "release_request_items"
}

// ItemInput is the payload for one requested release line. Unit cost
// comes from the live ledger item, not from the caller.
type ItemInput struct {
	InventoryItemID uuid.UUID
	ItemName        string
	Quantity        int64
	Unit            string
	Particulars     string
	UnitCost        decimal.Decimal
	Remarks         string
}

// ReleaseRequest is an employee's ask to take goods out of stock. The
// ledger is only touched when a report is generated, never at submit
// or review time.
type ReleaseRequest struct {
	shared.BaseAggregateRoot
	EmployeeID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	EmployeeName     string     `gorm:"size:200;not null"`
	DepartmentOffice string     `gorm:"size:200;not null"`
	RSNo             string     `gorm:"size:50"`
	PartialRelease   bool       `gorm:"not null;default:false"`
	Status           Status     `gorm:"size:20;not null;default:'pending';index"`
	Items            []Item     `gorm:"foreignKey:RequestID;references:ID"`
	ReviewedBy       *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt       *time.Time
}

// TableName returns the table name for GORM
func (ReleaseRequest) TableName() string {
	return "release_requests"
}

// NewReleaseRequest creates a pending release request. Line amounts
// are computed from the ledger unit cost.
func NewReleaseRequest(employeeID uuid.UUID, employeeName, departmentOffice, rsNo string, partialRelease bool, inputs []ItemInput) (*ReleaseRequest, error) {
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee ID is required")
	}
	departmentOffice = strings.TrimSpace(departmentOffice)
	if departmentOffice == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Department office is required")
	}
	if len(inputs) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "A release request must contain at least one item")
	}

	req := &ReleaseRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EmployeeID:        employeeID,
		EmployeeName:      strings.TrimSpace(employeeName),
		DepartmentOffice:  departmentOffice,
		RSNo:              strings.TrimSpace(rsNo),
		PartialRelease:    partialRelease,
		Status:            StatusPending,
		Items:             make([]Item, 0, len(inputs)),
	}

	for idx, in := range inputs {
		line, err := newReleaseItem(req.ID, idx, in)
		if err != nil {
			return nil, err
		}
		req.Items = append(req.Items, *line)
	}

	req.AddDomainEvent(NewReleaseRequestSubmittedEvent(req))

	return req, nil
}

func newReleaseItem(requestID uuid.UUID, lineNo int, in ItemInput) (*Item, error) {
	if in.InventoryItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Inventory item reference is required")
	}
	if in.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Quantity must be positive")
	}
	if strings.TrimSpace(in.Unit) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unit of measure is required")
	}
	if in.UnitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unit cost cannot be negative")
	}

	return &Item{
		BaseEntity:      shared.NewBaseEntity(),
		RequestID:       requestID,
		LineNo:          lineNo,
		InventoryItemID: in.InventoryItemID,
		ItemName:        strings.TrimSpace(in.ItemName),
		Quantity:        in.Quantity,
		Unit:            strings.TrimSpace(in.Unit),
		Particulars:     strings.TrimSpace(in.Particulars),
		UnitCost:        in.UnitCost,
		Amount:          in.UnitCost.Mul(decimal.NewFromInt(in.Quantity)),
		Remarks:         strings.TrimSpace(in.Remarks),
		Status:          LineStatusPending,
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
// must cover every line exactly once; the aggregate status is derived
// strictly from the per-line tally. Review never touches the ledger.
func (r *ReleaseRequest) Review(reviewerID uuid.UUID, decision Decision) error {
	if r.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Release request has already been reviewed")
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

	r.AddDomainEvent(NewReleaseRequestReviewedEvent(r))

	return nil
}

func (r *ReleaseRequest) applyDecision(decision Decision) error {
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

func (r *ReleaseRequest) deriveStatus() Status {
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
func (r *ReleaseRequest) Tally() (approved, denied int) {
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
func (r *ReleaseRequest) ApprovedItems() []Item {
	out := make([]Item, 0, len(r.Items))
	for idx := range r.Items {
		if r.Items[idx].Status == LineStatusApproved {
			out = append(out, r.Items[idx])
		}
	}
	return out
}
