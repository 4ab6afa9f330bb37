package release

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplyoffice/backend/internal/domain/shared"
)

// ReportItem is a snapshot of one released line. Snapshots are frozen
// at generation time and never follow later ledger changes.
type ReportItem struct {
	shared.BaseEntity
	ReportID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo          int             `gorm:"not null"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null"`
	ItemName        string          `gorm:"size:200;not null"`
	Quantity        int64           `gorm:"not null"`
	Unit            string          `gorm:"size:50;not null"`
	Particulars     string          `gorm:"size:500"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Remarks         string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ReportItem) TableName() string {
	return "release_report_items"
}

// ReleaseReport is the immutable record of goods leaving stock. The
// SRO number is assigned by the repository on create. RequestID links
// a report back to the release request it fulfilled, which is what
// blocks a second generation for the same request.
type ReleaseReport struct {
	shared.BaseAggregateRoot
	SRONo            string          `gorm:"size:20;uniqueIndex"`
	RSNo             string          `gorm:"size:50"`
	DepartmentOffice string          `gorm:"size:200;not null"`
	PartialRelease   bool            `gorm:"not null;default:false"`
	Items            []ReportItem    `gorm:"foreignKey:ReportID;references:ID"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReleasedBy       string          `gorm:"size:200;not null"`
	ReceivedBy       string          `gorm:"size:200;not null"`
	RequestID        *uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
}

// TableName returns the table name for GORM
func (ReleaseReport) TableName() string {
	return "release_reports"
}

// ReportLine is the payload for one released line
type ReportLine struct {
	InventoryItemID uuid.UUID
	ItemName        string
	Quantity        int64
	Unit            string
	Particulars     string
	UnitCost        decimal.Decimal
	Remarks         string
}

// NewReleaseReport creates a report from the released lines. The total
// amount is always computed here from the line snapshots.
func NewReleaseReport(departmentOffice, rsNo string, partialRelease bool, releasedBy, receivedBy string, requestID *uuid.UUID, lines []ReportLine) (*ReleaseReport, error) {
	departmentOffice = strings.TrimSpace(departmentOffice)
	if departmentOffice == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Department office is required")
	}
	releasedBy = strings.TrimSpace(releasedBy)
	if releasedBy == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Released by is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "A report must contain at least one released item")
	}

	report := &ReleaseReport{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RSNo:              strings.TrimSpace(rsNo),
		DepartmentOffice:  departmentOffice,
		PartialRelease:    partialRelease,
		Items:             make([]ReportItem, 0, len(lines)),
		TotalAmount:       decimal.Zero,
		ReleasedBy:        releasedBy,
		ReceivedBy:        strings.TrimSpace(receivedBy),
		RequestID:         requestID,
	}

	for idx, line := range lines {
		if line.InventoryItemID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Inventory item reference is required")
		}
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_INPUT", "Quantity must be positive")
		}
		amount := line.UnitCost.Mul(decimal.NewFromInt(line.Quantity))
		report.Items = append(report.Items, ReportItem{
			BaseEntity:      shared.NewBaseEntity(),
			ReportID:        report.ID,
			LineNo:          idx,
			InventoryItemID: line.InventoryItemID,
			ItemName:        strings.TrimSpace(line.ItemName),
			Quantity:        line.Quantity,
			Unit:            strings.TrimSpace(line.Unit),
			Particulars:     strings.TrimSpace(line.Particulars),
			UnitCost:        line.UnitCost,
			Amount:          amount,
			Remarks:         strings.TrimSpace(line.Remarks),
		})
		report.TotalAmount = report.TotalAmount.Add(amount)
	}

	report.AddDomainEvent(NewReportGeneratedEvent(report))

	return report, nil
}
