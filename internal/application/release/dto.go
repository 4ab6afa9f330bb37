package release

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/supplyoffice/backend/internal/domain/release"
)

// SubmitLineInput is one requested release line
type SubmitLineInput struct {
	InventoryItemID uuid.UUID `json:"inventory_item_id" binding:"required"`
	Quantity        int64     `json:"quantity" binding:"required,min=1"`
	Particulars     string    `json:"particulars"`
	Remarks         string    `json:"remarks"`
}

// SubmitInput is the payload for submitting a release request
type SubmitInput struct {
	DepartmentOffice string            `json:"department_office" binding:"required"`
	RSNo             string            `json:"rs_no"`
	PartialRelease   bool              `json:"partial_release"`
	Items            []SubmitLineInput `json:"items" binding:"required,min=1,dive"`
}

// LineDecisionInput is the reviewer's verdict for one line
type LineDecisionInput struct {
	Index  int    `json:"index"`
	Status string `json:"status" binding:"required,oneof=approved denied"`
	Reason string `json:"reason"`
}

// ReviewInput is the payload for reviewing a release request
type ReviewInput struct {
	Decision string              `json:"decision" binding:"omitempty,oneof=approved denied"`
	Items    []LineDecisionInput `json:"items" binding:"omitempty,dive"`
}

// ToDecision converts the payload to the domain decision
func (in ReviewInput) ToDecision() release.Decision {
	if len(in.Items) > 0 {
		items := make([]release.ItemDecision, 0, len(in.Items))
		for _, item := range in.Items {
			items = append(items, release.ItemDecision{
				Index:  item.Index,
				Status: release.LineStatus(item.Status),
				Reason: release.DenyReason(item.Reason),
			})
		}
		return release.PerItemDecision(items)
	}
	return release.BlanketDecision(release.LineStatus(in.Decision))
}

// GenerateInput is the payload for generating a release report
type GenerateInput struct {
	ReceivedBy string `json:"received_by"`
}

// DirectLineInput is one line of an admin's direct release
type DirectLineInput struct {
	InventoryItemID uuid.UUID `json:"inventory_item_id" binding:"required"`
	Quantity        int64     `json:"quantity" binding:"required,min=1"`
	Particulars     string    `json:"particulars"`
	Remarks         string    `json:"remarks"`
}

// DirectGenerateInput is the payload for generating a report without a
// prior release request
type DirectGenerateInput struct {
	DepartmentOffice string            `json:"department_office" binding:"required"`
	RSNo             string            `json:"rs_no"`
	PartialRelease   bool              `json:"partial_release"`
	ReceivedBy       string            `json:"received_by"`
	Items            []DirectLineInput `json:"items" binding:"required,min=1,dive"`
}

// LineResponse is one release request line in API responses
type LineResponse struct {
	ID              uuid.UUID       `json:"id"`
	LineNo          int             `json:"line_no"`
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	ItemName        string          `json:"item_name"`
	Quantity        int64           `json:"quantity"`
	Unit            string          `json:"unit"`
	Particulars     string          `json:"particulars,omitempty"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Amount          decimal.Decimal `json:"amount"`
	Remarks         string          `json:"remarks,omitempty"`
	Status          string          `json:"status"`
	DenyReason      *string         `json:"deny_reason,omitempty"`
}

// Response is a release request in API responses
type Response struct {
	ID               uuid.UUID      `json:"id"`
	EmployeeID       uuid.UUID      `json:"employee_id"`
	EmployeeName     string         `json:"employee_name"`
	DepartmentOffice string         `json:"department_office"`
	RSNo             string         `json:"rs_no,omitempty"`
	PartialRelease   bool           `json:"partial_release"`
	Status           string         `json:"status"`
	Items            []LineResponse `json:"items"`
	ReviewedBy       *uuid.UUID     `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// ToResponse converts a domain release request to its response form
func ToResponse(req *release.ReleaseRequest) Response {
	items := make([]LineResponse, 0, len(req.Items))
	for idx := range req.Items {
		line := &req.Items[idx]
		var reason *string
		if line.DenyReason != nil {
			r := string(*line.DenyReason)
			reason = &r
		}
		items = append(items, LineResponse{
			ID:              line.ID,
			LineNo:          line.LineNo,
			InventoryItemID: line.InventoryItemID,
			ItemName:        line.ItemName,
			Quantity:        line.Quantity,
			Unit:            line.Unit,
			Particulars:     line.Particulars,
			UnitCost:        line.UnitCost,
			Amount:          line.Amount,
			Remarks:         line.Remarks,
			Status:          string(line.Status),
			DenyReason:      reason,
		})
	}

	return Response{
		ID:               req.ID,
		EmployeeID:       req.EmployeeID,
		EmployeeName:     req.EmployeeName,
		DepartmentOffice: req.DepartmentOffice,
		RSNo:             req.RSNo,
		PartialRelease:   req.PartialRelease,
		Status:           string(req.Status),
		Items:            items,
		ReviewedBy:       req.ReviewedBy,
		ReviewedAt:       req.ReviewedAt,
		CreatedAt:        req.CreatedAt,
		UpdatedAt:        req.UpdatedAt,
	}
}

// ToResponses converts a slice of domain release requests
func ToResponses(reqs []*release.ReleaseRequest) []Response {
	responses := make([]Response, 0, len(reqs))
	for _, req := range reqs {
		responses = append(responses, ToResponse(req))
	}
	return responses
}

// ReportLineResponse is one released line snapshot
type ReportLineResponse struct {
	LineNo          int             `json:"line_no"`
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	ItemName        string          `json:"item_name"`
	Quantity        int64           `json:"quantity"`
	Unit            string          `json:"unit"`
	Particulars     string          `json:"particulars,omitempty"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Amount          decimal.Decimal `json:"amount"`
	Remarks         string          `json:"remarks,omitempty"`
}

// ReportResponse is a release report in API responses
type ReportResponse struct {
	ID               uuid.UUID            `json:"id"`
	SRONo            string               `json:"sro_no"`
	RSNo             string               `json:"rs_no,omitempty"`
	DepartmentOffice string               `json:"department_office"`
	PartialRelease   bool                 `json:"partial_release"`
	Items            []ReportLineResponse `json:"items"`
	TotalAmount      decimal.Decimal      `json:"total_amount"`
	ReleasedBy       string               `json:"released_by"`
	ReceivedBy       string               `json:"received_by,omitempty"`
	RequestID        *uuid.UUID           `json:"request_id,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}

// ToReportResponse converts a domain report
func ToReportResponse(report *release.ReleaseReport) ReportResponse {
	items := make([]ReportLineResponse, 0, len(report.Items))
	for idx := range report.Items {
		line := &report.Items[idx]
		items = append(items, ReportLineResponse{
			LineNo:          line.LineNo,
			InventoryItemID: line.InventoryItemID,
			ItemName:        line.ItemName,
			Quantity:        line.Quantity,
			Unit:            line.Unit,
			Particulars:     line.Particulars,
			UnitCost:        line.UnitCost,
			Amount:          line.Amount,
			Remarks:         line.Remarks,
		})
	}

	return ReportResponse{
		ID:               report.ID,
		SRONo:            report.SRONo,
		RSNo:             report.RSNo,
		DepartmentOffice: report.DepartmentOffice,
		PartialRelease:   report.PartialRelease,
		Items:            items,
		TotalAmount:      report.TotalAmount,
		ReleasedBy:       report.ReleasedBy,
		ReceivedBy:       report.ReceivedBy,
		RequestID:        report.RequestID,
		CreatedAt:        report.CreatedAt,
	}
}

// ListFilter represents filter options for listing release requests
type ListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending approved denied partial"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ReportListFilter represents filter options for listing reports
type ReportListFilter struct {
	DepartmentOffice string `form:"department_office"`
	Search           string `form:"search"`
	Page             int    `form:"page" binding:"omitempty,min=1"`
	PageSize         int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
