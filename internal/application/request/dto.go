package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/supplyoffice/backend/internal/domain/request"
)

// SubmitLineInput is one requested item in a submission
type SubmitLineInput struct {
	Supplier     string          `json:"supplier" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	CategoryName string          `json:"category_name" binding:"required"`
	Location     string          `json:"location" binding:"required"`
	Unit         string          `json:"unit" binding:"required"`
	Quantity     int64           `json:"quantity" binding:"required,min=1"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Remarks      string          `json:"remarks"`
}

// SubmitInput is the payload for submitting an inventory request
type SubmitInput struct {
	Items []SubmitLineInput `json:"items" binding:"required,min=1,dive"`
}

// LineDecisionInput is the reviewer's verdict for one line
type LineDecisionInput struct {
	Index  int    `json:"index"`
	Status string `json:"status" binding:"required,oneof=approved denied"`
	Reason string `json:"reason"`
}

// ReviewInput is the payload for reviewing a request. Either Decision
// applies one outcome to every line, or Items carries one verdict per
// line. Never both.
type ReviewInput struct {
	Decision string              `json:"decision" binding:"omitempty,oneof=approved denied"`
	Items    []LineDecisionInput `json:"items" binding:"omitempty,dive"`
}

// ToDecision converts the payload to the domain decision
func (in ReviewInput) ToDecision() request.Decision {
	if len(in.Items) > 0 {
		items := make([]request.ItemDecision, 0, len(in.Items))
		for _, item := range in.Items {
			items = append(items, request.ItemDecision{
				Index:  item.Index,
				Status: request.LineStatus(item.Status),
				Reason: request.DenyReason(item.Reason),
			})
		}
		return request.PerItemDecision(items)
	}
	return request.BlanketDecision(request.LineStatus(in.Decision))
}

// LineResponse is one request line in API responses
type LineResponse struct {
	ID           uuid.UUID       `json:"id"`
	LineNo       int             `json:"line_no"`
	Supplier     string          `json:"supplier"`
	Name         string          `json:"name"`
	CategoryName string          `json:"category_name"`
	Location     string          `json:"location"`
	Unit         string          `json:"unit"`
	Quantity     int64           `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Amount       decimal.Decimal `json:"amount"`
	Remarks      string          `json:"remarks,omitempty"`
	Status       string          `json:"status"`
	DenyReason   *string         `json:"deny_reason,omitempty"`
}

// Response is an inventory request in API responses
type Response struct {
	ID           uuid.UUID      `json:"id"`
	EmployeeID   uuid.UUID      `json:"employee_id"`
	EmployeeName string         `json:"employee_name"`
	RequestType  string         `json:"request_type"`
	Status       string         `json:"status"`
	Items        []LineResponse `json:"items"`
	ReviewedBy   *uuid.UUID     `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ReviewResult summarizes a review outcome
type ReviewResult struct {
	Request        Response    `json:"request"`
	ApprovedCount  int         `json:"approved_count"`
	DeniedCount    int         `json:"denied_count"`
	CreatedItemIDs []uuid.UUID `json:"created_item_ids"`
}

// ToResponse converts a domain request to its response form
func ToResponse(req *request.InventoryRequest) Response {
	items := make([]LineResponse, 0, len(req.Items))
	for idx := range req.Items {
		line := &req.Items[idx]
		var reason *string
		if line.DenyReason != nil {
			r := string(*line.DenyReason)
			reason = &r
		}
		items = append(items, LineResponse{
			ID:           line.ID,
			LineNo:       line.LineNo,
			Supplier:     line.Supplier,
			Name:         line.Name,
			CategoryName: line.CategoryName,
			Location:     line.Location,
			Unit:         line.Unit,
			Quantity:     line.Quantity,
			UnitCost:     line.UnitCost,
			Amount:       line.Amount,
			Remarks:      line.Remarks,
			Status:       string(line.Status),
			DenyReason:   reason,
		})
	}

	return Response{
		ID:           req.ID,
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		RequestType:  string(req.RequestType),
		Status:       string(req.Status),
		Items:        items,
		ReviewedBy:   req.ReviewedBy,
		ReviewedAt:   req.ReviewedAt,
		CreatedAt:    req.CreatedAt,
		UpdatedAt:    req.UpdatedAt,
	}
}

// ToResponses converts a slice of domain requests
func ToResponses(reqs []*request.InventoryRequest) []Response {
	responses := make([]Response, 0, len(reqs))
	for _, req := range reqs {
		responses = append(responses, ToResponse(req))
	}
	return responses
}

// ListFilter represents filter options for listing requests
type ListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending approved denied partial"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
