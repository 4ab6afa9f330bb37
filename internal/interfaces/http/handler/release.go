package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	releaseapp "github.com/supplyoffice/backend/internal/application/release"
	"github.com/supplyoffice/backend/internal/infrastructure/report"
)

// ReleaseHandler serves the release workflow: requests, reviews,
// report generation and the report archive with its Excel export.
type ReleaseHandler struct {
	BaseHandler
	service  *releaseapp.Service
	renderer *report.ExcelRenderer
}

// NewReleaseHandler creates a new release handler
func NewReleaseHandler(service *releaseapp.Service, renderer *report.ExcelRenderer) *ReleaseHandler {
	return &ReleaseHandler{service: service, renderer: renderer}
}

// RegisterRoutes registers release routes
func (h *ReleaseHandler) RegisterRoutes(r *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	releases := r.Group("/releases")
	{
		releases.POST("", h.Submit)
		releases.GET("", h.List)
		releases.GET("/reports", h.ListReports)
		releases.GET("/reports/:id", h.GetReport)
		releases.GET("/reports/:id/export", h.ExportReport)
		releases.GET("/:id", h.Get)
		releases.POST("/:id/review", adminOnly, h.Review)
		releases.POST("/generate", h.Generate)
	}
}

// Submit creates a pending release request
func (h *ReleaseHandler) Submit(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var input releaseapp.SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns release requests visible to the actor
func (h *ReleaseHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var filter releaseapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	releases, total, err := h.service.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, releases, total, filter.Page, filter.PageSize)
}

// Get returns one release request
func (h *ReleaseHandler) Get(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Review applies the admin's decision to a pending release request
func (h *ReleaseHandler) Review(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input releaseapp.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.Review(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GenerateRequest is the payload for generating a release report.
// Either a release request ID (employee-submitted path) or an inline
// item list (admin direct path) must be given.
type GenerateRequest struct {
	ReleaseRequestID *uuid.UUID                   `json:"release_request_id"`
	ReceivedBy       string                       `json:"received_by"`
	DepartmentOffice string                       `json:"department_office"`
	RSNo             string                       `json:"rs_no"`
	PartialRelease   bool                         `json:"partial_release"`
	Items            []releaseapp.DirectLineInput `json:"items" binding:"omitempty,dive"`
}

// Generate deducts stock and writes a release report, either for an
// approved release request or directly from the admin's item list.
func (h *ReleaseHandler) Generate(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var input GenerateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	var (
		resp *releaseapp.ReportResponse
		err  error
	)
	switch {
	case input.ReleaseRequestID != nil:
		resp, err = h.service.Generate(c.Request.Context(), actor, *input.ReleaseRequestID,
			releaseapp.GenerateInput{ReceivedBy: input.ReceivedBy})
	case len(input.Items) > 0:
		resp, err = h.service.GenerateDirect(c.Request.Context(), actor, releaseapp.DirectGenerateInput{
			DepartmentOffice: input.DepartmentOffice,
			RSNo:             input.RSNo,
			PartialRelease:   input.PartialRelease,
			ReceivedBy:       input.ReceivedBy,
			Items:            input.Items,
		})
	default:
		h.BadRequest(c, "Either release_request_id or items must be provided")
		return
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListReports returns generated release reports
func (h *ReleaseHandler) ListReports(c *gin.Context) {
	var filter releaseapp.ReportListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	reports, total, err := h.service.ListReports(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, reports, total, filter.Page, filter.PageSize)
}

// GetReport returns one release report
func (h *ReleaseHandler) GetReport(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.service.GetReport(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ExportReport streams one release report as an xlsx workbook
func (h *ReleaseHandler) ExportReport(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	domainReport, err := h.service.GetReportDomain(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	content, err := h.renderer.Render(domainReport)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+h.renderer.Filename(domainReport)+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}
