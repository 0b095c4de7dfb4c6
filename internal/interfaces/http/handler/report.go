package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kaizen/backend/internal/application/lifecycle"
)

// ReportHandler serves improvement reports
type ReportHandler struct {
	BaseHandler
	service *lifecycle.LifecycleService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *lifecycle.LifecycleService) *ReportHandler {
	return &ReportHandler{service: service}
}

// ReopenRequest carries the version the client last saw
type ReopenRequest struct {
	Version int `json:"version" binding:"min=0"`
}

// List godoc
// @Summary      List reports
// @Tags         reports
// @Produce      json
// @Param        team        path   string  true   "Team code"
// @Param        status      query  string  false  "draft or final"
// @Param        standalone  query  bool    false  "Only reports without a work item"
// @Success      200 {object} APIResponse[[]lifecycle.ReportResponse]
// @Router       /teams/{team}/reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	var filter lifecycle.ReportListFilter
	if !bindQuery(c, &filter) {
		return
	}
	page, err := h.service.ListReports(c.Request.Context(), team(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Archived lists reports removed from the live set
func (h *ReportHandler) Archived(c *gin.Context) {
	var filter lifecycle.ReportListFilter
	if !bindQuery(c, &filter) {
		return
	}
	page, err := h.service.ListArchivedReports(c.Request.Context(), team(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one report
func (h *ReportHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	rep, err := h.service.GetReport(c.Request.Context(), team(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}

// ByIdentifier godoc
// @Summary      Find a report by identifier
// @Tags         reports
// @Produce      json
// @Param        team        path  string  true  "Team code"
// @Param        identifier  path  string  true  "Identifier, e.g. GR-2507-0360"
// @Success      200  {object}  APIResponse[lifecycle.ReportResponse]
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /teams/{team}/reports/by-identifier/{identifier} [get]
func (h *ReportHandler) ByIdentifier(c *gin.Context) {
	rep, err := h.service.GetReportByIdentifier(c.Request.Context(), team(c), c.Param("identifier"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}

// SaveDraft godoc
// @Summary      Create or update a draft
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        team     path  string                       true  "Team code"
// @Param        request  body  lifecycle.SaveReportRequest  true  "Draft"
// @Success      200 {object} APIResponse[lifecycle.ReportResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /teams/{team}/reports/draft [put]
func (h *ReportHandler) SaveDraft(c *gin.Context) {
	var req lifecycle.SaveReportRequest
	if !bind(c, &req) {
		return
	}
	rep, err := h.service.SaveDraft(c.Request.Context(), team(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}

// Finalize godoc
// @Summary      Finalize a report and assign its identifier
// @Description  Returns 202 with pending_bootstrap when the team's counter for the period has not been seeded.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        team     path  string                     true  "Team code"
// @Param        id       path  string                     true  "Report ID"
// @Param        request  body  lifecycle.FinalizeRequest  false "Latest content"
// @Success      200 {object} APIResponse[lifecycle.FinalizeResult]
// @Success      202 {object} APIResponse[lifecycle.FinalizeResult]
// @Failure      422 {object} ErrorResponse
// @Router       /teams/{team}/reports/{id}/finalize [post]
func (h *ReportHandler) Finalize(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req lifecycle.FinalizeRequest
	if c.Request.ContentLength != 0 && !bind(c, &req) {
		return
	}
	result, err := h.service.Finalize(c.Request.Context(), team(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.PendingBootstrap != nil {
		h.Accepted(c, result)
		return
	}
	h.Success(c, result)
}

// Reopen turns a final report back into a draft. The identifier stays.
func (h *ReportHandler) Reopen(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req ReopenRequest
	if c.Request.ContentLength != 0 && !bind(c, &req) {
		return
	}
	rep, err := h.service.ReopenReport(c.Request.Context(), team(c), id, req.Version)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}

// Discard drops a draft. Final reports are refused.
func (h *ReportHandler) Discard(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DiscardDraft(c.Request.Context(), team(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete removes a report, archiving it first when it carries an identifier
func (h *ReportHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteReport(c.Request.Context(), team(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
