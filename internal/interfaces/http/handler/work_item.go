package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kaizen/backend/internal/application/lifecycle"
)

// WorkItemHandler serves the team board
type WorkItemHandler struct {
	BaseHandler
	service *lifecycle.LifecycleService
}

// NewWorkItemHandler creates a new WorkItemHandler
func NewWorkItemHandler(service *lifecycle.LifecycleService) *WorkItemHandler {
	return &WorkItemHandler{service: service}
}

// List godoc
// @Summary      List the team board
// @Tags         work-items
// @Produce      json
// @Param        team       path   string  true   "Team code"
// @Param        status     query  string  false  "planned, in_progress or completed"
// @Param        page       query  int     false  "Page"
// @Param        page_size  query  int     false  "Page size"
// @Success      200 {object} APIResponse[[]lifecycle.WorkItemResponse]
// @Router       /teams/{team}/work-items [get]
func (h *WorkItemHandler) List(c *gin.Context) {
	var filter lifecycle.WorkItemListFilter
	if !bindQuery(c, &filter) {
		return
	}
	page, err := h.service.ListWorkItems(c.Request.Context(), team(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Create godoc
// @Summary      Add a card to the board
// @Tags         work-items
// @Accept       json
// @Produce      json
// @Param        team     path  string                           true  "Team code"
// @Param        request  body  lifecycle.CreateWorkItemRequest  true  "Card"
// @Success      201 {object} APIResponse[lifecycle.WorkItemResponse]
// @Router       /teams/{team}/work-items [post]
func (h *WorkItemHandler) Create(c *gin.Context) {
	var req lifecycle.CreateWorkItemRequest
	if !bind(c, &req) {
		return
	}
	item, err := h.service.CreateWorkItem(c.Request.Context(), team(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Get returns one card
func (h *WorkItemHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.service.GetWorkItem(c.Request.Context(), team(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Update edits a card's title, category and fields
func (h *WorkItemHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req lifecycle.UpdateWorkItemRequest
	if !bind(c, &req) {
		return
	}
	item, err := h.service.UpdateWorkItem(c.Request.Context(), team(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Transition godoc
// @Summary      Start, complete or reopen a card
// @Tags         work-items
// @Accept       json
// @Produce      json
// @Param        team     path  string                       true  "Team code"
// @Param        id       path  string                       true  "Work item ID"
// @Param        request  body  lifecycle.TransitionRequest  true  "Event"
// @Success      200 {object} APIResponse[lifecycle.WorkItemResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /teams/{team}/work-items/{id}/transition [post]
func (h *WorkItemHandler) Transition(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req lifecycle.TransitionRequest
	if !bind(c, &req) {
		return
	}
	item, err := h.service.Transition(c.Request.Context(), team(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete removes a card. A numbered report attached to it is archived.
func (h *WorkItemHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteWorkItem(c.Request.Context(), team(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Report returns the report attached to a card
func (h *WorkItemHandler) Report(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	rep, err := h.service.GetReportForWorkItem(c.Request.Context(), team(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}

// Sync godoc
// @Summary      Replace the team board
// @Description  Applies the difference between the stored board and the submitted one in a single transaction.
// @Tags         work-items
// @Accept       json
// @Produce      json
// @Param        team     path  string                      true  "Team code"
// @Param        request  body  lifecycle.SyncTasksRequest  true  "Full board"
// @Success      200 {object} APIResponse[lifecycle.SyncResult]
// @Failure      503 {object} ErrorResponse
// @Router       /teams/{team}/work-items [put]
func (h *WorkItemHandler) Sync(c *gin.Context) {
	var req lifecycle.SyncTasksRequest
	if !bind(c, &req) {
		return
	}
	result, err := h.service.SyncTeamTasks(c.Request.Context(), team(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
