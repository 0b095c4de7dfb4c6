package handler

import (
	"github.com/gin-gonic/gin"
	appnumbering "github.com/kaizen/backend/internal/application/numbering"
)

// CounterHandler exposes the per-team identifier counters
type CounterHandler struct {
	BaseHandler
	allocator *appnumbering.AllocatorService
}

// NewCounterHandler creates a new CounterHandler
func NewCounterHandler(allocator *appnumbering.AllocatorService) *CounterHandler {
	return &CounterHandler{allocator: allocator}
}

// PeekQuery selects the period to inspect; empty means the current month
type PeekQuery struct {
	Period string `form:"period" binding:"omitempty,period_key"`
}

// Peek godoc
// @Summary      Show the next identifier without consuming it
// @Tags         counters
// @Produce      json
// @Param        team    path   string  true   "Team code"
// @Param        period  query  string  false  "Period (YYMM)"
// @Success      200 {object} APIResponse[appnumbering.CounterResponse]
// @Router       /teams/{team}/counters [get]
func (h *CounterHandler) Peek(c *gin.Context) {
	var q PeekQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.allocator.Peek(c.Request.Context(), team(c), q.Period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Allocate godoc
// @Summary      Issue the next identifier
// @Description  Consumes one sequence value. Fails with ERR_BOOTSTRAP_REQUIRED until the counter is seeded.
// @Tags         counters
// @Accept       json
// @Produce      json
// @Param        team     path  string                        true  "Team code"
// @Param        request  body  appnumbering.AllocateRequest  true  "Period selection"
// @Success      201 {object} APIResponse[appnumbering.IdentifierResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /teams/{team}/counters/allocate [post]
func (h *CounterHandler) Allocate(c *gin.Context) {
	var req appnumbering.AllocateRequest
	if !bind(c, &req) {
		return
	}
	resp, err := h.allocator.AllocateForTeam(c.Request.Context(), team(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Seed godoc
// @Summary      Bootstrap a counter
// @Description  Stores the sequence of the given TEAM-YYMM-NNNN as the next value to issue.
// @Tags         counters
// @Accept       json
// @Produce      json
// @Param        team     path  string                    true  "Team code"
// @Param        request  body  appnumbering.SeedRequest  true  "Seed"
// @Success      201 {object} APIResponse[appnumbering.CounterResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /teams/{team}/counters/seed [post]
func (h *CounterHandler) Seed(c *gin.Context) {
	var req appnumbering.SeedRequest
	if !bind(c, &req) {
		return
	}
	resp, err := h.allocator.Seed(c.Request.Context(), team(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
