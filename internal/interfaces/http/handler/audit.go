package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kaizen/backend/internal/application/lifecycle"
)

// AuditHandler serves the team's audit history
type AuditHandler struct {
	BaseHandler
	service *lifecycle.LifecycleService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(service *lifecycle.LifecycleService) *AuditHandler {
	return &AuditHandler{service: service}
}

// Baseline godoc
// @Summary      Latest audit score and its change
// @Tags         audit
// @Produce      json
// @Param        team  path  string  true  "Team code"
// @Success      200 {object} APIResponse[lifecycle.BaselineResponse]
// @Router       /teams/{team}/audit/baseline [get]
func (h *AuditHandler) Baseline(c *gin.Context) {
	baseline, err := h.service.AuditBaseline(c.Request.Context(), team(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, baseline)
}
