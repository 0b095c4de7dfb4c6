package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kaizen/backend/internal/interfaces/http/handler"
	"github.com/kaizen/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the HTTP handlers mounted by Mount
type Handlers struct {
	System    *handler.SystemHandler
	Counters  *handler.CounterHandler
	WorkItems *handler.WorkItemHandler
	Reports   *handler.ReportHandler
	Audit     *handler.AuditHandler
}

// TeamRoutes builds the /teams/:team tree. Every route below it is scoped to
// one team and rejected when the team code is malformed.
func TeamRoutes(h Handlers) *DomainGroup {
	teams := NewDomainGroup("team", "/teams/:team").Use(middleware.TeamScope())

	teams.Group("counters", "/counters").
		GET("", h.Counters.Peek).
		POST("/allocate", h.Counters.Allocate).
		POST("/seed", h.Counters.Seed)

	teams.Group("work-items", "/work-items").
		GET("", h.WorkItems.List).
		POST("", h.WorkItems.Create).
		PUT("", h.WorkItems.Sync).
		GET("/:id", h.WorkItems.Get).
		PUT("/:id", h.WorkItems.Update).
		DELETE("/:id", h.WorkItems.Delete).
		POST("/:id/transition", h.WorkItems.Transition).
		GET("/:id/report", h.WorkItems.Report)

	teams.Group("reports", "/reports").
		GET("", h.Reports.List).
		PUT("/draft", h.Reports.SaveDraft).
		GET("/archived", h.Reports.Archived).
		GET("/by-identifier/:identifier", h.Reports.ByIdentifier).
		GET("/:id", h.Reports.Get).
		DELETE("/:id", h.Reports.Delete).
		POST("/:id/finalize", h.Reports.Finalize).
		POST("/:id/reopen", h.Reports.Reopen).
		POST("/:id/discard", h.Reports.Discard)

	teams.Group("audit", "/audit").
		GET("/baseline", h.Audit.Baseline)

	return teams
}

// Mount registers the health check and the versioned API on engine
func Mount(engine *gin.Engine, h Handlers) {
	engine.GET("/health", h.System.Health)

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(NewDomainGroup("system", "/system").GET("/info", h.System.GetSystemInfo))
	r.Register(TeamRoutes(h))
	r.Setup()
}
