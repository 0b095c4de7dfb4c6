package workitem

import (
	"github.com/google/uuid"
	"github.com/kaizen/backend/internal/domain/shared"
)

// Aggregate type constant for WorkItem
const AggregateTypeWorkItem = "WorkItem"

// WorkItem event type constants
const (
	EventTypeWorkItemTransitioned = "WorkItemTransitioned"
	EventTypeTeamTasksSynced      = "TeamTasksSynced"
)

// WorkItemTransitionedEvent is raised whenever an item changes status
type WorkItemTransitionedEvent struct {
	shared.BaseDomainEvent
	WorkItemID uuid.UUID `json:"work_item_id"`
	Event      string    `json:"event"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	DateRange  string    `json:"date_range,omitempty"`
}

// NewWorkItemTransitionedEvent creates a new WorkItemTransitionedEvent
func NewWorkItemTransitionedEvent(w *WorkItem, event Event, from Status) *WorkItemTransitionedEvent {
	return &WorkItemTransitionedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkItemTransitioned, AggregateTypeWorkItem, w.ID, w.TeamID),
		WorkItemID:      w.ID,
		Event:           string(event),
		From:            from.String(),
		To:              w.Status.String(),
		DateRange:       w.DateRange,
	}
}

// TeamTasksSyncedEvent is raised after a board sync commits
type TeamTasksSyncedEvent struct {
	shared.BaseDomainEvent
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Deleted   int `json:"deleted"`
	Unchanged int `json:"unchanged"`
	Archived  int `json:"archived"`
}

// teamNamespace scopes the deterministic aggregate ids of team boards
var teamNamespace = uuid.MustParse("a4e3d2c1-0b9f-4e8d-8c7b-6a5f4e3d2c1b")

// NewTeamTasksSyncedEvent creates a new TeamTasksSyncedEvent
func NewTeamTasksSyncedEvent(teamID string, plan SyncPlan, archived int) *TeamTasksSyncedEvent {
	return &TeamTasksSyncedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTeamTasksSynced, AggregateTypeWorkItem, uuid.NewSHA1(teamNamespace, []byte(teamID)), teamID),
		Created:         len(plan.Create),
		Updated:         len(plan.Update),
		Deleted:         len(plan.Delete),
		Unchanged:       plan.Unchanged,
		Archived:        archived,
	}
}
