package workitem

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/kaizen/backend/internal/domain/shared"
)

// Status represents where a work item is on the team board
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPlanned:
		return target == StatusInProgress
	case StatusInProgress:
		return target == StatusCompleted
	case StatusCompleted:
		return target == StatusInProgress
	}
	return false
}

// Event names a lifecycle transition requested by a team member
type Event string

const (
	EventStart    Event = "start"
	EventComplete Event = "complete"
	EventReopen   Event = "reopen"
)

// ParseEvent validates an event name
func ParseEvent(s string) (Event, error) {
	switch e := Event(strings.ToLower(strings.TrimSpace(s))); e {
	case EventStart, EventComplete, EventReopen:
		return e, nil
	}
	return "", shared.NewDomainError("INVALID_EVENT", fmt.Sprintf("Unknown work item event %q", s))
}

// WorkItem is one improvement activity on a team's board.
// It is the aggregate root for board operations.
type WorkItem struct {
	shared.TeamAggregateRoot
	Title       string
	Category    string
	Fields      map[string]string
	DateRange   string // free text, e.g. "2025-07-01 ~ 2025-07-31"
	ReportDraft string // draft write-up kept on the card before a report exists
	Identifier  string // set once the item's report has been numbered
	Status      Status
	SortOrder   int
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// NewWorkItem creates a planned work item
func NewWorkItem(teamID, title, category string) (*WorkItem, error) {
	if strings.TrimSpace(teamID) == "" {
		return nil, shared.NewDomainError("INVALID_TEAM", "Team cannot be empty")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Work item title cannot be empty")
	}

	return &WorkItem{
		TeamAggregateRoot: shared.NewTeamAggregateRoot(teamID),
		Title:             title,
		Category:          strings.TrimSpace(category),
		Fields:            make(map[string]string),
		Status:            StatusPlanned,
	}, nil
}

// Apply dispatches a lifecycle event. dateRange is only read by EventStart.
func (w *WorkItem) Apply(event Event, dateRange string) error {
	switch event {
	case EventStart:
		return w.Start(dateRange)
	case EventComplete:
		return w.Complete()
	case EventReopen:
		return w.Reopen()
	}
	return shared.NewDomainError("INVALID_EVENT", fmt.Sprintf("Unknown work item event %q", event))
}

// Start moves a planned item into progress and records its activity range
func (w *WorkItem) Start(dateRange string) error {
	if err := w.checkTransition(StatusInProgress); err != nil {
		return err
	}

	from := w.Status
	now := time.Now()
	w.Status = StatusInProgress
	w.DateRange = strings.TrimSpace(dateRange)
	w.StartedAt = &now
	w.UpdatedAt = now
	w.IncrementVersion()

	w.AddDomainEvent(NewWorkItemTransitionedEvent(w, EventStart, from))

	return nil
}

// Complete moves an in-progress item to completed
func (w *WorkItem) Complete() error {
	if err := w.checkTransition(StatusCompleted); err != nil {
		return err
	}
	w.markCompleted(EventComplete)
	return nil
}

// CompleteForReport completes the item as a side effect of its report being
// finalized. Planned items skip straight to completed; completed items are
// left untouched.
func (w *WorkItem) CompleteForReport() bool {
	if w.Status == StatusCompleted {
		return false
	}
	w.markCompleted(EventComplete)
	return true
}

func (w *WorkItem) markCompleted(event Event) {
	from := w.Status
	now := time.Now()
	w.Status = StatusCompleted
	w.CompletedAt = &now
	w.UpdatedAt = now
	w.IncrementVersion()

	w.AddDomainEvent(NewWorkItemTransitionedEvent(w, event, from))
}

// Reopen moves a completed item back into progress. The previous activity
// range no longer applies and is cleared.
func (w *WorkItem) Reopen() error {
	if err := w.checkTransition(StatusInProgress); err != nil {
		return err
	}
	if w.Status != StatusCompleted {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot reopen a %s work item", w.Status))
	}

	from := w.Status
	w.Status = StatusInProgress
	w.DateRange = ""
	w.CompletedAt = nil
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	w.AddDomainEvent(NewWorkItemTransitionedEvent(w, EventReopen, from))

	return nil
}

func (w *WorkItem) checkTransition(target Status) error {
	if !w.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot transition from %s to %s", w.Status, target))
	}
	return nil
}

// AttachIdentifier records the identifier issued to the item's report.
// An identifier, once attached, never changes.
func (w *WorkItem) AttachIdentifier(identifier string) error {
	if identifier == "" {
		return shared.NewDomainError("INVALID_IDENTIFIER", "Identifier cannot be empty")
	}
	if w.Identifier == identifier {
		return nil
	}
	if w.Identifier != "" {
		return ErrIdentifierImmutable
	}
	w.Identifier = identifier
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	return nil
}

// ReleaseIdentifier detaches the identifier of a report that was archived
// while the item stays on the board. The identifier itself is never reissued.
func (w *WorkItem) ReleaseIdentifier(identifier string) bool {
	if identifier == "" || w.Identifier != identifier {
		return false
	}
	w.Identifier = ""
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	return true
}

// HasIdentifier reports whether the item's report has been numbered
func (w *WorkItem) HasIdentifier() bool {
	return w.Identifier != ""
}

// Update edits the descriptive fields of the item
func (w *WorkItem) Update(title, category string, fields map[string]string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Work item title cannot be empty")
	}

	w.Title = title
	w.Category = strings.TrimSpace(category)
	w.Fields = copyFields(fields)
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	return nil
}

// SetReportDraft keeps a draft write-up on the card
func (w *WorkItem) SetReportDraft(draft string) {
	w.ReportDraft = draft
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

func copyFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	maps.Copy(out, fields)
	return out
}
