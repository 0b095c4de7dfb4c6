package report

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kaizen/backend/internal/domain/numbering"
	"github.com/kaizen/backend/internal/domain/shared"
)

// Status represents the lifecycle state of a report
type Status string

const (
	StatusDraft Status = "draft"
	StatusFinal Status = "final"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	return s == StatusDraft || s == StatusFinal
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Content is the write-up itself
type Content struct {
	Title         string
	Category      string
	Summary       string
	Before        string
	After         string
	Effect        string
	ActivityRange string // free text; its end date decides the numbering period
	Fields        map[string]string
}

// Validate checks the content is meaningful enough to be numbered
func (c Content) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrIncompleteReport
	}
	return nil
}

func (c Content) normalized() Content {
	c.Title = strings.TrimSpace(c.Title)
	c.Category = strings.TrimSpace(c.Category)
	c.ActivityRange = strings.TrimSpace(c.ActivityRange)
	fields := make(map[string]string, len(c.Fields))
	maps.Copy(fields, c.Fields)
	c.Fields = fields
	return c
}

// Report is the durable write-up of a work item, or a stand-alone write-up
// when WorkItemID is nil. It is the aggregate root for report operations.
type Report struct {
	shared.TeamAggregateRoot
	WorkItemID  *uuid.UUID
	Status      Status
	Identifier  string
	Content     Content
	FinalizedAt *time.Time
}

// NewDraft creates a draft report
func NewDraft(teamID string, workItemID *uuid.UUID, content Content) (*Report, error) {
	if strings.TrimSpace(teamID) == "" {
		return nil, shared.NewDomainError("INVALID_TEAM", "Team cannot be empty")
	}
	if workItemID != nil && *workItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WORK_ITEM", "Work item ID cannot be empty")
	}

	return &Report{
		TeamAggregateRoot: shared.NewTeamAggregateRoot(teamID),
		WorkItemID:        workItemID,
		Status:            StatusDraft,
		Content:           content.normalized(),
	}, nil
}

// IsStandalone reports whether the report has no owning work item
func (r *Report) IsStandalone() bool {
	return r.WorkItemID == nil
}

// HasIdentifier reports whether the report has ever been numbered
func (r *Report) HasIdentifier() bool {
	return r.Identifier != ""
}

// IsFinal reports whether the report is finalized
func (r *Report) IsFinal() bool {
	return r.Status == StatusFinal
}

// UpdateContent replaces the draft content. Final reports must be reopened
// before they can be corrected.
func (r *Report) UpdateContent(content Content) error {
	if r.Status != StatusDraft {
		return ErrReportFinal
	}
	r.Content = content.normalized()
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// Finalize attaches the identifier and freezes the report. A report that was
// numbered before keeps its identifier; passing a different one fails.
func (r *Report) Finalize(id numbering.Identifier) error {
	if r.Status == StatusFinal {
		return shared.NewDomainError("INVALID_TRANSITION", "Report is already final")
	}
	if err := r.Content.Validate(); err != nil {
		return err
	}
	if id.IsZero() {
		return shared.NewDomainError("INVALID_IDENTIFIER", "Identifier cannot be empty")
	}
	if string(id.Team) != r.TeamID {
		return shared.NewDomainError("INVALID_IDENTIFIER", fmt.Sprintf("Identifier %s does not belong to team %s", id, r.TeamID))
	}
	if r.HasIdentifier() && r.Identifier != id.String() {
		return ErrIdentifierImmutable
	}

	now := time.Now()
	r.Identifier = id.String()
	r.Status = StatusFinal
	r.FinalizedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReportFinalizedEvent(r))

	return nil
}

// Reopen returns a final report to draft for correction. The identifier is kept.
func (r *Report) Reopen() error {
	if r.Status != StatusFinal {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot reopen a %s report", r.Status))
	}

	r.Status = StatusDraft
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewReportReopenedEvent(r))

	return nil
}

// CanDiscard reports whether the report may be dropped without archiving
func (r *Report) CanDiscard() bool {
	return r.Status == StatusDraft && !r.HasIdentifier()
}

// ExistingIdentifier returns the identifier the report already holds
func (r *Report) ExistingIdentifier() (numbering.Identifier, bool, error) {
	if !r.HasIdentifier() {
		return numbering.Identifier{}, false, nil
	}
	id, err := numbering.ParseIdentifier(r.Identifier)
	if err != nil {
		return numbering.Identifier{}, false, err
	}
	return id, true, nil
}
