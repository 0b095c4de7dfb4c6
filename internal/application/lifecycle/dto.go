package lifecycle

import (
	"time"

	"github.com/google/uuid"
	"github.com/kaizen/backend/internal/domain/audit"
	"github.com/kaizen/backend/internal/domain/report"
	"github.com/kaizen/backend/internal/domain/workitem"
	"github.com/shopspring/decimal"
)

// CreateWorkItemRequest represents a request to add a card to the board
type CreateWorkItemRequest struct {
	Title     string            `json:"title" binding:"required,max=200"`
	Category  string            `json:"category" binding:"max=100"`
	Fields    map[string]string `json:"fields"`
	SortOrder int               `json:"sort_order"`
}

// UpdateWorkItemRequest represents a request to edit a card
type UpdateWorkItemRequest struct {
	Title       string            `json:"title" binding:"required,max=200"`
	Category    string            `json:"category" binding:"max=100"`
	Fields      map[string]string `json:"fields"`
	ReportDraft *string           `json:"report_draft"`
	Version     int               `json:"version" binding:"required,min=1"`
}

// TransitionRequest moves a card through its lifecycle. Version is the
// version the client last saw; zero skips the client-side check.
type TransitionRequest struct {
	Event     string `json:"event" binding:"required,oneof=start complete reopen"`
	DateRange string `json:"date_range" binding:"max=100"`
	Version   int    `json:"version" binding:"min=0"`
}

// WorkItemListFilter represents filter options for the board
type WorkItemListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=planned in_progress completed"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// WorkItemResponse represents a card in API responses
type WorkItemResponse struct {
	ID          uuid.UUID         `json:"id"`
	TeamID      string            `json:"team_id"`
	Title       string            `json:"title"`
	Category    string            `json:"category"`
	Fields      map[string]string `json:"fields"`
	DateRange   string            `json:"date_range,omitempty"`
	ReportDraft string            `json:"report_draft,omitempty"`
	Identifier  string            `json:"identifier,omitempty"`
	Status      string            `json:"status"`
	SortOrder   int               `json:"sort_order"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Version     int               `json:"version"`
}

// BoardEntryRequest is one card of a full-board sync. Version is the card's
// version as last read by the client and is required to change an existing card.
type BoardEntryRequest struct {
	ID          *uuid.UUID        `json:"id"`
	Version     int               `json:"version" binding:"min=0"`
	Title       string            `json:"title" binding:"required,max=200"`
	Category    string            `json:"category" binding:"max=100"`
	Status      string            `json:"status" binding:"required,oneof=planned in_progress completed"`
	DateRange   string            `json:"date_range" binding:"max=100"`
	ReportDraft string            `json:"report_draft"`
	Fields      map[string]string `json:"fields"`
	SortOrder   int               `json:"sort_order"`
}

// SyncTasksRequest replaces the team's board with Items
type SyncTasksRequest struct {
	Items []BoardEntryRequest `json:"items" binding:"dive"`
}

// SyncResult summarises a board sync
type SyncResult struct {
	Created   int                `json:"created"`
	Updated   int                `json:"updated"`
	Deleted   int                `json:"deleted"`
	Unchanged int                `json:"unchanged"`
	Archived  int                `json:"archived"`
	Items     []WorkItemResponse `json:"items"`
}

// ReportContentInput is the editable part of a report
type ReportContentInput struct {
	Title         string            `json:"title" binding:"max=200"`
	Category      string            `json:"category" binding:"max=100"`
	Summary       string            `json:"summary"`
	Before        string            `json:"before"`
	After         string            `json:"after"`
	Effect        string            `json:"effect"`
	ActivityRange string            `json:"activity_range" binding:"max=100"`
	Fields        map[string]string `json:"fields"`
}

// SaveReportRequest upserts a draft. ReportID addresses an existing report;
// otherwise WorkItemID is the key and a nil WorkItemID creates a stand-alone
// report.
type SaveReportRequest struct {
	ReportID   *uuid.UUID         `json:"report_id"`
	WorkItemID *uuid.UUID         `json:"work_item_id"`
	Version    int                `json:"version" binding:"min=0"`
	Content    ReportContentInput `json:"content"`
}

// FinalizeRequest optionally saves the latest content before numbering
type FinalizeRequest struct {
	Content *ReportContentInput `json:"content"`
	Version int                 `json:"version" binding:"min=0"`
}

// ReportListFilter represents filter options for reports
type ReportListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=draft final"`
	Standalone *bool  `form:"standalone"`
	Search     string `form:"search"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=200"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ReportResponse represents a report in API responses
type ReportResponse struct {
	ID          uuid.UUID          `json:"id"`
	TeamID      string             `json:"team_id"`
	WorkItemID  *uuid.UUID         `json:"work_item_id,omitempty"`
	Status      string             `json:"status"`
	Identifier  string             `json:"identifier,omitempty"`
	Content     ReportContentInput `json:"content"`
	FinalizedAt *time.Time         `json:"finalized_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Version     int                `json:"version"`
}

// ArchivedReportResponse represents an archived report
type ArchivedReportResponse struct {
	ID          uuid.UUID          `json:"id"`
	ReportID    uuid.UUID          `json:"report_id"`
	WorkItemID  *uuid.UUID         `json:"work_item_id,omitempty"`
	Identifier  string             `json:"identifier"`
	Status      string             `json:"status"`
	Content     ReportContentInput `json:"content"`
	Reason      string             `json:"reason"`
	FinalizedAt *time.Time         `json:"finalized_at,omitempty"`
	ArchivedAt  time.Time          `json:"archived_at"`
}

// PendingBootstrap tells the client the counter needs a starting value
// before the report can be numbered. The draft has already been saved.
type PendingBootstrap struct {
	Team   string `json:"team"`
	Period string `json:"period"`
}

// FinalizeResult is the outcome of finalizing a report
type FinalizeResult struct {
	Report           ReportResponse    `json:"report"`
	WorkItem         *WorkItemResponse `json:"work_item,omitempty"`
	PendingBootstrap *PendingBootstrap `json:"pending_bootstrap,omitempty"`
	// AlreadyFinal is set when the report was final before the call
	AlreadyFinal bool              `json:"already_final"`
	Baseline     *BaselineResponse `json:"audit_baseline,omitempty"`
}

// AuditRecordResponse represents an audit record
type AuditRecordResponse struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Evaluator   string          `json:"evaluator,omitempty"`
	Score       decimal.Decimal `json:"score"`
	EvaluatedAt time.Time       `json:"evaluated_at"`
}

// BaselineResponse summarises the team's audit history
type BaselineResponse struct {
	TeamID   string               `json:"team_id"`
	IsFirst  bool                 `json:"is_first"`
	Latest   *AuditRecordResponse `json:"latest,omitempty"`
	Previous *AuditRecordResponse `json:"previous,omitempty"`
	Delta    *decimal.Decimal     `json:"delta,omitempty"`
}

// ToWorkItemResponse converts a domain WorkItem to a response
func ToWorkItemResponse(w *workitem.WorkItem) WorkItemResponse {
	return WorkItemResponse{
		ID:          w.ID,
		TeamID:      w.TeamID,
		Title:       w.Title,
		Category:    w.Category,
		Fields:      w.Fields,
		DateRange:   w.DateRange,
		ReportDraft: w.ReportDraft,
		Identifier:  w.Identifier,
		Status:      w.Status.String(),
		SortOrder:   w.SortOrder,
		StartedAt:   w.StartedAt,
		CompletedAt: w.CompletedAt,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
		Version:     w.Version,
	}
}

// ToWorkItemResponses converts a slice of work items
func ToWorkItemResponses(items []workitem.WorkItem) []WorkItemResponse {
	out := make([]WorkItemResponse, len(items))
	for i := range items {
		out[i] = ToWorkItemResponse(&items[i])
	}
	return out
}

// ToReportResponse converts a domain Report to a response
func ToReportResponse(r *report.Report) ReportResponse {
	return ReportResponse{
		ID:          r.ID,
		TeamID:      r.TeamID,
		WorkItemID:  r.WorkItemID,
		Status:      r.Status.String(),
		Identifier:  r.Identifier,
		Content:     toContentInput(r.Content),
		FinalizedAt: r.FinalizedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Version:     r.Version,
	}
}

// ToArchivedReportResponse converts a domain ArchivedReport to a response
func ToArchivedReportResponse(a *report.ArchivedReport) ArchivedReportResponse {
	return ArchivedReportResponse{
		ID:          a.ID,
		ReportID:    a.ReportID,
		WorkItemID:  a.WorkItemID,
		Identifier:  a.Identifier,
		Status:      a.Status.String(),
		Content:     toContentInput(a.Content),
		Reason:      string(a.Reason),
		FinalizedAt: a.FinalizedAt,
		ArchivedAt:  a.ArchivedAt,
	}
}

// ToBaselineResponse converts an audit baseline to a response
func ToBaselineResponse(b audit.Baseline) *BaselineResponse {
	resp := &BaselineResponse{
		TeamID:   b.TeamID,
		IsFirst:  b.IsFirst,
		Latest:   toAuditRecordResponse(b.Latest),
		Previous: toAuditRecordResponse(b.Previous),
	}
	if b.HasDelta {
		delta := b.Delta
		resp.Delta = &delta
	}
	return resp
}

func toAuditRecordResponse(r *audit.Record) *AuditRecordResponse {
	if r == nil {
		return nil
	}
	return &AuditRecordResponse{
		ID:          r.ID,
		Title:       r.Title,
		Evaluator:   r.Evaluator,
		Score:       r.Score,
		EvaluatedAt: r.EvaluatedAt,
	}
}

func toContentInput(c report.Content) ReportContentInput {
	return ReportContentInput{
		Title:         c.Title,
		Category:      c.Category,
		Summary:       c.Summary,
		Before:        c.Before,
		After:         c.After,
		Effect:        c.Effect,
		ActivityRange: c.ActivityRange,
		Fields:        c.Fields,
	}
}

func (in ReportContentInput) toDomain() report.Content {
	return report.Content{
		Title:         in.Title,
		Category:      in.Category,
		Summary:       in.Summary,
		Before:        in.Before,
		After:         in.After,
		Effect:        in.Effect,
		ActivityRange: in.ActivityRange,
		Fields:        in.Fields,
	}
}
