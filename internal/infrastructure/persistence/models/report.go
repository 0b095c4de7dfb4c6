package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/kaizen/backend/internal/domain/report"
)

// ReportModel is the persistence model for a report. The unique index on
// work_item_id keeps one report per work item; the unique index on
// identifier keeps identifiers unique across live reports.
type ReportModel struct {
	TeamAggregateModel
	WorkItemID    *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_reports_work_item"`
	Status        string     `gorm:"type:varchar(20);not null;index"`
	Identifier    *string    `gorm:"type:varchar(40);uniqueIndex:uq_reports_identifier"`
	Title         string     `gorm:"type:varchar(200)"`
	Category      string     `gorm:"type:varchar(100)"`
	Summary       string     `gorm:"type:text"`
	Before        string     `gorm:"column:before_text;type:text"`
	After         string     `gorm:"column:after_text;type:text"`
	Effect        string     `gorm:"type:text"`
	ActivityRange string     `gorm:"type:varchar(100)"`
	Fields        StringMap  `gorm:"type:text"`
	FinalizedAt   *time.Time
}

// TableName returns the table name for GORM
func (ReportModel) TableName() string {
	return "reports"
}

// ToDomain converts the model to a domain Report
func (m *ReportModel) ToDomain() *report.Report {
	r := &report.Report{
		WorkItemID:  m.WorkItemID,
		Status:      report.Status(m.Status),
		Identifier:  derefString(m.Identifier),
		Content:     contentFromColumns(m.Title, m.Category, m.Summary, m.Before, m.After, m.Effect, m.ActivityRange, m.Fields),
		FinalizedAt: m.FinalizedAt,
	}
	m.PopulateTeamAggregateRoot(&r.TeamAggregateRoot)
	return r
}

// FromDomain populates the model from a domain Report
func (m *ReportModel) FromDomain(r *report.Report) {
	m.FromDomainTeamAggregateRoot(r.TeamAggregateRoot)
	m.WorkItemID = r.WorkItemID
	m.Status = r.Status.String()
	m.Identifier = nullableString(r.Identifier)
	m.Title = r.Content.Title
	m.Category = r.Content.Category
	m.Summary = r.Content.Summary
	m.Before = r.Content.Before
	m.After = r.Content.After
	m.Effect = r.Content.Effect
	m.ActivityRange = r.Content.ActivityRange
	m.Fields = StringMap(r.Content.Fields)
	m.FinalizedAt = r.FinalizedAt
}

// ReportModelFromDomain creates a new persistence model from a domain Report
func ReportModelFromDomain(r *report.Report) *ReportModel {
	m := &ReportModel{}
	m.FromDomain(r)
	return m
}

// ArchivedReportModel keeps numbered reports that were removed from the live tables
type ArchivedReportModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key"`
	ReportID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	TeamID            string     `gorm:"type:varchar(16);not null;index"`
	WorkItemID        *uuid.UUID `gorm:"type:uuid"`
	Identifier        string     `gorm:"type:varchar(40);not null;index"`
	Status            string     `gorm:"type:varchar(20);not null"`
	Title             string     `gorm:"type:varchar(200)"`
	Category          string     `gorm:"type:varchar(100)"`
	Summary           string     `gorm:"type:text"`
	Before            string     `gorm:"column:before_text;type:text"`
	After             string     `gorm:"column:after_text;type:text"`
	Effect            string     `gorm:"type:text"`
	ActivityRange     string     `gorm:"type:varchar(100)"`
	Fields            StringMap  `gorm:"type:text"`
	Reason            string     `gorm:"type:varchar(40);not null"`
	FinalizedAt       *time.Time
	OriginalCreatedAt time.Time `gorm:"not null"`
	ArchivedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ArchivedReportModel) TableName() string {
	return "archived_reports"
}

// ToDomain converts the model to a domain ArchivedReport
func (m *ArchivedReportModel) ToDomain() *report.ArchivedReport {
	return &report.ArchivedReport{
		ID:                m.ID,
		ReportID:          m.ReportID,
		TeamID:            m.TeamID,
		WorkItemID:        m.WorkItemID,
		Identifier:        m.Identifier,
		Status:            report.Status(m.Status),
		Content:           contentFromColumns(m.Title, m.Category, m.Summary, m.Before, m.After, m.Effect, m.ActivityRange, m.Fields),
		Reason:            report.ArchiveReason(m.Reason),
		FinalizedAt:       m.FinalizedAt,
		OriginalCreatedAt: m.OriginalCreatedAt,
		ArchivedAt:        m.ArchivedAt,
	}
}

// ArchivedReportModelFromDomain creates a persistence model from a domain ArchivedReport
func ArchivedReportModelFromDomain(a *report.ArchivedReport) *ArchivedReportModel {
	return &ArchivedReportModel{
		ID:                a.ID,
		ReportID:          a.ReportID,
		TeamID:            a.TeamID,
		WorkItemID:        a.WorkItemID,
		Identifier:        a.Identifier,
		Status:            a.Status.String(),
		Title:             a.Content.Title,
		Category:          a.Content.Category,
		Summary:           a.Content.Summary,
		Before:            a.Content.Before,
		After:             a.Content.After,
		Effect:            a.Content.Effect,
		ActivityRange:     a.Content.ActivityRange,
		Fields:            StringMap(a.Content.Fields),
		Reason:            string(a.Reason),
		FinalizedAt:       a.FinalizedAt,
		OriginalCreatedAt: a.OriginalCreatedAt,
		ArchivedAt:        a.ArchivedAt,
	}
}

func contentFromColumns(title, category, summary, before, after, effect, activityRange string, fields StringMap) report.Content {
	f := map[string]string(fields)
	if f == nil {
		f = make(map[string]string)
	}
	return report.Content{
		Title:         title,
		Category:      category,
		Summary:       summary,
		Before:        before,
		After:         after,
		Effect:        effect,
		ActivityRange: activityRange,
		Fields:        f,
	}
}
