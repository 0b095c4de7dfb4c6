package models

import (
	"time"

	"github.com/kaizen/backend/internal/domain/workitem"
)

// WorkItemModel is the persistence model for a board card
type WorkItemModel struct {
	TeamAggregateModel
	Title       string    `gorm:"type:varchar(200);not null"`
	Category    string    `gorm:"type:varchar(100)"`
	Fields      StringMap `gorm:"type:text"`
	DateRange   string    `gorm:"type:varchar(100)"`
	ReportDraft string    `gorm:"type:text"`
	Identifier  *string   `gorm:"type:varchar(40)"`
	Status      string    `gorm:"type:varchar(20);not null;index"`
	SortOrder   int       `gorm:"not null;default:0"`
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (WorkItemModel) TableName() string {
	return "work_items"
}

// ToDomain converts the model to a domain WorkItem
func (m *WorkItemModel) ToDomain() *workitem.WorkItem {
	item := &workitem.WorkItem{
		Title:       m.Title,
		Category:    m.Category,
		Fields:      map[string]string(m.Fields),
		DateRange:   m.DateRange,
		ReportDraft: m.ReportDraft,
		Identifier:  derefString(m.Identifier),
		Status:      workitem.Status(m.Status),
		SortOrder:   m.SortOrder,
		StartedAt:   m.StartedAt,
		CompletedAt: m.CompletedAt,
	}
	if item.Fields == nil {
		item.Fields = make(map[string]string)
	}
	m.PopulateTeamAggregateRoot(&item.TeamAggregateRoot)
	return item
}

// FromDomain populates the model from a domain WorkItem
func (m *WorkItemModel) FromDomain(item *workitem.WorkItem) {
	m.FromDomainTeamAggregateRoot(item.TeamAggregateRoot)
	m.Title = item.Title
	m.Category = item.Category
	m.Fields = StringMap(item.Fields)
	m.DateRange = item.DateRange
	m.ReportDraft = item.ReportDraft
	m.Identifier = nullableString(item.Identifier)
	m.Status = item.Status.String()
	m.SortOrder = item.SortOrder
	m.StartedAt = item.StartedAt
	m.CompletedAt = item.CompletedAt
}

// WorkItemModelFromDomain creates a new persistence model from a domain WorkItem
func WorkItemModelFromDomain(item *workitem.WorkItem) *WorkItemModel {
	m := &WorkItemModel{}
	m.FromDomain(item)
	return m
}
