package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/kaizen/backend/internal/domain/audit"
	"github.com/shopspring/decimal"
)

// AuditRecordModel is the persistence model for a team evaluation
type AuditRecordModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	TeamID      string          `gorm:"type:varchar(16);not null;index:idx_audit_team_evaluated,priority:1"`
	Title       string          `gorm:"type:varchar(200);not null"`
	Evaluator   string          `gorm:"type:varchar(100)"`
	Score       decimal.Decimal `gorm:"type:decimal(7,2);not null"`
	Notes       string          `gorm:"type:text"`
	EvaluatedAt time.Time       `gorm:"not null;index:idx_audit_team_evaluated,priority:2"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AuditRecordModel) TableName() string {
	return "audit_records"
}

// ToDomain converts the model to a domain Record
func (m *AuditRecordModel) ToDomain() audit.Record {
	return audit.Record{
		ID:          m.ID,
		TeamID:      m.TeamID,
		Title:       m.Title,
		Evaluator:   m.Evaluator,
		Score:       m.Score,
		Notes:       m.Notes,
		EvaluatedAt: m.EvaluatedAt,
		CreatedAt:   m.CreatedAt,
	}
}
