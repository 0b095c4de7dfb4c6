package persistence

import (
	"context"

	"github.com/kaizen/backend/internal/domain/audit"
	"github.com/kaizen/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditRepository implements audit.Repository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// LatestForTeam returns up to limit records, newest first
func (r *GormAuditRepository) LatestForTeam(ctx context.Context, teamID string, limit int) ([]audit.Record, error) {
	if limit <= 0 {
		limit = 2
	}
	var rows []models.AuditRecordModel
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("evaluated_at DESC").Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]audit.Record, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records, nil
}

// CountForTeam counts the team's records
func (r *GormAuditRepository) CountForTeam(ctx context.Context, teamID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AuditRecordModel{}).Where("team_id = ?", teamID).Count(&count).Error
	return count, err
}

// Ensure GormAuditRepository implements audit.Repository
var _ audit.Repository = (*GormAuditRepository)(nil)
