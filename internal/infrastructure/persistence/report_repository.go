package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kaizen/backend/internal/domain/report"
	"github.com/kaizen/backend/internal/domain/shared"
	"github.com/kaizen/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// FindByID finds a report within a team
func (r *GormReportRepository) FindByID(ctx context.Context, teamID string, id uuid.UUID) (*report.Report, error) {
	return r.findOne(r.db.WithContext(ctx).Where("team_id = ? AND id = ?", teamID, id))
}

// FindByWorkItem finds the report owned by a work item
func (r *GormReportRepository) FindByWorkItem(ctx context.Context, teamID string, workItemID uuid.UUID) (*report.Report, error) {
	return r.findOne(r.db.WithContext(ctx).Where("team_id = ? AND work_item_id = ?", teamID, workItemID))
}

// FindByIdentifier finds the live report carrying an identifier
func (r *GormReportRepository) FindByIdentifier(ctx context.Context, identifier string) (*report.Report, error) {
	return r.findOne(r.db.WithContext(ctx).Where("identifier = ?", identifier))
}

func (r *GormReportRepository) findOne(query *gorm.DB) (*report.Report, error) {
	var model models.ReportModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTeam returns a page of the team's reports and the total count
func (r *GormReportRepository) FindAllForTeam(ctx context.Context, teamID string, filter report.ListFilter) ([]report.Report, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ReportModel{}).Where("team_id = ?", teamID)
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Standalone != nil {
		if *filter.Standalone {
			query = query.Where("work_item_id IS NULL")
		} else {
			query = query.Where("work_item_id IS NOT NULL")
		}
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR identifier LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ReportModel
	if err := pageQuery(query, filter.Filter, ReportSortFields, "updated_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	reports := make([]report.Report, len(rows))
	for i := range rows {
		reports[i] = *rows[i].ToDomain()
	}
	return reports, total, nil
}

// Create inserts a report. A second report for the same work item, or a
// reused identifier, is shared.ErrAlreadyExists.
func (r *GormReportRepository) Create(ctx context.Context, rep *report.Report) error {
	err := r.db.WithContext(ctx).Create(models.ReportModelFromDomain(rep)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

// Save writes the report when the stored version still equals expectedVersion
func (r *GormReportRepository) Save(ctx context.Context, rep *report.Report, expectedVersion int) error {
	m := models.ReportModelFromDomain(rep)
	result := r.db.WithContext(ctx).
		Model(&models.ReportModel{}).
		Where("id = ? AND team_id = ? AND version = ?", rep.ID, rep.TeamID, expectedVersion).
		Updates(map[string]any{
			"status":         m.Status,
			"identifier":     m.Identifier,
			"title":          m.Title,
			"category":       m.Category,
			"summary":        m.Summary,
			"before_text":    m.Before,
			"after_text":     m.After,
			"effect":         m.Effect,
			"activity_range": m.ActivityRange,
			"fields":         m.Fields,
			"finalized_at":   m.FinalizedAt,
			"version":        m.Version,
			"updated_at":     m.UpdatedAt,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return missingOrStale(ctx, r.db, &models.ReportModel{}, rep.TeamID, rep.ID)
	}
	return nil
}

// Delete removes a report
func (r *GormReportRepository) Delete(ctx context.Context, teamID string, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("team_id = ? AND id = ?", teamID, id).Delete(&models.ReportModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormArchiveRepository implements report.ArchiveRepository using GORM
type GormArchiveRepository struct {
	db *gorm.DB
}

// NewGormArchiveRepository creates a new GormArchiveRepository
func NewGormArchiveRepository(db *gorm.DB) *GormArchiveRepository {
	return &GormArchiveRepository{db: db}
}

// Archive inserts an archived copy of a numbered report
func (r *GormArchiveRepository) Archive(ctx context.Context, a *report.ArchivedReport) error {
	return r.db.WithContext(ctx).Create(models.ArchivedReportModelFromDomain(a)).Error
}

// FindAllForTeam returns a page of the team's archived reports
func (r *GormArchiveRepository) FindAllForTeam(ctx context.Context, teamID string, filter shared.Filter) ([]report.ArchivedReport, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ArchivedReportModel{}).Where("team_id = ?", teamID)
	if filter.Search != "" {
		query = query.Where("identifier LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ArchivedReportModel
	if err := pageQuery(query, filter, ArchivedReportSortFields, "archived_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	archived := make([]report.ArchivedReport, len(rows))
	for i := range rows {
		archived[i] = *rows[i].ToDomain()
	}
	return archived, total, nil
}

var (
	_ report.Repository        = (*GormReportRepository)(nil)
	_ report.ArchiveRepository = (*GormArchiveRepository)(nil)
)
