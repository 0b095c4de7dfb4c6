package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kaizen/backend/internal/domain/shared"
	"github.com/kaizen/backend/internal/domain/workitem"
	"github.com/kaizen/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormWorkItemRepository implements workitem.Repository using GORM
type GormWorkItemRepository struct {
	db *gorm.DB
}

// NewGormWorkItemRepository creates a new GormWorkItemRepository
func NewGormWorkItemRepository(db *gorm.DB) *GormWorkItemRepository {
	return &GormWorkItemRepository{db: db}
}

// FindByID finds a work item within a team
func (r *GormWorkItemRepository) FindByID(ctx context.Context, teamID string, id uuid.UUID) (*workitem.WorkItem, error) {
	var model models.WorkItemModel
	err := r.db.WithContext(ctx).Where("team_id = ? AND id = ?", teamID, id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTeam returns a page of the team's board and the total count
func (r *GormWorkItemRepository) FindAllForTeam(ctx context.Context, teamID string, filter workitem.ListFilter) ([]workitem.WorkItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WorkItemModel{}).Where("team_id = ?", teamID)
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Search != "" {
		query = query.Where("title LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.WorkItemModel
	err := pageQuery(query, filter.Filter, WorkItemSortFields, "sort_order").Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	items := make([]workitem.WorkItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, total, nil
}

// ListForTeam returns every item on the team's board in board order
func (r *GormWorkItemRepository) ListForTeam(ctx context.Context, teamID string) ([]*workitem.WorkItem, error) {
	var rows []models.WorkItemModel
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("sort_order ASC").Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]*workitem.WorkItem, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, nil
}

// Create inserts a new work item
func (r *GormWorkItemRepository) Create(ctx context.Context, item *workitem.WorkItem) error {
	return r.db.WithContext(ctx).Create(models.WorkItemModelFromDomain(item)).Error
}

// Save writes every mutable column when the stored version still equals
// expectedVersion. A missing row is shared.ErrNotFound; a moved version is
// shared.ErrStaleState.
func (r *GormWorkItemRepository) Save(ctx context.Context, item *workitem.WorkItem, expectedVersion int) error {
	m := models.WorkItemModelFromDomain(item)
	result := r.db.WithContext(ctx).
		Model(&models.WorkItemModel{}).
		Where("id = ? AND team_id = ? AND version = ?", item.ID, item.TeamID, expectedVersion).
		Updates(map[string]any{
			"title":        m.Title,
			"category":     m.Category,
			"fields":       m.Fields,
			"date_range":   m.DateRange,
			"report_draft": m.ReportDraft,
			"identifier":   m.Identifier,
			"status":       m.Status,
			"sort_order":   m.SortOrder,
			"started_at":   m.StartedAt,
			"completed_at": m.CompletedAt,
			"version":      m.Version,
			"updated_at":   m.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return missingOrStale(ctx, r.db, &models.WorkItemModel{}, item.TeamID, item.ID)
	}
	return nil
}

// Delete removes a work item
func (r *GormWorkItemRepository) Delete(ctx context.Context, teamID string, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("team_id = ? AND id = ?", teamID, id).Delete(&models.WorkItemModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// missingOrStale tells a lost compare-and-swap apart from a missing row
func missingOrStale(ctx context.Context, db *gorm.DB, model any, teamID string, id uuid.UUID) error {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("team_id = ? AND id = ?", teamID, id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrStaleState
}

// Ensure GormWorkItemRepository implements workitem.Repository
var _ workitem.Repository = (*GormWorkItemRepository)(nil)
