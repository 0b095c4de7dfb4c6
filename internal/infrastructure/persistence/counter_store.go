package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/kaizen/backend/internal/domain/numbering"
	"github.com/kaizen/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCounterStore implements numbering.CounterStore on the counters table
type GormCounterStore struct {
	db *gorm.DB
}

// NewGormCounterStore creates a new GormCounterStore
func NewGormCounterStore(db *gorm.DB) *GormCounterStore {
	return &GormCounterStore{db: db}
}

// Get returns the next value to issue for the key
func (s *GormCounterStore) Get(ctx context.Context, key numbering.CounterKey) (int64, bool, error) {
	var model models.CounterModel
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND period = ?", key.Team.String(), key.Period.String()).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return model.NextValue, true, nil
}

// Seed inserts the counter row. An existing row is left untouched and
// reported as numbering.ErrAlreadyInitialized.
func (s *GormCounterStore) Seed(ctx context.Context, key numbering.CounterKey, start int64) error {
	if start < 1 {
		return numbering.ErrInvalidSeed
	}

	now := time.Now()
	model := &models.CounterModel{
		TeamID:    key.Team.String(),
		Period:    key.Period.String(),
		NextValue: start,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return numbering.ErrAlreadyInitialized
	}
	return nil
}

// Advance is a conditional update: the row only moves when it still holds
// expectedCurrent. Zero affected rows means another session advanced it
// first (or the row is gone), which is reported as ConcurrentModification.
func (s *GormCounterStore) Advance(ctx context.Context, key numbering.CounterKey, expectedCurrent, next int64) error {
	if next <= expectedCurrent {
		return numbering.ErrConcurrentModification
	}

	result := s.db.WithContext(ctx).
		Model(&models.CounterModel{}).
		Where("team_id = ? AND period = ? AND next_value = ?", key.Team.String(), key.Period.String(), expectedCurrent).
		Updates(map[string]any{
			"next_value": next,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return numbering.ErrConcurrentModification
	}
	return nil
}

// Ensure GormCounterStore implements numbering.CounterStore
var _ numbering.CounterStore = (*GormCounterStore)(nil)
