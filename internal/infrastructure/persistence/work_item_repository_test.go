package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/kaizen/backend/internal/domain/shared"
	"github.com/kaizen/backend/internal/domain/workitem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkItem(t *testing.T, team, title string) *workitem.WorkItem {
	t.Helper()
	item, err := workitem.NewWorkItem(team, title, "setup")
	require.NoError(t, err)
	return item
}

func TestGormWorkItemRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewGormWorkItemRepository(newSQLiteDB(t))

	item := newWorkItem(t, "GR", "Shorten changeover")
	item.Fields["line"] = "L2"
	require.NoError(t, repo.Create(ctx, item))

	found, err := repo.FindByID(ctx, "GR", item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shorten changeover", found.Title)
	assert.Equal(t, workitem.StatusPlanned, found.Status)
	assert.Equal(t, "L2", found.Fields["line"])
	assert.Empty(t, found.Identifier)

	_, err = repo.FindByID(ctx, "QA", item.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	expected := found.Version
	require.NoError(t, found.Start("2025-07-01 ~ 2025-07-31"))
	require.NoError(t, repo.Save(ctx, found, expected))

	reloaded, err := repo.FindByID(ctx, "GR", item.ID)
	require.NoError(t, err)
	assert.Equal(t, workitem.StatusInProgress, reloaded.Status)
	assert.Equal(t, "2025-07-01 ~ 2025-07-31", reloaded.DateRange)
	assert.Equal(t, expected+1, reloaded.Version)
	assert.NotNil(t, reloaded.StartedAt)

	require.NoError(t, repo.Delete(ctx, "GR", item.ID))
	assert.ErrorIs(t, repo.Delete(ctx, "GR", item.ID), shared.ErrNotFound)
}

func TestGormWorkItemRepository_SaveIsCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	repo := NewGormWorkItemRepository(newSQLiteDB(t))

	item := newWorkItem(t, "GR", "Label bins")
	require.NoError(t, repo.Create(ctx, item))

	first, _ := repo.FindByID(ctx, "GR", item.ID)
	second, _ := repo.FindByID(ctx, "GR", item.ID)

	require.NoError(t, first.Start(""))
	require.NoError(t, repo.Save(ctx, first, 1))

	require.NoError(t, second.Start(""))
	assert.ErrorIs(t, repo.Save(ctx, second, 1), shared.ErrStaleState)

	ghost := newWorkItem(t, "GR", "Never stored")
	ghost.IncrementVersion()
	assert.ErrorIs(t, repo.Save(ctx, ghost, 1), shared.ErrNotFound)
}

func TestGormWorkItemRepository_Listing(t *testing.T) {
	ctx := context.Background()
	repo := NewGormWorkItemRepository(newSQLiteDB(t))

	for i, title := range []string{"C card", "A card", "B card"} {
		item := newWorkItem(t, "GR", title)
		item.SortOrder = i
		require.NoError(t, repo.Create(ctx, item))
	}
	require.NoError(t, repo.Create(ctx, newWorkItem(t, "QA", "Other team")))

	board, err := repo.ListForTeam(ctx, "GR")
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, "C card", board[0].Title)

	items, total, err := repo.FindAllForTeam(ctx, "GR", workitem.ListFilter{
		Filter: shared.Filter{Page: 1, PageSize: 2, OrderBy: "title", OrderDir: "asc"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, "A card", items[0].Title)
	assert.Equal(t, "B card", items[1].Title)

	status := workitem.StatusCompleted
	_, total, err = repo.FindAllForTeam(ctx, "GR", workitem.ListFilter{Filter: shared.DefaultFilter(), Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestGormWorkItemRepository_SaveSQL(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormWorkItemRepository(db)

	item := newWorkItem(t, "GR", "Label bins")
	item.ID = uuid.New()
	item.IncrementVersion()

	mock.ExpectExec(`UPDATE "work_items" SET .*"version"=.* WHERE id = \$\d+ AND team_id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "work_items" WHERE team_id = \$1 AND id = \$2`).
		WithArgs("GR", item.ID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := repo.Save(context.Background(), item, 1)
	assert.ErrorIs(t, err, shared.ErrStaleState)
	assert.NoError(t, mock.ExpectationsWereMet())
}
