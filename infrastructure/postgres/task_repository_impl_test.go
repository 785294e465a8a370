package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"todo-back/domain/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := NewDatabase(DatabaseConfig{Driver: DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every new connection to :memory: would see an empty database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func seedTask(t *testing.T, repo *TaskRepositoryImpl, title string, status models.TaskStatus, order int) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:     title,
		Status:    status,
		Order:     order,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	task.SyncCompletion(task.CreatedAt.Add(time.Minute))
	require.NoError(t, repo.Create(context.Background(), task))
	require.NotZero(t, task.ID)
	return task
}

func newTestRepository(t *testing.T) (*TaskRepositoryImpl, *gorm.DB) {
	db := setupTestDB(t)
	return NewTaskRepository(db).(*TaskRepositoryImpl), db
}

func TestTaskRepository_CreateAndGetByID(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	desc := "buy milk"
	task := &models.Task{
		Title:       "groceries",
		Description: &desc,
		Status:      models.TaskStatusPending,
		Order:       4,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, task))

	found, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "groceries", found.Title)
	require.NotNil(t, found.Description)
	assert.Equal(t, desc, *found.Description)
	assert.Equal(t, 4, found.Order)
	assert.Nil(t, found.CompletedAt)
}

func TestTaskRepository_GetByID_Missing(t *testing.T) {
	repo, _ := newTestRepository(t)

	found, err := repo.GetByID(context.Background(), 999)
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestTaskRepository_ListOrdersByOrderThenID(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	c := seedTask(t, repo, "c", models.TaskStatusPending, 2)
	a := seedTask(t, repo, "a", models.TaskStatusPending, 1)
	b := seedTask(t, repo, "b", models.TaskStatusInProgress, 1)

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []uint{a.ID, b.ID, c.ID}, []uint{tasks[0].ID, tasks[1].ID, tasks[2].ID})
}

func TestTaskRepository_ListByStatus(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	seedTask(t, repo, "p", models.TaskStatusPending, 0)
	done1 := seedTask(t, repo, "d1", models.TaskStatusCompleted, 0)
	seedTask(t, repo, "i", models.TaskStatusInProgress, 0)
	done2 := seedTask(t, repo, "d2", models.TaskStatusCompleted, 1)

	tasks, err := repo.ListByStatus(ctx, models.TaskStatusCompleted)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.Equal(t, models.TaskStatusCompleted, task.Status)
		require.NotNil(t, task.CompletedAt)
	}
	assert.ElementsMatch(t, []uint{done1.ID, done2.ID}, []uint{tasks[0].ID, tasks[1].ID})
}

func TestTaskRepository_UpdateLeavesOrderAndCreation(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	task := seedTask(t, repo, "before", models.TaskStatusPending, 7)

	stamp := task.CreatedAt.Add(time.Hour)
	changed := &models.Task{
		ID:          task.ID,
		Title:       "after",
		Status:      models.TaskStatusCompleted,
		CompletedAt: &stamp,
		Order:       99,
		CreatedAt:   task.CreatedAt.Add(24 * time.Hour),
	}
	require.NoError(t, repo.Update(ctx, changed))

	found, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", found.Title)
	assert.Equal(t, models.TaskStatusCompleted, found.Status)
	require.NotNil(t, found.CompletedAt)
	assert.True(t, found.CompletedAt.Equal(stamp))
	assert.Equal(t, 7, found.Order)
	assert.True(t, found.CreatedAt.Equal(task.CreatedAt))

	// moving back clears the stamp
	changed.Status = models.TaskStatusPending
	changed.CompletedAt = nil
	require.NoError(t, repo.Update(ctx, changed))
	found, err = repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, found.CompletedAt)
}

func TestTaskRepository_DeleteIsSoft(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	task := seedTask(t, repo, "gone", models.TaskStatusPending, 0)
	keep := seedTask(t, repo, "kept", models.TaskStatusPending, 1)

	require.NoError(t, repo.Delete(ctx, task.ID))
	// deleting twice or deleting a missing id is not an error
	require.NoError(t, repo.Delete(ctx, task.ID))
	require.NoError(t, repo.Delete(ctx, 12345))

	found, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, keep.ID, tasks[0].ID)

	var raw models.Task
	require.NoError(t, db.Unscoped().First(&raw, task.ID).Error)
	assert.True(t, raw.DeletedAt.Valid)
}

func TestTaskRepository_SaveOrderingSwaps(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	first := seedTask(t, repo, "first", models.TaskStatusPending, 1)
	second := seedTask(t, repo, "second", models.TaskStatusCompleted, 2)

	err := repo.SaveOrdering(ctx, []models.TaskOrdering{
		{ID: first.ID, Order: 2},
		{ID: second.ID, Order: 1},
	})
	require.NoError(t, err)

	gotFirst, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	gotSecond, err := repo.GetByID(ctx, second.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, gotFirst.Order)
	assert.Equal(t, 1, gotSecond.Order)
	assert.Equal(t, "first", gotFirst.Title)
	assert.Equal(t, models.TaskStatusPending, gotFirst.Status)
	assert.Equal(t, "second", gotSecond.Title)
	assert.Equal(t, models.TaskStatusCompleted, gotSecond.Status)
	assert.NotNil(t, gotSecond.CompletedAt)
}

func TestTaskRepository_SaveOrderingUnknownIDIsIgnored(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	task := seedTask(t, repo, "only", models.TaskStatusPending, 0)
	err := repo.SaveOrdering(ctx, []models.TaskOrdering{{ID: 404, Order: 3}, {ID: task.ID, Order: 5}})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Order)
}

func TestTaskRepository_CountByStatus(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	seedTask(t, repo, "p1", models.TaskStatusPending, 0)
	seedTask(t, repo, "p2", models.TaskStatusPending, 1)
	seedTask(t, repo, "d", models.TaskStatusCompleted, 2)
	removed := seedTask(t, repo, "x", models.TaskStatusInProgress, 3)
	require.NoError(t, repo.Delete(ctx, removed.ID))

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.TaskStatusPending])
	assert.Equal(t, int64(1), counts[models.TaskStatusCompleted])
	assert.Equal(t, int64(0), counts[models.TaskStatusInProgress])
}

func TestTaskRepository_PurgeDeleted(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	old := seedTask(t, repo, "old", models.TaskStatusPending, 0)
	recent := seedTask(t, repo, "recent", models.TaskStatusPending, 1)
	live := seedTask(t, repo, "live", models.TaskStatusPending, 2)

	require.NoError(t, db.Model(&models.Task{}).Where("id = ?", old.ID).
		Update("data_exclusao", time.Now().UTC().Add(-48*time.Hour)).Error)
	require.NoError(t, repo.Delete(ctx, recent.ID))

	purged, err := repo.PurgeDeleted(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	var remaining []models.Task
	require.NoError(t, db.Unscoped().Order("id").Find(&remaining).Error)
	require.Len(t, remaining, 2)
	assert.Equal(t, recent.ID, remaining[0].ID)
	assert.Equal(t, live.ID, remaining[1].ID)
}
