package serviceimpl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-back/domain/models"
	"todo-back/infrastructure/postgres"
	"todo-back/pkg/scheduler"
)

func TestRetentionService_PurgeExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewTaskRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	old := &models.Task{Title: "old", Status: models.TaskStatusPending, CreatedAt: now.Add(-90 * 24 * time.Hour)}
	fresh := &models.Task{Title: "fresh", Status: models.TaskStatusPending, CreatedAt: now}
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, fresh))
	require.NoError(t, db.Model(&models.Task{}).Where("id = ?", old.ID).Update("data_exclusao", now.Add(-60*24*time.Hour)).Error)
	require.NoError(t, repo.Delete(ctx, fresh.ID))

	svc := NewRetentionService(RetentionConfig{MaxAge: 30 * 24 * time.Hour}, repo, scheduler.NewEventScheduler())
	purged, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Task{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRetentionService_RegisterPurgeJob(t *testing.T) {
	repo := postgres.NewTaskRepository(setupTestDB(t))
	sched := scheduler.NewEventScheduler()

	disabled := NewRetentionService(RetentionConfig{}, repo, sched)
	require.NoError(t, disabled.RegisterPurgeJob())
	_, ok := sched.GetJob(retentionJobID)
	assert.False(t, ok)

	enabled := NewRetentionService(RetentionConfig{Cron: "0 3 * * *"}, repo, sched)
	require.NoError(t, enabled.RegisterPurgeJob())
	info, ok := sched.GetJob(retentionJobID)
	require.True(t, ok)
	assert.Equal(t, "0 3 * * *", info.CronExpr)

	bad := NewRetentionService(RetentionConfig{Cron: "whenever"}, repo, scheduler.NewEventScheduler())
	assert.Error(t, bad.RegisterPurgeJob())
}
