package serviceimpl

import (
	"context"
	"fmt"
	"time"

	"todo-back/domain/repositories"
	"todo-back/domain/services"
	"todo-back/pkg/logger"
	"todo-back/pkg/scheduler"
)

const retentionJobID = "task_retention_purge"

type RetentionConfig struct {
	Cron   string        // empty disables the scheduled job
	MaxAge time.Duration // how long a removed task is kept
}

// RetentionServiceImpl hard-deletes tasks that were soft-deleted long enough ago.
type RetentionServiceImpl struct {
	config    RetentionConfig
	taskRepo  repositories.TaskRepository
	scheduler scheduler.EventScheduler
	now       func() time.Time
}

var _ services.RetentionService = (*RetentionServiceImpl)(nil)

func NewRetentionService(
	config RetentionConfig,
	taskRepo repositories.TaskRepository,
	eventScheduler scheduler.EventScheduler,
) *RetentionServiceImpl {
	if config.MaxAge <= 0 {
		config.MaxAge = 30 * 24 * time.Hour
	}
	return &RetentionServiceImpl{
		config:    config,
		taskRepo:  taskRepo,
		scheduler: eventScheduler,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RegisterPurgeJob schedules PurgeExpired. It is a no-op when no cron is configured.
func (s *RetentionServiceImpl) RegisterPurgeJob() error {
	if s.config.Cron == "" {
		logger.Info("Retention purge disabled")
		return nil
	}
	if err := scheduler.ValidateCronExpression(s.config.Cron); err != nil {
		return fmt.Errorf("retention cron: %w", err)
	}
	return s.scheduler.AddJob(retentionJobID, s.config.Cron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := s.PurgeExpired(ctx); err != nil {
			logger.ErrorContext(ctx, "Retention purge failed", "error", err)
		}
	})
}

func (s *RetentionServiceImpl) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.config.MaxAge)
	purged, err := s.taskRepo.PurgeDeleted(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	logger.InfoContext(ctx, "Retention purge finished", "purged", purged, "cutoff", cutoff.Format(time.RFC3339))
	return purged, nil
}
