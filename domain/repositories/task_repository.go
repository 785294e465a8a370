package repositories

import (
	"context"
	"time"

	"todo-back/domain/models"
)

type TaskRepository interface {
	// List returns the live tasks ordered by ordenacao, then id.
	List(ctx context.Context) ([]*models.Task, error)
	ListByStatus(ctx context.Context, status models.TaskStatus) ([]*models.Task, error)
	// GetByID returns (nil, nil) when the task does not exist or was removed.
	GetByID(ctx context.Context, id uint) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uint) error
	// SaveOrdering runs one UPDATE per entry and stops at the first failure.
	SaveOrdering(ctx context.Context, items []models.TaskOrdering) error
	CountByStatus(ctx context.Context) (map[models.TaskStatus]int64, error)
	// PurgeDeleted hard-deletes rows removed before the given time.
	PurgeDeleted(ctx context.Context, before time.Time) (int64, error)
}
