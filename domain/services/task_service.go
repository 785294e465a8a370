package services

import (
	"context"
	"errors"

	"todo-back/domain/dto"
	"todo-back/domain/models"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrInvalidTask  = errors.New("invalid task")
)

type TaskService interface {
	ListTasks(ctx context.Context) ([]*models.Task, error)
	ListTasksByStatus(ctx context.Context, status models.TaskStatus) ([]*models.Task, error)
	GetTask(ctx context.Context, id uint) (*models.Task, error)
	CreateTask(ctx context.Context, req *dto.TaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, id uint, req *dto.TaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, id uint) error
	SaveOrdering(ctx context.Context, items []models.TaskOrdering) error
	CountByStatus(ctx context.Context) (map[models.TaskStatus]int64, error)
}

// RetentionService removes soft-deleted tasks once they are old enough.
type RetentionService interface {
	PurgeExpired(ctx context.Context) (int64, error)
}
