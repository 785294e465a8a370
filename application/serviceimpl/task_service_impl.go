package serviceimpl

import (
	"context"
	"fmt"
	"time"

	"todo-back/domain/dto"
	"todo-back/domain/models"
	"todo-back/domain/ports"
	"todo-back/domain/repositories"
	"todo-back/domain/services"
	"todo-back/pkg/logger"
)

type TaskServiceImpl struct {
	taskRepo  repositories.TaskRepository
	publisher ports.TaskEventPublisherPort
	now       func() time.Time
}

// NewTaskService builds the service. publisher may be nil, events are then skipped.
func NewTaskService(taskRepo repositories.TaskRepository, publisher ports.TaskEventPublisherPort) services.TaskService {
	return &TaskServiceImpl{
		taskRepo:  taskRepo,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context) ([]*models.Task, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list tasks", "error", err)
		return nil, err
	}
	return tasks, nil
}

func (s *TaskServiceImpl) ListTasksByStatus(ctx context.Context, status models.TaskStatus) ([]*models.Task, error) {
	tasks, err := s.taskRepo.ListByStatus(ctx, status)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list tasks by status", "status", status, "error", err)
		return nil, err
	}
	return tasks, nil
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to get task", "task_id", id, "error", err)
		return nil, err
	}
	if task == nil {
		return nil, services.ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, req *dto.TaskRequest) (*models.Task, error) {
	task := dto.TaskRequestToTask(req)
	now := s.now()
	task.CreatedAt = now
	task.SyncCompletion(now)

	if err := task.Validate(); err != nil {
		logger.WarnContext(ctx, "Rejected task creation", "error", err)
		return nil, fmt.Errorf("%w: %w", services.ErrInvalidTask, err)
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		logger.ErrorContext(ctx, "Failed to create task", "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Task created successfully", "task_id", task.ID, "status", task.Status)

	s.publish(ctx, ports.TaskEventCreated, dto.TaskToTaskResponse(task))
	s.publishCounts(ctx)

	return task, nil
}

func (s *TaskServiceImpl) UpdateTask(ctx context.Context, id uint, req *dto.TaskRequest) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load task for update", "task_id", id, "error", err)
		return nil, err
	}
	if task == nil {
		logger.WarnContext(ctx, "Task not found for update", "task_id", id)
		return nil, services.ErrTaskNotFound
	}

	previousStatus := task.Status
	changes := dto.TaskRequestToTask(req)
	task.Title = changes.Title
	task.Description = changes.Description
	task.Status = changes.Status
	task.CompletedAt = changes.CompletedAt
	task.SyncCompletion(s.now())

	if err := task.Validate(); err != nil {
		logger.WarnContext(ctx, "Rejected task update", "task_id", id, "error", err)
		return nil, fmt.Errorf("%w: %w", services.ErrInvalidTask, err)
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		logger.ErrorContext(ctx, "Failed to update task", "task_id", id, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Task updated successfully", "task_id", id, "status", task.Status)

	s.publish(ctx, ports.TaskEventUpdated, dto.TaskToTaskResponse(task))
	if previousStatus != task.Status {
		s.publishCounts(ctx)
	}

	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id uint) error {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load task for deletion", "task_id", id, "error", err)
		return err
	}
	if task == nil {
		logger.WarnContext(ctx, "Task not found for deletion", "task_id", id)
		return services.ErrTaskNotFound
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		logger.ErrorContext(ctx, "Failed to delete task", "task_id", id, "error", err)
		return err
	}

	logger.InfoContext(ctx, "Task deleted successfully", "task_id", id)

	s.publish(ctx, ports.TaskEventDeleted, dto.IDRequest{ID: id})
	s.publishCounts(ctx)
	return nil
}

func (s *TaskServiceImpl) SaveOrdering(ctx context.Context, items []models.TaskOrdering) error {
	if err := s.taskRepo.SaveOrdering(ctx, items); err != nil {
		logger.ErrorContext(ctx, "Failed to save task ordering", "items", len(items), "error", err)
		return err
	}

	logger.InfoContext(ctx, "Task ordering saved", "items", len(items))

	s.publish(ctx, ports.TaskEventOrderingSaved, items)
	return nil
}

func (s *TaskServiceImpl) CountByStatus(ctx context.Context) (map[models.TaskStatus]int64, error) {
	counts, err := s.taskRepo.CountByStatus(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to count tasks", "error", err)
		return nil, err
	}
	return counts, nil
}

// publish is best-effort: the write already succeeded.
func (s *TaskServiceImpl) publish(ctx context.Context, eventType ports.TaskEventType, data any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTaskEvent(ctx, &ports.TaskEvent{Type: eventType, Data: data}); err != nil {
		logger.WarnContext(ctx, "Failed to publish task event", "type", eventType, "error", err)
	}
}

func (s *TaskServiceImpl) publishCounts(ctx context.Context) {
	if s.publisher == nil {
		return
	}
	counts, err := s.taskRepo.CountByStatus(ctx)
	if err != nil {
		logger.WarnContext(ctx, "Failed to count tasks for event", "error", err)
		return
	}
	s.publish(ctx, ports.TaskEventCountsChanged, dto.CountsToTaskCountsResponse(counts))
}
