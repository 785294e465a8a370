package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"todo-back/domain/dto"
	"todo-back/domain/models"
	"todo-back/domain/services"
	"todo-back/pkg/logger"
)

const (
	taskListCachePrefix = "tarefas:list:"
	// taskListGenKey lives outside the list prefix so invalidation never deletes it.
	taskListGenKey = "tarefas:gen"
)

// ListCache is the subset of the redis client the cached service needs.
type ListCache interface {
	GetOrSet(ctx context.Context, key string, target interface{}, ttl time.Duration, getter func() (interface{}, error)) error
	ScanAndDelete(ctx context.Context, pattern string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
	GetInt64(ctx context.Context, key string) (int64, error)
}

// sourceError marks a failure of the database read, as opposed to a cache failure.
type sourceError struct{ err error }

func (e *sourceError) Error() string { return e.err.Error() }
func (e *sourceError) Unwrap() error { return e.err }

// CachedTaskService serves list reads from the cache and drops the cached lists after every write.
// List keys carry a generation number that every write bumps, so a read that
// loaded rows before a write stores them under a key no later read looks up.
type CachedTaskService struct {
	services.TaskService
	cache ListCache
	ttl   time.Duration
	group singleflight.Group
}

func NewCachedTaskService(next services.TaskService, cache ListCache, ttl time.Duration) services.TaskService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedTaskService{
		TaskService: next,
		cache:       cache,
		ttl:         ttl,
	}
}

func (s *CachedTaskService) ListTasks(ctx context.Context) ([]*models.Task, error) {
	return s.cachedList(ctx, "all", func() ([]*models.Task, error) {
		return s.TaskService.ListTasks(ctx)
	})
}

func (s *CachedTaskService) ListTasksByStatus(ctx context.Context, status models.TaskStatus) ([]*models.Task, error) {
	return s.cachedList(ctx, string(status), func() ([]*models.Task, error) {
		return s.TaskService.ListTasksByStatus(ctx, status)
	})
}

func (s *CachedTaskService) CreateTask(ctx context.Context, req *dto.TaskRequest) (*models.Task, error) {
	task, err := s.TaskService.CreateTask(ctx, req)
	if err == nil {
		s.invalidate(ctx)
	}
	return task, err
}

func (s *CachedTaskService) UpdateTask(ctx context.Context, id uint, req *dto.TaskRequest) (*models.Task, error) {
	task, err := s.TaskService.UpdateTask(ctx, id, req)
	if err == nil {
		s.invalidate(ctx)
	}
	return task, err
}

func (s *CachedTaskService) DeleteTask(ctx context.Context, id uint) error {
	err := s.TaskService.DeleteTask(ctx, id)
	if err == nil {
		s.invalidate(ctx)
	}
	return err
}

// SaveOrdering invalidates even on failure since earlier entries of the batch may be applied.
func (s *CachedTaskService) SaveOrdering(ctx context.Context, items []models.TaskOrdering) error {
	err := s.TaskService.SaveOrdering(ctx, items)
	s.invalidate(ctx)
	return err
}

func listCacheKey(gen int64, name string) string {
	return fmt.Sprintf("%s%d:%s", taskListCachePrefix, gen, name)
}

func (s *CachedTaskService) cachedList(ctx context.Context, name string, load func() ([]*models.Task, error)) ([]*models.Task, error) {
	// the generation is read before the rows, never after
	gen, err := s.cache.GetInt64(ctx, taskListGenKey)
	if err != nil {
		logger.WarnContext(ctx, "Task list cache unavailable, reading from database", "list", name, "error", err)
		return load()
	}
	key := listCacheKey(gen, name)

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		var cached []dto.TaskResponse
		err := s.cache.GetOrSet(ctx, key, &cached, s.ttl, func() (interface{}, error) {
			tasks, err := load()
			if err != nil {
				return nil, &sourceError{err: err}
			}
			return dto.TasksToTaskResponses(tasks), nil
		})
		if err != nil {
			return nil, err
		}
		return cached, nil
	})
	var srcErr *sourceError
	if errors.As(err, &srcErr) {
		return nil, srcErr.err
	}
	if err != nil {
		logger.WarnContext(ctx, "Task list cache unavailable, reading from database", "key", key, "error", err)
		return load()
	}

	responses := v.([]dto.TaskResponse)
	tasks := make([]*models.Task, 0, len(responses))
	for i := range responses {
		tasks = append(tasks, dto.TaskResponseToTask(&responses[i]))
	}
	return tasks, nil
}

func (s *CachedTaskService) invalidate(ctx context.Context) {
	if _, err := s.cache.Incr(ctx, taskListGenKey); err != nil {
		logger.WarnContext(ctx, "Failed to bump task list cache generation", "error", err)
	}
	// old generations are unreachable now; deleting them only frees memory
	if _, err := s.cache.ScanAndDelete(ctx, taskListCachePrefix+"*"); err != nil {
		logger.WarnContext(ctx, "Failed to invalidate task list cache", "error", fmt.Errorf("scan and delete: %w", err))
	}
}
