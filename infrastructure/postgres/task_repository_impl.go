package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"todo-back/domain/models"
	"todo-back/domain/repositories"
)

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) List(ctx context.Context) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).Order("ordenacao ASC, id ASC").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) ListByStatus(ctx context.Context, status models.TaskStatus) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("ordenacao ASC, id ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", task.ID).
		Select("titulo", "descricao", "data_conclusao", "status").
		Updates(map[string]any{
			"titulo":         task.Title,
			"descricao":      task.Description,
			"data_conclusao": task.CompletedAt,
			"status":         task.Status,
		}).Error
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{}).Error
}

func (r *TaskRepositoryImpl) SaveOrdering(ctx context.Context, items []models.TaskOrdering) error {
	db := r.db.WithContext(ctx)
	for _, item := range items {
		err := db.Model(&models.Task{}).
			Where("id = ?", item.ID).
			Update("ordenacao", item.Order).Error
		if err != nil {
			return fmt.Errorf("update ordering of task %d: %w", item.ID, err)
		}
	}
	return nil
}

func (r *TaskRepositoryImpl) CountByStatus(ctx context.Context) (map[models.TaskStatus]int64, error) {
	var rows []struct {
		Status models.TaskStatus
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *TaskRepositoryImpl) PurgeDeleted(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("data_exclusao IS NOT NULL AND data_exclusao < ?", before).
		Delete(&models.Task{})
	return result.RowsAffected, result.Error
}
