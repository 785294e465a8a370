package models

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"todo-back/pkg/validation"
)

const TitleMaxLength = 100

var (
	ErrTitleRequired = errors.New("titulo is required")
	ErrTitleTooLong  = errors.New("titulo must be at most 100 characters")
	ErrInvalidStatus = errors.New("status is invalid")
)

type Task struct {
	ID          uint           `gorm:"primaryKey;autoIncrement"`
	Title       string         `gorm:"column:titulo;size:100;not null"`
	Description *string        `gorm:"column:descricao"`
	CreatedAt   time.Time      `gorm:"column:data_criacao;not null"`
	CompletedAt *time.Time     `gorm:"column:data_conclusao"`
	DeletedAt   gorm.DeletedAt `gorm:"column:data_exclusao;index"`
	Status      TaskStatus     `gorm:"column:status;size:20;not null;default:'Pendente';index"`
	Order       int            `gorm:"column:ordenacao;not null;default:0"`
}

func (Task) TableName() string {
	return "tarefas"
}

// TaskOrdering is one entry of a reorder batch.
type TaskOrdering struct {
	ID    uint `json:"id"`
	Order int  `json:"ordenacao"`
}

// SyncCompletion keeps CompletedAt consistent with Status.
// A completed task without a stamp gets now, pushed one second past CreatedAt
// when now would not be strictly later.
func (t *Task) SyncCompletion(now time.Time) {
	if t.Status != TaskStatusCompleted {
		t.CompletedAt = nil
		return
	}
	if t.CompletedAt != nil {
		return
	}
	stamp := now
	if !stamp.After(t.CreatedAt) {
		stamp = t.CreatedAt.Add(time.Second)
	}
	t.CompletedAt = &stamp
}

// Validate checks the entity rules that must hold before the task is stored.
func (t *Task) Validate() error {
	var errs []error
	switch {
	case strings.TrimSpace(t.Title) == "":
		errs = append(errs, ErrTitleRequired)
	case utf8.RuneCountInString(t.Title) > TitleMaxLength:
		errs = append(errs, ErrTitleTooLong)
	}
	if !t.Status.Valid() {
		errs = append(errs, ErrInvalidStatus)
	}
	if err := validation.DateGreaterThan("dataConclusao", t.CompletedAt, "dataCriacao", func() time.Time {
		return t.CreatedAt
	}); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
