package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-back/pkg/validation"
)

func TestParseTaskStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    TaskStatus
		wantErr bool
	}{
		{raw: "Pendente", want: TaskStatusPending},
		{raw: "emprogresso", want: TaskStatusInProgress},
		{raw: " CONCLUIDA ", want: TaskStatusCompleted},
		{raw: "0", want: TaskStatusPending},
		{raw: "1", want: TaskStatusInProgress},
		{raw: "2", want: TaskStatusCompleted},
		{raw: "3", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "Done", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseTaskStatus(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTask_SyncCompletion(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("completed without stamp gets now", func(t *testing.T) {
		task := &Task{CreatedAt: created, Status: TaskStatusCompleted}
		now := created.Add(time.Hour)
		task.SyncCompletion(now)
		require.NotNil(t, task.CompletedAt)
		assert.Equal(t, now, *task.CompletedAt)
	})

	t.Run("stamp is pushed past creation when clocks tie", func(t *testing.T) {
		task := &Task{CreatedAt: created, Status: TaskStatusCompleted}
		task.SyncCompletion(created)
		require.NotNil(t, task.CompletedAt)
		assert.True(t, task.CompletedAt.After(task.CreatedAt))
		assert.Equal(t, created.Add(time.Second), *task.CompletedAt)
	})

	t.Run("existing stamp is kept", func(t *testing.T) {
		stamp := created.Add(2 * time.Hour)
		task := &Task{CreatedAt: created, Status: TaskStatusCompleted, CompletedAt: &stamp}
		task.SyncCompletion(created.Add(5 * time.Hour))
		assert.Equal(t, stamp, *task.CompletedAt)
	})

	t.Run("non completed status clears stamp", func(t *testing.T) {
		stamp := created.Add(time.Hour)
		for _, status := range []TaskStatus{TaskStatusPending, TaskStatusInProgress} {
			task := &Task{CreatedAt: created, Status: status, CompletedAt: &stamp}
			task.SyncCompletion(created.Add(3 * time.Hour))
			assert.Nil(t, task.CompletedAt, status)
		}
	})
}

func TestTask_Validate(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	before := created.Add(-time.Minute)
	after := created.Add(time.Minute)

	tests := []struct {
		name    string
		task    Task
		wantErr error
	}{
		{name: "valid", task: Task{Title: "a", Status: TaskStatusPending, CreatedAt: created}},
		{name: "title of 100 runes", task: Task{Title: strings.Repeat("ç", 100), Status: TaskStatusPending, CreatedAt: created}},
		{name: "empty title", task: Task{Title: "", Status: TaskStatusPending, CreatedAt: created}, wantErr: ErrTitleRequired},
		{name: "blank title", task: Task{Title: "   ", Status: TaskStatusPending, CreatedAt: created}, wantErr: ErrTitleRequired},
		{name: "title of 101 runes", task: Task{Title: strings.Repeat("a", 101), Status: TaskStatusPending, CreatedAt: created}, wantErr: ErrTitleTooLong},
		{name: "unknown status", task: Task{Title: "a", Status: "Done", CreatedAt: created}, wantErr: ErrInvalidStatus},
		{name: "completion before creation", task: Task{Title: "a", Status: TaskStatusCompleted, CreatedAt: created, CompletedAt: &before}, wantErr: validation.ErrDateNotAfter},
		{name: "completion after creation", task: Task{Title: "a", Status: TaskStatusCompleted, CreatedAt: created, CompletedAt: &after}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
