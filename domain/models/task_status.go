package models

import (
	"fmt"
	"strconv"
	"strings"
)

// TaskStatus is the board column a task belongs to.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pendente"
	TaskStatusInProgress TaskStatus = "EmProgresso"
	TaskStatusCompleted  TaskStatus = "Concluida"
)

// AllStatuses returns the statuses in column order.
func AllStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

func (s TaskStatus) String() string {
	return string(s)
}

// ParseTaskStatus accepts a status name (any case) or its column index 0, 1 or 2.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	value := strings.TrimSpace(raw)
	if idx, err := strconv.Atoi(value); err == nil {
		all := AllStatuses()
		if idx >= 0 && idx < len(all) {
			return all[idx], nil
		}
		return "", fmt.Errorf("invalid task status %q", raw)
	}
	for _, s := range AllStatuses() {
		if strings.EqualFold(value, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("invalid task status %q", raw)
}

// UnmarshalJSON accepts the status name or its numeric column index.
// Unknown names are kept as-is so validation can report them.
func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] != '"' {
		if string(data) == "null" {
			*s = ""
			return nil
		}
		parsed, err := ParseTaskStatus(string(data))
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("invalid task status %s", data)
	}
	if parsed, err := ParseTaskStatus(raw); err == nil {
		*s = parsed
		return nil
	}
	*s = TaskStatus(raw)
	return nil
}
