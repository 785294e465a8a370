package board

import (
	"encoding/json"
	"fmt"

	"todo-back/domain/dto"
	"todo-back/domain/models"
	"todo-back/domain/ports"
)

// FromEvent turns a pushed server event into a store action. Count events
// and unknown types yield a nil action since counts are derived locally.
func FromEvent(eventType string, data json.RawMessage) (Action, error) {
	switch ports.TaskEventType(eventType) {
	case ports.TaskEventCreated, ports.TaskEventUpdated:
		var resp dto.TaskResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		task := *dto.TaskResponseToTask(&resp)
		if ports.TaskEventType(eventType) == ports.TaskEventCreated {
			return TaskCreated{Task: task}, nil
		}
		return TaskUpdated{Task: task}, nil

	case ports.TaskEventDeleted:
		var req dto.IDRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		return TaskDeleted{ID: req.ID}, nil

	case ports.TaskEventOrderingSaved:
		var items []models.TaskOrdering
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		return OrderingSaved{Items: items}, nil
	}
	return nil, nil
}
