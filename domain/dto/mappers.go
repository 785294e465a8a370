package dto

import (
	"todo-back/domain/models"
)

func TaskToTaskResponse(task *models.Task) *TaskResponse {
	if task == nil {
		return nil
	}
	return &TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		CreatedAt:   task.CreatedAt,
		CompletedAt: task.CompletedAt,
		Status:      task.Status,
		Order:       task.Order,
	}
}

func TasksToTaskResponses(tasks []*models.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, *TaskToTaskResponse(task))
	}
	return responses
}

func TaskResponseToTask(resp *TaskResponse) *models.Task {
	if resp == nil {
		return nil
	}
	return &models.Task{
		ID:          resp.ID,
		Title:       resp.Title,
		Description: resp.Description,
		CreatedAt:   resp.CreatedAt,
		CompletedAt: resp.CompletedAt,
		Status:      resp.Status,
		Order:       resp.Order,
	}
}

// TaskRequestToTask maps the client-writable fields. CreatedAt is never taken from the request.
func TaskRequestToTask(req *TaskRequest) *models.Task {
	status := req.Status
	if status == "" {
		status = models.TaskStatusPending
	}
	return &models.Task{
		Title:       req.Title,
		Description: req.Description,
		CompletedAt: req.CompletedAt,
		Status:      status,
		Order:       req.Order,
	}
}

func TaskOrderingRequestsToOrderings(reqs []TaskOrderingRequest) []models.TaskOrdering {
	items := make([]models.TaskOrdering, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, models.TaskOrdering{ID: r.ID, Order: r.Order})
	}
	return items
}

func CountsToTaskCountsResponse(counts map[models.TaskStatus]int64) *TaskCountsResponse {
	resp := &TaskCountsResponse{
		Pending:    counts[models.TaskStatusPending],
		InProgress: counts[models.TaskStatusInProgress],
		Completed:  counts[models.TaskStatusCompleted],
	}
	resp.All = resp.Pending + resp.InProgress + resp.Completed
	return resp
}
