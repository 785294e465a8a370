package dto

import (
	"time"

	"todo-back/domain/models"
)

// TaskRequest is the body of POST and PUT on a task.
// DataCriacao is only read by the date rule; the server owns the creation stamp.
type TaskRequest struct {
	Title       string            `json:"titulo" validate:"required,min=1,max=100"`
	Description *string           `json:"descricao"`
	CreatedAt   *time.Time        `json:"dataCriacao"`
	CompletedAt *time.Time        `json:"dataConclusao"`
	Status      models.TaskStatus `json:"status" validate:"omitempty,taskstatus"`
	Order       int               `json:"ordenacao"`
}

type TaskResponse struct {
	ID          uint              `json:"id"`
	Title       string            `json:"titulo"`
	Description *string           `json:"descricao"`
	CreatedAt   time.Time         `json:"dataCriacao"`
	CompletedAt *time.Time        `json:"dataConclusao"`
	Status      models.TaskStatus `json:"status"`
	Order       int               `json:"ordenacao"`
}

type TaskOrderingRequest struct {
	ID    uint `json:"id" validate:"required"`
	Order int  `json:"ordenacao"`
}

type TaskFilterRequest struct {
	Status string `query:"status"`
}

// TaskCountsResponse is the payload of the count-changed event.
type TaskCountsResponse struct {
	All        int64 `json:"todas"`
	Pending    int64 `json:"pendentes"`
	InProgress int64 `json:"emProgresso"`
	Completed  int64 `json:"concluidas"`
}
