package handlers

import (
	"todo-back/domain/services"
)

// Services contains all the services needed for handlers
type Services struct {
	TaskService services.TaskService
	AppName     string
	// Health probes keyed by component; a nil entry means the component is disabled
	DatabaseCheck HealthCheck
	CacheCheck    HealthCheck
	EventsCheck   HealthCheck
}

// Handlers contains all HTTP handlers
type Handlers struct {
	TaskHandler   *TaskHandler
	HealthHandler *HealthHandler
}

func NewHandlers(services *Services) *Handlers {
	return &Handlers{
		TaskHandler:   NewTaskHandler(services.TaskService),
		HealthHandler: NewHealthHandler(services.AppName, services.DatabaseCheck, services.CacheCheck, services.EventsCheck),
	}
}
