package ports

import "context"

// TaskEventType names a change on the task board.
type TaskEventType string

const (
	TaskEventCreated       TaskEventType = "tarefa.adicionada"
	TaskEventUpdated       TaskEventType = "tarefa.atualizada"
	TaskEventDeleted       TaskEventType = "tarefa.excluida"
	TaskEventOrderingSaved TaskEventType = "tarefa.ordenacao"
	TaskEventCountsChanged TaskEventType = "tarefa.quantidade"
)

// TaskEvent is a transport-neutral board change. Data is JSON-serializable.
type TaskEvent struct {
	Type TaskEventType
	Data any
}

// TaskEventPublisherPort sends task events to whoever listens.
type TaskEventPublisherPort interface {
	PublishTaskEvent(ctx context.Context, event *TaskEvent) error
}

type TaskEventHandler func(event *TaskEvent)

// TaskEventSubscriberPort receives task events published by any instance.
type TaskEventSubscriberPort interface {
	Subscribe(ctx context.Context, handler TaskEventHandler) error
	Unsubscribe() error
}
