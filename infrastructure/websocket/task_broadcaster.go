package websocket

import (
	"context"
	"sync"

	"todo-back/domain/ports"
	"todo-back/pkg/logger"
)

// TaskBroadcaster pushes task events to every connected board.
// It is a TaskEventPublisherPort for single-instance setups, and can also
// relay events arriving from a TaskEventSubscriberPort.
type TaskBroadcaster struct {
	manager   *Manager
	sub       ports.TaskEventSubscriberPort
	running   bool
	runningMu sync.Mutex
	cancel    context.CancelFunc
}

var _ ports.TaskEventPublisherPort = (*TaskBroadcaster)(nil)

func NewTaskBroadcaster(manager *Manager, sub ports.TaskEventSubscriberPort) *TaskBroadcaster {
	return &TaskBroadcaster{manager: manager, sub: sub}
}

func (b *TaskBroadcaster) PublishTaskEvent(_ context.Context, event *ports.TaskEvent) error {
	b.broadcast(event)
	return nil
}

// Start relays events from the subscriber. Without a subscriber it does nothing.
func (b *TaskBroadcaster) Start() error {
	b.runningMu.Lock()
	defer b.runningMu.Unlock()
	if b.running || b.sub == nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := b.sub.Subscribe(ctx, b.broadcast); err != nil {
		cancel()
		return err
	}
	b.cancel = cancel
	b.running = true

	logger.Info("Task broadcaster started")
	return nil
}

func (b *TaskBroadcaster) Stop() error {
	b.runningMu.Lock()
	defer b.runningMu.Unlock()
	if !b.running {
		return nil
	}
	b.running = false
	b.cancel()
	return b.sub.Unsubscribe()
}

func (b *TaskBroadcaster) broadcast(event *ports.TaskEvent) {
	if event == nil || event.Type == "" {
		logger.Warn("Invalid task event received")
		return
	}
	b.manager.BroadcastToAll(string(event.Type), event.Data)
}
