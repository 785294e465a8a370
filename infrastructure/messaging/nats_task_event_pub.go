package messaging

import (
	"context"
	"fmt"

	"todo-back/domain/ports"
	natspkg "todo-back/infrastructure/nats"
)

// NATSTaskEventPublisher implements TaskEventPublisherPort on the JetStream events stream.
type NATSTaskEventPublisher struct {
	publisher *natspkg.Publisher
}

func NewNATSTaskEventPublisher(publisher *natspkg.Publisher) ports.TaskEventPublisherPort {
	return &NATSTaskEventPublisher{publisher: publisher}
}

func (p *NATSTaskEventPublisher) PublishTaskEvent(ctx context.Context, event *ports.TaskEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.Type == "" {
		return fmt.Errorf("event type is required")
	}
	return p.publisher.Publish(ctx, string(event.Type), event.Data)
}
