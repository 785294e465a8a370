package messaging

import (
	"context"

	"todo-back/domain/ports"
	natspkg "todo-back/infrastructure/nats"
	"todo-back/pkg/logger"
)

// NATSTaskEventSubscriber implements TaskEventSubscriberPort on the JetStream events stream.
type NATSTaskEventSubscriber struct {
	subscriber *natspkg.Subscriber
	cancel     context.CancelFunc
}

func NewNATSTaskEventSubscriber(subscriber *natspkg.Subscriber) ports.TaskEventSubscriberPort {
	return &NATSTaskEventSubscriber{subscriber: subscriber}
}

func (s *NATSTaskEventSubscriber) Subscribe(ctx context.Context, handler ports.TaskEventHandler) error {
	ctx, s.cancel = context.WithCancel(ctx)

	s.subscriber.OnEvent(func(msg *natspkg.TaskEventMessage) {
		if ctx.Err() != nil {
			return
		}
		if msg == nil || msg.Type == "" {
			logger.Warn("Received task event without type from NATS")
			return
		}
		// Data stays raw JSON so it is forwarded without a decode round trip
		handler(&ports.TaskEvent{
			Type: ports.TaskEventType(msg.Type),
			Data: msg.Data,
		})
	})

	if !s.subscriber.IsRunning() {
		return s.subscriber.Start(ctx)
	}
	return nil
}

func (s *NATSTaskEventSubscriber) Unsubscribe() error {
	if s.cancel != nil {
		s.cancel()
	}
	return s.subscriber.Stop()
}
