package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go/jetstream"

	"todo-back/pkg/logger"
)

type EventHandler func(msg *TaskEventMessage)

// Subscriber follows the events stream with an ordered consumer starting at
// the newest message. Stored history is not replayed; gaps after a
// reconnect are recovered by the consumer itself.
type Subscriber struct {
	client *Client
	log    *slog.Logger

	handlersMu sync.RWMutex
	handlers   []EventHandler

	mu      sync.Mutex
	consume jetstream.ConsumeContext
}

func NewSubscriber(client *Client) *Subscriber {
	return &Subscriber{client: client, log: logger.Component("nats-subscriber")}
}

func (s *Subscriber) OnEvent(handler EventHandler) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	s.handlers = append(s.handlers, handler)
}

func (s *Subscriber) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consume != nil {
		return nil
	}

	consumer, err := s.client.JetStream().OrderedConsumer(ctx, StreamName, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{SubjectEventsAll},
		DeliverPolicy:  jetstream.DeliverNewPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create ordered consumer: %w", err)
	}

	cc, err := consumer.Consume(s.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}
	s.consume = cc

	s.log.Info("NATS subscriber started", "stream", StreamName, "subject", SubjectEventsAll)
	return nil
}

func (s *Subscriber) handleMessage(msg jetstream.Msg) {
	var event TaskEventMessage
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		s.log.Error("Failed to parse task event", "subject", msg.Subject(), "error", err)
		return
	}

	s.handlersMu.RLock()
	handlers := s.handlers
	s.handlersMu.RUnlock()

	// one at a time, in stream order
	for _, h := range handlers {
		s.dispatch(h, &event)
	}
}

func (s *Subscriber) dispatch(h EventHandler, event *TaskEventMessage) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Task event handler panicked", "type", event.Type, "panic", r)
		}
	}()
	h(event)
}

func (s *Subscriber) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consume == nil {
		return nil
	}
	s.consume.Stop()
	s.consume = nil
	s.log.Info("NATS subscriber stopped")
	return nil
}

func (s *Subscriber) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consume != nil
}
