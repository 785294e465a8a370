package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"todo-back/pkg/logger"
)

// Publisher writes task events to the JetStream stream.
type Publisher struct {
	client *Client
	source string
}

func NewPublisher(client *Client, source string) *Publisher {
	return &Publisher{client: client, source: source}
}

// Publish stores one event in the stream. Every event gets its own message id
// so a retried publish inside the dedup window is stored once.
func (p *Publisher) Publish(ctx context.Context, eventType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	msg, err := json.Marshal(&TaskEventMessage{
		Type:      eventType,
		Data:      payload,
		Source:    p.source,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ack, err := p.client.js.Publish(ctx, SubjectFor(eventType), msg, jetstream.WithMsgID(uuid.NewString()))
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	logger.DebugContext(ctx, "Task event published", "type", eventType, "sequence", ack.Sequence)
	return nil
}
