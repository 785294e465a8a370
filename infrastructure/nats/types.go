package nats

import (
	"encoding/json"
	"time"
)

const (
	// StreamName keeps a short history of board changes for late consumers.
	StreamName = "TAREFA_EVENTS"

	// SubjectEventsPrefix is followed by the event type, e.g. tarefas.events.tarefa.adicionada
	SubjectEventsPrefix = "tarefas.events"
	SubjectEventsAll    = SubjectEventsPrefix + ".>"

	StreamMaxAge = 24 * time.Hour
)

// TaskEventMessage is the wire form of a task event on NATS.
type TaskEventMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Source    string          `json:"source,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

func SubjectFor(eventType string) string {
	return SubjectEventsPrefix + "." + eventType
}
