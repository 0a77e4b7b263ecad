package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"recipe-studio-backend/pkg/messagequeue"
)

// Sync event types.
const (
	EventLibrarySaved      = "library.saved"
	EventLibrarySaveFailed = "library.save_failed"
)

// SyncEvent reports the outcome of one library save.
type SyncEvent struct {
	Type  string    `json:"type"`
	Email string    `json:"email,omitempty"`
	Books int       `json:"books"`
	At    time.Time `json:"at"`
	Error string    `json:"error,omitempty"`
}

type queuePublisher struct {
	queue     messagequeue.MessageQueue
	queueName string
}

// NewQueuePublisher publishes sync events as JSON on queueName.
func NewQueuePublisher(queue messagequeue.MessageQueue, queueName string) EventPublisher {
	return &queuePublisher{queue: queue, queueName: queueName}
}

func (p *queuePublisher) Publish(ctx context.Context, event SyncEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal sync event: %w", err)
	}
	return p.queue.Publish(ctx, p.queueName, body)
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every event.
func NewNoopPublisher() EventPublisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, SyncEvent) error { return nil }

// DecodeSyncEvent parses a message body produced by the queue publisher.
func DecodeSyncEvent(body []byte) (SyncEvent, error) {
	var ev SyncEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return SyncEvent{}, fmt.Errorf("decode sync event: %w", err)
	}
	return ev, nil
}
