// Package outbox delivers recorded lifecycle events to Kafka.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Message represents a row fetched from the outbox.
type Message struct {
	ID            int64
	EventID       string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	PartitionKey  string
	Payload       json.RawMessage
	OccurredAt    time.Time
}

// Store is the outbox table as seen by the relay.
type Store interface {
	ExecTx(ctx context.Context, fn func(ctx context.Context) error) error
	Pending(ctx context.Context, limit int) ([]Message, error)
	MarkPublished(ctx context.Context, ids []int64) error
	MarkFailed(ctx context.Context, ids []int64, reason string) error
}

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// Relay drains the outbox once per invocation. Re-running it is the retry.
type Relay struct {
	store     Store
	producer  messageWriter
	batchSize int
	logger    *slog.Logger
}

// NewRelay constructs a Relay.
func NewRelay(store Store, producer messageWriter, batchSize int, logger *slog.Logger) *Relay {
	if batchSize <= 0 {
		batchSize = 25
	}
	return &Relay{store: store, producer: producer, batchSize: batchSize, logger: logger}
}

// RunOnce publishes batches until the outbox is empty or a delivery fails.
// It returns the number of events published.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := r.processBatch(ctx)
		total += n
		if err != nil {
			return total, err
		}
		if n < r.batchSize {
			return total, nil
		}
	}
}

func (r *Relay) processBatch(ctx context.Context) (int, error) {
	start := time.Now()
	published := 0
	var deliveryErr error

	err := r.store.ExecTx(ctx, func(ctx context.Context) error {
		messages, err := r.store.Pending(ctx, r.batchSize)
		if err != nil {
			return err
		}
		if len(messages) == 0 {
			return nil
		}
		defer batchDuration.Observe(time.Since(start).Seconds())

		ids := make([]int64, len(messages))
		for i, msg := range messages {
			ids[i] = msg.ID
		}

		if deliveryErr = r.deliver(ctx, messages); deliveryErr != nil {
			failedCounter.Add(float64(len(messages)))
			return r.store.MarkFailed(ctx, ids, deliveryErr.Error())
		}
		if err := r.store.MarkPublished(ctx, ids); err != nil {
			return err
		}
		deliveredCounter.Add(float64(len(messages)))
		published = len(messages)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if deliveryErr != nil {
		r.logger.Error("outbox delivery failed", "error", deliveryErr)
		return 0, fmt.Errorf("deliver outbox batch: %w", deliveryErr)
	}
	if published > 0 {
		r.logger.Info("outbox batch published", "count", published)
	}
	return published, nil
}

func (r *Relay) deliver(ctx context.Context, messages []Message) error {
	batches := make(map[string][]kafka.Message)
	order := make([]string, 0)

	for _, msg := range messages {
		record := kafka.Message{
			Key:   []byte(msg.PartitionKey),
			Value: []byte(msg.Payload),
			Time:  msg.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(msg.EventType)},
				{Key: "event_id", Value: []byte(msg.EventID)},
				{Key: "aggregate_type", Value: []byte(msg.AggregateType)},
				{Key: "aggregate_id", Value: []byte(msg.AggregateID)},
			},
		}
		if _, ok := batches[msg.Topic]; !ok {
			order = append(order, msg.Topic)
		}
		batches[msg.Topic] = append(batches[msg.Topic], record)
	}

	for _, topic := range order {
		if err := r.producer.WriteMessages(ctx, topic, batches[topic]...); err != nil {
			return fmt.Errorf("topic %s: %w", topic, err)
		}
	}
	return nil
}
