package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HarshShiyani/fitness-tracker/internal/events"
	"github.com/HarshShiyani/fitness-tracker/internal/outbox"
)

// OutboxRepository writes lifecycle events to the outbox table and hands
// pending rows to the relay.
type OutboxRepository struct {
	pool *pgxpool.Pool
}

// NewOutboxRepository constructs an OutboxRepository.
func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

// Append inserts the record. It must run in the transaction that made the change.
func (r *OutboxRepository) Append(ctx context.Context, record events.Record) error {
	meta, ok := events.Lookup(record.Type)
	if !ok {
		return fmt.Errorf("unknown event type: %s", record.Type)
	}
	body, err := json.Marshal(record.Payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", record.Type, err)
	}

	const stmt = `INSERT INTO outbox (event_id, aggregate_type, aggregate_id, event_type, topic, partition_key, payload, occurred_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = executor(ctx, r.pool).Exec(ctx, stmt,
		record.ID,
		meta.AggregateType,
		record.AggregateID,
		string(record.Type),
		meta.Topic,
		record.PartitionKey,
		body,
		record.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert outbox: %w", err)
	}
	return nil
}

// Pending returns up to limit unpublished rows, oldest first. Inside a
// transaction the rows are locked and skipped by concurrent relays.
func (r *OutboxRepository) Pending(ctx context.Context, limit int) ([]outbox.Message, error) {
	query := `SELECT id, event_id::text, aggregate_type, aggregate_id, event_type, topic, partition_key, payload, occurred_at
        FROM outbox
        WHERE published_at IS NULL
        ORDER BY id
        LIMIT $1`
	if getTx(ctx) != nil {
		query += ` FOR UPDATE SKIP LOCKED`
	}

	rows, err := executor(ctx, r.pool).Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("select outbox: %w", err)
	}
	defer rows.Close()

	messages := make([]outbox.Message, 0)
	for rows.Next() {
		var msg outbox.Message
		if err := rows.Scan(&msg.ID, &msg.EventID, &msg.AggregateType, &msg.AggregateID, &msg.EventType, &msg.Topic, &msg.PartitionKey, &msg.Payload, &msg.OccurredAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// MarkPublished stamps the rows as delivered.
func (r *OutboxRepository) MarkPublished(ctx context.Context, ids []int64) error {
	if _, err := executor(ctx, r.pool).Exec(ctx, `UPDATE outbox SET published_at = NOW() WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}

// MarkFailed records a delivery attempt that did not succeed.
func (r *OutboxRepository) MarkFailed(ctx context.Context, ids []int64, reason string) error {
	const stmt = `UPDATE outbox SET attempts = attempts + 1, last_error = $2 WHERE id = ANY($1)`
	if _, err := executor(ctx, r.pool).Exec(ctx, stmt, ids, reason); err != nil {
		return fmt.Errorf("mark outbox failed: %w", err)
	}
	return nil
}

// RelaySource pairs the outbox table with a transaction manager for outbox.Relay.
type RelaySource struct {
	*OutboxRepository
	tx *TransactionManager
}

// NewRelaySource constructs a RelaySource.
func NewRelaySource(pool *pgxpool.Pool, logger *slog.Logger) *RelaySource {
	return &RelaySource{OutboxRepository: NewOutboxRepository(pool), tx: NewTransactionManager(pool, logger)}
}

// ExecTx runs fn in a transaction so claimed rows stay locked until marked.
func (s *RelaySource) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.tx.ExecTx(ctx, fn)
}
