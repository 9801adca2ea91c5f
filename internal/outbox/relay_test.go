package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	pending   []Message
	published []int64
	failed    []int64
	reason    string
}

func (s *stubStore) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *stubStore) Pending(_ context.Context, limit int) ([]Message, error) {
	out := make([]Message, 0, limit)
	for _, msg := range s.pending {
		if contains(s.published, msg.ID) || len(out) == limit {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func (s *stubStore) MarkPublished(_ context.Context, ids []int64) error {
	s.published = append(s.published, ids...)
	return nil
}

func (s *stubStore) MarkFailed(_ context.Context, ids []int64, reason string) error {
	s.failed = append(s.failed, ids...)
	s.reason = reason
	return nil
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type stubWriter struct {
	byTopic map[string][]kafka.Message
	err     error
}

func (w *stubWriter) WriteMessages(_ context.Context, topic string, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	if w.byTopic == nil {
		w.byTopic = make(map[string][]kafka.Message)
	}
	w.byTopic[topic] = append(w.byTopic[topic], msgs...)
	return nil
}

func message(id int64, topic, eventType string) Message {
	return Message{
		ID:            id,
		EventID:       "evt",
		AggregateType: "user",
		AggregateID:   "1",
		EventType:     eventType,
		Topic:         topic,
		PartitionKey:  "1",
		Payload:       json.RawMessage(`{"user_id":1}`),
	}
}

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRelayDrainsAllBatches(t *testing.T) {
	store := &stubStore{pending: []Message{
		message(1, "user_events", "user.created"),
		message(2, "workout_plan_events", "workout_plan.created"),
		message(3, "user_events", "user.updated"),
	}}
	writer := &stubWriter{}
	before := testutil.ToFloat64(deliveredCounter)

	published, err := NewRelay(store, writer, 2, discardLogger()).RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, published)
	require.ElementsMatch(t, []int64{1, 2, 3}, store.published)
	require.Len(t, writer.byTopic["user_events"], 2)
	require.Len(t, writer.byTopic["workout_plan_events"], 1)
	require.Equal(t, before+3, testutil.ToFloat64(deliveredCounter))

	msg := writer.byTopic["user_events"][0]
	require.Equal(t, []byte("1"), msg.Key)
	require.Equal(t, "event_type", msg.Headers[0].Key)
	require.Equal(t, []byte("user.created"), msg.Headers[0].Value)
}

func TestRelayRecordsFailureAndStops(t *testing.T) {
	store := &stubStore{pending: []Message{message(1, "user_events", "user.created")}}
	writer := &stubWriter{err: errors.New("broker unavailable")}
	before := testutil.ToFloat64(failedCounter)

	published, err := NewRelay(store, writer, 10, discardLogger()).RunOnce(context.Background())
	require.Error(t, err)
	require.Zero(t, published)
	require.Equal(t, []int64{1}, store.failed)
	require.Contains(t, store.reason, "broker unavailable")
	require.Empty(t, store.published)
	require.Equal(t, before+1, testutil.ToFloat64(failedCounter))
}

func TestRelayEmptyOutbox(t *testing.T) {
	published, err := NewRelay(&stubStore{}, &stubWriter{}, 10, discardLogger()).RunOnce(context.Background())
	require.NoError(t, err)
	require.Zero(t, published)
}
