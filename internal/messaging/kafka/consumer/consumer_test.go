package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go-portal-rh/internal/events"
	"go-portal-rh/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReader serves queued messages and blocks on ctx once drained.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafkago.Message
	committed []int64
	drained   chan struct{}
}

func newFakeReader(msgs ...kafkago.Message) *fakeReader {
	for i := range msgs {
		msgs[i].Offset = int64(i)
	}
	return &fakeReader{queue: msgs, drained: make(chan struct{})}
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		m := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()

	select {
	case <-r.drained:
	default:
		close(r.drained)
	}
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

type recordingDeliverer struct {
	delivered []events.LeaveTransitionEvent
	failFor   string
}

func (d *recordingDeliverer) Deliver(_ context.Context, evt events.LeaveTransitionEvent) error {
	if evt.RequestID == d.failFor {
		return errors.New("sink unavailable")
	}
	d.delivered = append(d.delivered, evt)
	return nil
}

func message(t *testing.T, v any) kafkago.Message {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return kafkago.Message{Value: raw}
}

func TestConsumeLeaveTransitions(t *testing.T) {
	reader := newFakeReader(
		message(t, events.LeaveTransitionEvent{EventType: events.LeaveTransitionEventType, RequestID: "a", ToStatus: "pending"}),
		kafkago.Message{Value: []byte("{not json")},
		message(t, events.EmployeeCreatedEvent{EventType: events.EmployeeCreatedEventType, EmployeeID: "e"}),
		message(t, events.LeaveTransitionEvent{EventType: events.LeaveTransitionEventType, RequestID: "boom", ToStatus: "rejected"}),
		message(t, events.LeaveTransitionEvent{EventType: events.LeaveTransitionEventType, RequestID: "b", FromStatus: "pending", ToStatus: "manager_approved"}),
	)
	deliverer := &recordingDeliverer{failFor: "boom"}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		consumer.ConsumeLeaveTransitions(ctx, reader, deliverer, zap.NewNop())
		close(done)
	}()

	select {
	case <-reader.drained:
	case <-time.After(time.Second):
		t.Fatal("consumer did not drain the reader")
	}
	cancel()
	<-done

	require.Len(t, deliverer.delivered, 2)
	assert.Equal(t, "a", deliverer.delivered[0].RequestID)
	assert.Equal(t, "manager_approved", deliverer.delivered[1].ToStatus)

	// The failed delivery at offset 3 is left uncommitted.
	assert.Equal(t, []int64{0, 1, 2, 4}, reader.committed)
}
