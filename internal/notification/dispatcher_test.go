package notification_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-portal-rh/internal/events"
	"go-portal-rh/internal/notification"
	"go-portal-rh/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSink struct {
	mu       sync.Mutex
	events   []events.LeaveTransitionEvent
	requests []string
	started  chan struct{}
	block    chan struct{}
	err      error
}

func (s *recordingSink) Deliver(ctx context.Context, evt events.LeaveTransitionEvent) error {
	if s.started != nil {
		select {
		case s.started <- struct{}{}:
		default:
		}
	}
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	s.requests = append(s.requests, contextutil.GetRequestID(ctx))
	return s.err
}

func (s *recordingSink) delivered() []events.LeaveTransitionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]events.LeaveTransitionEvent(nil), s.events...)
}

func transition(id, to string) events.LeaveTransitionEvent {
	return events.LeaveTransitionEvent{
		EventType: events.LeaveTransitionEventType,
		RequestID: id,
		ToStatus:  to,
		Timestamp: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

func TestDispatcher_DeliversInOrder(t *testing.T) {
	sink := &recordingSink{}
	d := notification.NewDispatcher(sink, 8)
	d.Start()

	ctx := contextutil.WithRequestID(context.Background(), "rid-7")
	d.Notify(ctx, transition("a", "pending"))
	d.Notify(ctx, transition("a", "manager_approved"))
	d.Notify(ctx, transition("a", "hr_approved"))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(closeCtx))

	got := sink.delivered()
	if assert.Len(t, got, 3) {
		assert.Equal(t, "pending", got[0].ToStatus)
		assert.Equal(t, "hr_approved", got[2].ToStatus)
	}
	assert.Equal(t, []string{"rid-7", "rid-7", "rid-7"}, sink.requests)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sink := &recordingSink{started: make(chan struct{}, 1), block: make(chan struct{})}
	d := notification.NewDispatcher(sink, 1, zap.New(core))
	d.Start()

	// The first event is taken by the blocked worker, the second fills the
	// buffer and everything after that is dropped.
	d.Notify(context.Background(), transition("1", "pending"))
	select {
	case <-sink.started:
	case <-time.After(time.Second):
		t.Fatal("worker never picked up the first event")
	}
	d.Notify(context.Background(), transition("2", "pending"))

	done := make(chan struct{})
	go func() {
		d.Notify(context.Background(), transition("3", "pending"))
		d.Notify(context.Background(), transition("4", "pending"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full queue")
	}

	close(sink.block)
	require.NoError(t, d.Close(context.Background()))

	assert.Len(t, sink.delivered(), 2)
	assert.Equal(t, 2, logs.FilterMessage("notification queue full, dropping leave transition").Len())
}

func TestDispatcher_SinkErrorsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	sink := &recordingSink{err: errors.New("db down")}
	d := notification.NewDispatcher(sink, 4, zap.New(core))
	d.Start()

	d.Notify(context.Background(), transition("x", "rejected"))
	require.NoError(t, d.Close(context.Background()))

	assert.Equal(t, 1, logs.FilterMessage("deliver leave transition failed").Len())
}

func TestDispatcher_NotifyAfterClose(t *testing.T) {
	sink := &recordingSink{}
	d := notification.NewDispatcher(sink, 4)
	d.Start()
	require.NoError(t, d.Close(context.Background()))

	assert.NotPanics(t, func() {
		d.Notify(context.Background(), transition("late", "pending"))
	})
	assert.Empty(t, sink.delivered())
	assert.NoError(t, d.Close(context.Background()))
}
