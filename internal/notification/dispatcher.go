// Package notification carries committed leave transitions to the outside
// world without ever holding up the workflow engine.
package notification

import (
	"context"
	"sync"

	"go-portal-rh/internal/events"
	"go-portal-rh/internal/shared/contextutil"

	"go.uber.org/zap"
)

const DefaultQueueSize = 256

// Sink receives transitions from the dispatcher's worker.
type Sink interface {
	Deliver(ctx context.Context, evt events.LeaveTransitionEvent) error
}

type envelope struct {
	requestID string
	event     events.LeaveTransitionEvent
}

// Dispatcher queues transitions in a bounded buffer and hands them to a sink
// from a single worker. Notify never blocks: when the buffer is full the
// event is dropped and logged.
type Dispatcher struct {
	sink   Sink
	queue  chan envelope
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(sink Sink, queueSize int, logger ...*zap.Logger) *Dispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Dispatcher{
		sink:   sink,
		queue:  make(chan envelope, queueSize),
		logger: l,
		done:   make(chan struct{}),
	}
}

// Start runs the delivery worker until Close drains the queue.
func (d *Dispatcher) Start() {
	go d.run()
}

func (d *Dispatcher) Notify(ctx context.Context, evt events.LeaveTransitionEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("dispatcher closed, dropping leave transition",
			zap.String("leave_id", evt.RequestID),
			zap.String("to_status", evt.ToStatus),
		)
		return
	}

	select {
	case d.queue <- envelope{requestID: contextutil.GetRequestID(ctx), event: evt}:
	default:
		d.logger.Warn("notification queue full, dropping leave transition",
			zap.String("leave_id", evt.RequestID),
			zap.String("to_status", evt.ToStatus),
			zap.Int("capacity", cap(d.queue)),
		)
	}
}

// Close stops accepting events and waits until the queued ones are
// delivered or ctx expires.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for env := range d.queue {
		ctx := context.Background()
		if env.requestID != "" {
			ctx = contextutil.WithRequestID(ctx, env.requestID)
		}

		if err := d.sink.Deliver(ctx, env.event); err != nil {
			d.logger.Error("deliver leave transition failed",
				zap.String("leave_id", env.event.RequestID),
				zap.String("from_status", env.event.FromStatus),
				zap.String("to_status", env.event.ToStatus),
				zap.Error(err),
			)
		}
	}
}
