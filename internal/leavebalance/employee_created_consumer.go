package leavebalance

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-portal-rh/internal/events"
	leavebalanceerrors "go-portal-rh/internal/leavebalance/errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EmployeeCreatedConsumer provisions the current year's balance for every
// newly created employee.
type EmployeeCreatedConsumer struct {
	reader      MessageReader
	service     Service
	entitlement int
	now         func() time.Time
	logger      *zap.Logger
}

func NewEmployeeCreatedConsumer(
	broker string,
	groupID string,
	service Service,
	entitlement int,
	logger ...*zap.Logger,
) *EmployeeCreatedConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{broker},
		Topic:          events.EmployeeCreatedTopic,
		GroupID:        groupID,
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})
	return newEmployeeCreatedConsumer(reader, service, entitlement, logger...)
}

func newEmployeeCreatedConsumer(
	reader MessageReader,
	service Service,
	entitlement int,
	logger ...*zap.Logger,
) *EmployeeCreatedConsumer {
	l := zap.L().Named("leavebalance.consumer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.consumer")
	}

	return &EmployeeCreatedConsumer{
		reader:      reader,
		service:     service,
		entitlement: entitlement,
		now:         time.Now,
		logger:      l,
	}
}

func (c *EmployeeCreatedConsumer) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *EmployeeCreatedConsumer) Close() error {
	return c.reader.Close()
}

func (c *EmployeeCreatedConsumer) run(ctx context.Context) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("consume employee_created failed", zap.Error(err))
			continue
		}

		if c.handle(ctx, msg) {
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("commit employee_created event failed", zap.Error(err))
			}
		}
	}
}

// handle reports whether the message is finished with and may be committed.
// Undecodable messages are committed so they do not block the partition.
func (c *EmployeeCreatedConsumer) handle(ctx context.Context, msg kafka.Message) bool {
	var event events.EmployeeCreatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("decode employee_created event failed", zap.Error(err))
		return true
	}

	if event.EventType != "" && event.EventType != events.EmployeeCreatedEventType {
		return true
	}

	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = c.now()
	}

	entitlement := c.entitlement
	resp, created, err := c.service.Provision(ctx, ProvisionBalanceRequest{
		EmployeeID:      event.EmployeeID,
		Year:            occurred.UTC().Year(),
		EntitlementDays: &entitlement,
	})
	if err != nil {
		c.logger.Error("provision leave balance failed",
			zap.String("employee_id", event.EmployeeID),
			zap.Error(err),
		)
		// A malformed event will never succeed, only infrastructure errors
		// are worth redelivering.
		return errors.Is(err, leavebalanceerrors.ErrInvalidEmployeeID) ||
			errors.Is(err, leavebalanceerrors.ErrInvalidYear)
	}

	if !created {
		c.logger.Warn("leave balance already provisioned for event, skipping",
			zap.String("employee_id", event.EmployeeID),
			zap.Int("year", resp.Year),
		)
		return true
	}

	c.logger.Info("leave balance provisioned from employee_created event",
		zap.String("employee_id", event.EmployeeID),
		zap.Int("year", resp.Year),
		zap.Int("entitlement_days", resp.EntitlementDays),
	)
	return true
}
