package consumer

import (
	"context"
	"encoding/json"

	"go-portal-rh/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// TransitionDeliverer hands a leave transition to its final recipient.
type TransitionDeliverer interface {
	Deliver(ctx context.Context, evt events.LeaveTransitionEvent) error
}

func ConsumeLeaveTransitions(
	ctx context.Context,
	reader MessageReader,
	deliverer TransitionDeliverer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_transition")
	log.Info("leave transition consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave transition consumer stopped")
				return
			}
			log.Error("fetch leave transition message failed", zap.Error(err))
			continue
		}

		var event events.LeaveTransitionEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave transition event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if event.EventType != "" && event.EventType != events.LeaveTransitionEventType {
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := deliverer.Deliver(ctx, event); err != nil {
			log.Error("deliver leave transition failed",
				zap.String("leave_id", event.RequestID),
				zap.String("to_status", event.ToStatus),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave transition message failed", zap.Error(err))
			continue
		}

		log.Info("leave transition delivered",
			zap.String("leave_id", event.RequestID),
			zap.String("from_status", event.FromStatus),
			zap.String("to_status", event.ToStatus),
		)
	}
}
