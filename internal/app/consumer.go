package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-portal-rh/internal/bootstrap"
	"go-portal-rh/internal/config"
	"go-portal-rh/internal/events"
	"go-portal-rh/internal/leavebalance"
	"go-portal-rh/internal/messaging/kafka/consumer"
	"go-portal-rh/internal/notification"
	"go-portal-rh/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	leaveNotificationGroup = "portal-rh-leave-notifications"
	leaveBalanceGroup      = "portal-rh-leave-balance"
)

// RunConsumer delivers published leave transitions to the audit trail and
// provisions balances for newly created employees.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	db, err := connection.ConnectGORMWithRetry(cfg.DB)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	balanceRepo := leavebalance.NewRepository(db)
	balanceService := leavebalance.NewService(balanceRepo, leavebalance.NewStore(balanceRepo))

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.LeaveTransitionTopic,
		GroupID:        leaveNotificationGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
		MaxWait:        time.Second,
	})
	defer reader.Close()

	provisioner := leavebalance.NewEmployeeCreatedConsumer(
		cfg.KafkaBroker,
		leaveBalanceGroup,
		balanceService,
		cfg.Leave.DefaultEntitlement,
	)
	defer provisioner.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := notification.NewAuditSink(bootstrap.NewStdoutAuditLogger())
	go consumer.ConsumeLeaveTransitions(ctx, reader, sink, logger)
	provisioner.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
