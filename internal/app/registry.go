package app

import (
	"context"

	"go-portal-rh/internal/bootstrap"
	"go-portal-rh/internal/config"
	"go-portal-rh/internal/directory"
	"go-portal-rh/internal/holiday"
	"go-portal-rh/internal/leave"
	"go-portal-rh/internal/leavebalance"
	"go-portal-rh/internal/messaging/kafka"
	"go-portal-rh/internal/notification"
	"go-portal-rh/internal/rbac"
	"go-portal-rh/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	audit bootstrap.AuditLogger,
) (*notification.Dispatcher, error) {
	ctx := context.Background()

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(db)
	directoryRepo := directory.NewRepository(db)
	holidayRepo := holiday.NewRepository(db)
	balanceRepo := leavebalance.NewRepository(db)
	leaveRepo := leave.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(cfg.RBACModel)
	if err != nil {
		return nil, err
	}
	if err := rbacRepo.SeedDefaults(ctx); err != nil {
		return nil, err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)
	if err := rbacService.LoadPolicy(ctx); err != nil {
		return nil, err
	}

	// --- Notifications ---
	var sink notification.Sink = notification.NewAuditSink(audit)
	if cfg.KafkaBroker != "" {
		sink = notification.NewOutboxSink(outboxRepo)
	}
	dispatcher := notification.NewDispatcher(sink, cfg.Leave.NotifyQueueSize)
	dispatcher.Start()

	// --- Services ---
	policy, err := leave.LoadDayPolicy(cfg.Leave.PolicyFile)
	if err != nil {
		return nil, err
	}
	directoryService := directory.NewService(directoryRepo, rdb)
	holidayService := holiday.NewService(holidayRepo, rdb)
	balanceStore := leavebalance.NewStore(balanceRepo)
	balanceService := leavebalance.NewService(balanceRepo, balanceStore)
	leaveService := leave.NewService(
		db,
		leaveRepo,
		balanceStore,
		directoryService,
		leave.NewDayCounter(policy, holidayService),
		audit,
		dispatcher,
		leave.Options{
			MaxTxRetries: cfg.Leave.MaxTxRetries,
			RetryBackoff: cfg.Leave.RetryBackoff,
		},
	)

	// --- Handlers ---
	rbacHandler := rbac.NewHandler(rbacService)
	holidayHandler := holiday.NewHandler(holidayService)
	balanceHandler := leavebalance.NewHandler(balanceService)
	leaveHandler := leave.NewHandler(leaveService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		rbac.RegisterRoutes(api, rbacHandler, cfg.JWTSecret)
		holiday.RegisterRoutes(api, holidayHandler, rbacService, cfg.JWTSecret)
		leavebalance.RegisterRoutes(api, balanceHandler, rbacService, cfg.JWTSecret)
		leave.RegisterRoutes(api, leaveHandler, rbacService, cfg.JWTSecret, rdb)
	}

	zap.L().Named("app").Info("modules registered",
		zap.Bool("outbox_notifications", cfg.KafkaBroker != ""),
		zap.Int("max_tx_retries", cfg.Leave.MaxTxRetries),
	)
	return dispatcher, nil
}
