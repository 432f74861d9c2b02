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
	"go-portal-rh/internal/middleware"
	"go-portal-rh/internal/rbac"
	"go-portal-rh/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp connects the infrastructure and mounts every module on router.
// The returned cleanup drains pending notifications and closes connections.
func BuildApp(router *gin.Engine, cfg *config.Config, audit bootstrap.AuditLogger) (func(context.Context), error) {
	logger := zap.L().Named("app")

	db, err := connection.ConnectGORMWithRetry(cfg.DB)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established", zap.String("driver", cfg.DB.Driver))

	if err := migrate(db, cfg); err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.DB.MaxRetries)
		if err != nil {
			return nil, err
		}
		logger.Info("redis connection established")
	} else {
		logger.Warn("REDIS_ADDR not set, caches and idempotency replay disabled")
	}

	router.Use(
		middleware.RequestID(),
		middleware.RateLimitByIP(20, 40),
	)

	dispatcher, err := registerModules(router, cfg, db, rdb, audit)
	if err != nil {
		return nil, err
	}

	cleanup := func(ctx context.Context) {
		if err := dispatcher.Close(ctx); err != nil {
			logger.Warn("notification queue not drained", zap.Error(err))
		}
		if rdb != nil {
			_ = rdb.Close()
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return cleanup, nil
}

// migrate creates the tables this service owns. The person directory tables
// belong to another system and are only created for local sqlite runs.
func migrate(db *gorm.DB, cfg *config.Config) error {
	models := []any{
		&leavebalance.LeaveBalance{},
		&leave.LeaveRequest{},
		&holiday.Holiday{},
		&kafka.OutboxEvent{},
		&rbac.RolePermissionRow{},
		&rbac.RoleParentRow{},
	}
	if cfg.DB.Driver == "sqlite" {
		models = append(models, &directory.Employee{}, &directory.UnitManager{})
	}
	return db.AutoMigrate(models...)
}
