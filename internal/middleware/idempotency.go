package middleware

import (
	"fmt"
	"net/http"
	"time"

	"go-portal-rh/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	idempotencyLockTTL   = 30 * time.Second
)

// Idempotency rejects a POST while another request with the same
// Idempotency-Key from the same employee is still in flight. The replay of a
// completed request is answered by the handler from its stored result, so
// the lock is released once the handler returns.
func Idempotency(rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(HeaderIdempotencyKey)
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		employeeID := c.GetString(string(ContextEmployeeID))
		lockKey := fmt.Sprintf("idemp:%s:%s:%s:lock", c.FullPath(), employeeID, idempKey)
		ctx := c.Request.Context()

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			// Redis down: the database uniqueness check still protects us.
			logger.Warn("idempotency lock unavailable", zap.String("key", lockKey), zap.Error(err))
			c.Next()
			return
		}

		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING", "A request with this Idempotency-Key is still being processed", nil)
			c.Abort()
			return
		}

		c.Next()

		if err := rdb.Del(ctx, lockKey).Err(); err != nil {
			logger.Warn("idempotency lock release failed", zap.String("key", lockKey), zap.Error(err))
		}
	}
}
