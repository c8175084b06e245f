package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-erp/internal/shared/contextutil"
	"go-erp/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"

	ctxIdempotencyCacheKey = "idempotency_cache_key"
	ctxIdempotencyLockKey  = "idempotency_lock_key"

	idempotencyLockTTL   = 30 * time.Second
	idempotencyResultTTL = 24 * time.Hour
)

// Idempotency replays the stored response for a repeated POST with the same
// Idempotency-Key and rejects a duplicate while the first is still running.
// A nil client disables it.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(HeaderIdempotencyKey)
		if rdb == nil || idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		log := contextutil.GetLogger(ctx, nil)
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), c.GetString(ContextUserID), idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(ctx, cacheKey).Result()
		switch {
		case err == nil:
			var cached json.RawMessage
			if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
				c.Header("Idempotent-Replayed", "true")
				response.Success(c, http.StatusOK, cached, nil)
				c.Abort()
				return
			}
			log.Warn("discarding unreadable idempotency entry", zap.String("key", cacheKey))
		case !errors.Is(err, redis.Nil):
			log.Warn("idempotency lookup failed, continuing without replay", zap.Error(err))
			c.Next()
			return
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			log.Warn("idempotency lock failed, continuing without lock", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.FromError(c, ErrIdempotencyInFlight)
			c.Abort()
			return
		}

		c.Set(ctxIdempotencyCacheKey, cacheKey)
		c.Set(ctxIdempotencyLockKey, lockKey)

		c.Next()
	}
}

// StoreIdempotentResult caches data under the request's key and releases the lock.
// Handlers call it once the write succeeded; a no-op without the middleware.
func StoreIdempotentResult(c *gin.Context, rdb *redis.Client, data any) {
	if rdb == nil {
		return
	}
	ctx := c.Request.Context()
	if cacheKey := c.GetString(ctxIdempotencyCacheKey); cacheKey != "" {
		if raw, err := json.Marshal(data); err == nil {
			if err := rdb.Set(ctx, cacheKey, raw, idempotencyResultTTL).Err(); err != nil {
				contextutil.GetLogger(ctx, nil).Warn("idempotency store failed", zap.Error(err))
			}
		}
	}
	ReleaseIdempotencyLock(c, rdb)
}

// ReleaseIdempotencyLock lets the caller retry after a failed write.
func ReleaseIdempotencyLock(c *gin.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if lockKey := c.GetString(ctxIdempotencyLockKey); lockKey != "" {
		rdb.Del(c.Request.Context(), lockKey)
	}
}
