package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/logger"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader names the client-chosen key for a create request
const IdempotencyKeyHeader = "Idempotency-Key"

// MaxIdempotencyKeyLength caps the header value
const MaxIdempotencyKeyLength = 128

// IdempotencyConfig configures the Idempotency middleware
type IdempotencyConfig struct {
	Store  shared.IdempotencyStore
	TTL    time.Duration
	Logger *zap.Logger
}

// Idempotency rejects a second request carrying an Idempotency-Key that was
// already accepted for the same route and user. A key whose request failed
// is released so the client can retry with it. Requests without the header
// pass through.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.Store == nil {
		return passThrough
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
				"Request validation failed", GetRequestID(c),
				map[string]string{IdempotencyKeyHeader: "Must be at most " + strconv.Itoa(MaxIdempotencyKeyLength) + " characters"},
			))
			return
		}

		ctx := c.Request.Context()
		log := logger.Ctx(ctx, cfg.Logger)
		storeKey := idempotencyScope(c) + ":" + key

		fresh, err := cfg.Store.MarkProcessed(ctx, storeKey, cfg.TTL)
		if err != nil {
			// Fail open when the store is unreachable.
			log.Warn("Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !fresh {
			log.Info("Duplicate request rejected", zap.String("idempotency_key", key))
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponse(
				dto.ErrCodeDuplicateRequest,
				"A request with this Idempotency-Key was already processed",
				GetRequestID(c),
			))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			// The request context may be done by now; release on a fresh one.
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer cancel()
			if err := cfg.Store.Release(releaseCtx, storeKey); err != nil {
				log.Warn("Failed to release idempotency key", zap.Error(err))
			}
		}
	}
}

// idempotencyScope keys by route and caller so two users cannot collide
func idempotencyScope(c *gin.Context) string {
	scope := c.Request.Method + " " + routePattern(c)
	if id, ok := GetJWTUserID(c); ok {
		scope += ":u" + strconv.FormatInt(id, 10)
	}
	return scope
}
