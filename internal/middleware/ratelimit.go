package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/branchops/float_ledger/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RateLimit throttles requests per actor. It must run after AuthMiddleware;
// requests without an actor fall back to the client IP.
func RateLimit(rateLimiter *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateLimitKey(c)
		logger := GetLoggerFromCtx(c.Request.Context())

		state, err := rateLimiter.Get(c.Request.Context(), key)
		if err != nil {
			logger.Error("Failed to get rate limit context", slog.String("key", key), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.APIResponse{Success: false, Error: "Internal server error during rate limit check"})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(state.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(state.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(state.Reset, 10))

		if state.Reached {
			logger.Warn("Rate limit exceeded", slog.String("key", key), slog.Int64("limit", state.Limit))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.APIResponse{Success: false, Error: "Too many requests. Please try again later."})
			return
		}

		c.Next()
	}
}

// rateLimitKey buckets authenticated requests by user and the rest by client IP.
func rateLimitKey(c *gin.Context) string {
	if actor, ok := GetActorFromContext(c); ok && actor.UserID != "" {
		return "user:" + actor.UserID
	}
	return "ip:" + c.ClientIP()
}
