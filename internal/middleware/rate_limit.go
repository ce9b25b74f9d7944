package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/pkg/logger"
)

// RateLimitConfig configures the per-client request budget
type RateLimitConfig struct {
	Requests  int
	Window    time.Duration
	KeyPrefix string
	Message   string
}

// DefaultRateLimitConfig allows 120 requests per client per minute
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Requests:  120,
		Window:    time.Minute,
		KeyPrefix: "prm:ratelimit:",
		Message:   "Request was throttled. Please try again later.",
	}
}

var rateLimited = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "prm",
	Subsystem: "http",
	Name:      "rate_limited_total",
	Help:      "Requests rejected by the rate limiter",
})

// incrWindow bumps the counter for the current window and sets its expiry on first use.
// Returns the count and the remaining TTL in milliseconds.
var incrWindow = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {n, redis.call('PTTL', KEYS[1])}
`)

// RateLimit counts requests per client IP in fixed windows kept in Redis.
// Health and metrics paths are never counted. A nil client or a Redis error lets the request through.
func RateLimit(client *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	def := DefaultRateLimitConfig()
	if cfg.Requests <= 0 {
		cfg.Requests = def.Requests
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.Message == "" {
		cfg.Message = def.Message
	}
	limit := strconv.Itoa(cfg.Requests)

	return func(c *gin.Context) {
		if client == nil || quietPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		window := time.Now().UnixMilli() / cfg.Window.Milliseconds()
		key := cfg.KeyPrefix + c.ClientIP() + ":" + strconv.FormatInt(window, 10)

		res, err := incrWindow.Run(c.Request.Context(), client, []string{key}, cfg.Window.Milliseconds()).Int64Slice()
		if err != nil || len(res) != 2 {
			logger.Ctx(c.Request.Context()).Warn().Err(err).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		count, ttl := res[0], res[1]

		remaining := int64(cfg.Requests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(cfg.Requests) {
			retry := (ttl + 999) / 1000
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retry, 10))
			rateLimited.Inc()
			common.ErrorResponse(c, http.StatusTooManyRequests, cfg.Message, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
