package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"cartify/internal/config"
	apperrors "cartify/internal/errors"
)

// gcraScript admits a request when the key's theoretical arrival time is no
// more than burst ahead of now. It stores that single timestamp and returns
// 0 when admitted, otherwise the milliseconds until the next admission.
var gcraScript = redis.NewScript(`
	local now = tonumber(ARGV[1])
	local interval = tonumber(ARGV[2])
	local burst = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local tat = tonumber(redis.call('GET', KEYS[1])) or now
	if tat < now then
		tat = now
	end
	if tat - now > burst then
		return tat - now - burst
	end

	tat = tat + interval
	redis.call('SET', KEYS[1], tat, 'PX', math.max(ttl, tat - now))
	return 0
`)

// RateLimit returns a Redis backed limiter keyed by client IP and route. A
// client may send cfg.Capacity requests at once and one more per
// cfg.RefillInterval after that. Requests pass when the limiter is disabled,
// has no Redis, or the script fails.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	interval := cfg.RefillInterval.Milliseconds()
	burst := interval * int64(cfg.Capacity-1)
	ttl := cfg.TTL.Milliseconds()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg.Prefix, c)
			waitMs, err := gcraScript.Run(c.Request().Context(), rdb, []string{key},
				time.Now().UnixMilli(), interval, burst, ttl).Int64()
			if err != nil {
				slog.Warn("rate limiter unavailable", "key", key, "error", err)
				return next(c)
			}
			if waitMs > 0 {
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(waitMs)))
				resp := apperrors.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded", "RATE_LIMITED").ToErrorResponse()
				return c.JSON(http.StatusTooManyRequests, resp)
			}
			return next(c)
		}
	}
}

func rateKey(prefix string, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	return strings.Join([]string{prefix, "ip", ip, "route", c.Request().Method + " " + c.Path()}, ":")
}

// retryAfterSeconds rounds a wait up to whole seconds, never below one.
func retryAfterSeconds(waitMs int64) int {
	secs := int((waitMs + 999) / 1000)
	if secs < 1 {
		secs = 1
	}
	return secs
}
