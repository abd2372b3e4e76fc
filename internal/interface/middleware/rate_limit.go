package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-engagement/pkg/response"
)

// ipFromCtx returns the address stored by RealIP, falling back to gin.
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func routeOf(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc builds the counter key for a request.
type KeyFunc func(c *gin.Context) string

// AllowFunc returns true to skip limiting for a request.
type AllowFunc func(*gin.Context) bool

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath limits each route separately per client address.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + routeOf(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID limits per authenticated user and route. Anonymous requests
// fall back to the client address.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		uid := UserID(c)
		if uid == "" {
			return "rl:user:anon:" + routeOf(c) + ":ip:" + ipFromCtx(c)
		}
		return "rl:user:" + uid + ":" + routeOf(c)
	}
}

// INCR and arm the expiry on the first hit, in one round trip.
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// RateLimit is a fixed window limiter backed by Redis.
type RateLimit struct {
	Redis  *redis.Client
	Logger *logrus.Logger
	Max    int
	Window time.Duration
	Key    KeyFunc
	Allow  AllowFunc
}

// Handler fails open when Redis is unavailable.
func (rl RateLimit) Handler() gin.HandlerFunc {
	if rl.Redis == nil || rl.Max <= 0 || rl.Window <= 0 || rl.Key == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if rl.Allow != nil && rl.Allow(c) {
			c.Next()
			return
		}
		if strings.EqualFold(c.Request.Method, http.MethodOptions) {
			c.Next()
			return
		}

		key := rl.Key(c)
		res, err := incrExpireScript.Run(c.Request.Context(), rl.Redis, []string{key}, rl.Window.Milliseconds()).Int64Slice()
		if err != nil || len(res) != 2 {
			if rl.Logger != nil {
				rl.Logger.WithError(err).WithField("key", key).Warn("rate limiter unavailable")
			}
			c.Next()
			return
		}
		count, ttlMs := int(res[0]), res[1]
		resetSec := 0
		if ttlMs > 0 {
			resetSec = int((time.Duration(ttlMs) * time.Millisecond).Seconds())
		}

		remaining := rl.Max - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.Max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if count > rl.Max {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Error[any](c, http.StatusTooManyRequests, "rate limit exceeded", "rate_limited")
			c.Abort()
			return
		}
		c.Next()
	}
}
