package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blog-engagement/internal/container"
	"github.com/oksasatya/blog-engagement/internal/interface/middleware"
)

// limit builds a Redis fixed-window limiter; without Redis it is a no-op.
func limit(max int, window time.Duration, key middleware.KeyFunc) gin.HandlerFunc {
	return middleware.RateLimit{
		Redis:  container.GetRedis(),
		Logger: container.GetLogger(),
		Max:    max,
		Window: window,
		Key:    key,
		Allow:  middleware.AllowAny(middleware.AllowRoles("Admin")),
	}.Handler()
}
