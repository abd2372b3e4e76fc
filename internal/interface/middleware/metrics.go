package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blog-engagement/pkg/metrics"
)

// Metrics counts requests by route template and status.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveRequest(path, c.Writer.Status())
	}
}
