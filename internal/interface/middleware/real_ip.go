package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP stores the client address under "real_ip". Proxy headers are read
// in order CF-Connecting-IP, X-Real-IP, then the left-most X-Forwarded-For;
// c.ClientIP() is the fallback.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", realIP(c))
		c.Next()
	}
}

func realIP(c *gin.Context) string {
	candidates := []string{
		c.GetHeader("CF-Connecting-IP"),
		c.GetHeader("X-Real-IP"),
		strings.Split(c.GetHeader("X-Forwarded-For"), ",")[0],
	}
	for _, v := range candidates {
		if ip := net.ParseIP(strings.TrimSpace(v)); ip != nil {
			return ip.String()
		}
	}
	return c.ClientIP()
}
