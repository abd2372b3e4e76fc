package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP skips limiting for loopback and private network clients.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		return parsed != nil && (parsed.IsLoopback() || parsed.IsPrivate())
	}
}

// AllowAny skips limiting when one of fns does.
func AllowAny(fns ...AllowFunc) AllowFunc {
	return func(c *gin.Context) bool {
		for _, fn := range fns {
			if fn != nil && fn(c) {
				return true
			}
		}
		return false
	}
}

// AllowRoles skips limiting for users holding one of roles.
func AllowRoles(roles ...string) AllowFunc {
	return func(c *gin.Context) bool {
		u := CurrentUser(c)
		if u == nil {
			return false
		}
		for _, r := range roles {
			if string(u.Role) == r {
				return true
			}
		}
		return false
	}
}
