package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blog-engagement/internal/application"
	"github.com/oksasatya/blog-engagement/internal/domain/apperror"
	"github.com/oksasatya/blog-engagement/internal/domain/entity"
	"github.com/oksasatya/blog-engagement/pkg/helpers"
	"github.com/oksasatya/blog-engagement/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxUserKey   = "user"
)

// Auth resolves the session credential from the access_token cookie, or a
// Bearer header for API clients, and stores the user in the context.
func Auth(sessions *application.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := sessions.Authenticate(c.Request.Context(), credential(c))
		if err != nil {
			abortWith(c, err)
			return
		}
		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserKey, u)
		c.Next()
	}
}

func credential(c *gin.Context) string {
	if token, err := c.Cookie(helpers.SessionCookie); err == nil && token != "" {
		return token
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// RequireRole lets only users holding one of roles through. Must run after Auth.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			abortWith(c, application.ErrUnauthenticated)
			return
		}
		for _, r := range roles {
			if u.Role == r {
				c.Next()
				return
			}
		}
		abortWith(c, application.ErrForbiddenRole)
	}
}

// RequireVerified rejects unverified accounts when enabled. Must run after Auth.
func RequireVerified(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}
		u := CurrentUser(c)
		if u == nil {
			abortWith(c, application.ErrUnauthenticated)
			return
		}
		if !u.IsVerified {
			abortWith(c, application.ErrNotVerified)
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, or "".
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

func abortWith(c *gin.Context, err error) {
	kind := apperror.KindOf(err)
	response.Error[any](c, kind.HTTPStatus(), apperror.MessageOf(err), kind.String())
	c.Abort()
}
