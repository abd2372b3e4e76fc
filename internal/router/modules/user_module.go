package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blog-engagement/internal/application"
	handlers "github.com/oksasatya/blog-engagement/internal/interface/http"
	"github.com/oksasatya/blog-engagement/internal/interface/middleware"
)

// UserModule serves profiles and the follow/block graph.
// All routes require a session.
type UserModule struct {
	Handler  *handlers.UserHandler
	Sessions *application.SessionService
}

func NewUserModule(h *handlers.UserHandler, sessions *application.SessionService) *UserModule {
	return &UserModule{Handler: h, Sessions: sessions}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Sessions))
	auth.Use(limit(120, time.Minute, middleware.KeyByUserID()))
	{
		auth.GET("/profile", m.Handler.Me)
		auth.PUT("/profile", m.Handler.UpdateMe)

		auth.GET("/users/search", m.Handler.Search)
		auth.GET("/users/:id", m.Handler.Get)
		auth.GET("/users/:id/view", m.Handler.ViewProfile)
		auth.PUT("/users/:id/follow", m.Handler.Follow)
		auth.PUT("/users/:id/unfollow", m.Handler.Unfollow)
		auth.PUT("/users/:id/block", m.Handler.Block)
		auth.PUT("/users/:id/unblock", m.Handler.Unblock)
	}
}
