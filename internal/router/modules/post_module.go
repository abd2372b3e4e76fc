package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blog-engagement/internal/application"
	handlers "github.com/oksasatya/blog-engagement/internal/interface/http"
	"github.com/oksasatya/blog-engagement/internal/interface/middleware"
)

// PostModule serves the feed and per-post routes.
// Likes and dislikes additionally require a verified account when
// requireVerified is set.
type PostModule struct {
	Handler         *handlers.PostHandler
	Sessions        *application.SessionService
	RequireVerified bool
}

func NewPostModule(h *handlers.PostHandler, sessions *application.SessionService, requireVerified bool) *PostModule {
	return &PostModule{Handler: h, Sessions: sessions, RequireVerified: requireVerified}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	posts := rg.Group("/posts")
	posts.Use(middleware.Auth(m.Sessions))
	posts.Use(limit(300, time.Minute, middleware.KeyByUserID()))
	verified := middleware.RequireVerified(m.RequireVerified)
	{
		posts.GET("", m.Handler.Feed)
		posts.POST("", m.Handler.Create)
		posts.GET("/:id", m.Handler.Get)
		posts.PUT("/:id/likes", verified, m.Handler.Like)
		posts.PUT("/:id/dislikes", verified, m.Handler.Dislike)
		posts.POST("/:id/claps", m.Handler.Clap)
		posts.PUT("/:id/schedule", m.Handler.Schedule)
	}
}
