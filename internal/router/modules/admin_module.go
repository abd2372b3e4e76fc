package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blog-engagement/internal/application"
	"github.com/oksasatya/blog-engagement/internal/domain/entity"
	handlers "github.com/oksasatya/blog-engagement/internal/interface/http"
	"github.com/oksasatya/blog-engagement/internal/interface/middleware"
)

type AdminModule struct {
	Handler  *handlers.AdminHandler
	Sessions *application.SessionService
}

func NewAdminModule(h *handlers.AdminHandler, sessions *application.SessionService) *AdminModule {
	return &AdminModule{Handler: h, Sessions: sessions}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(m.Sessions), middleware.RequireRole(entity.RoleAdmin))
	{
		admin.POST("/relationships/reconcile", m.Handler.Reconcile)
	}
}
