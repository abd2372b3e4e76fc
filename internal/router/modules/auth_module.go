package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blog-engagement/internal/application"
	handlers "github.com/oksasatya/blog-engagement/internal/interface/http"
	"github.com/oksasatya/blog-engagement/internal/interface/middleware"
)

// AuthModule serves session and token routes.
// Public: register, login, logout, password forgot/reset
// Protected: verification request and confirm
type AuthModule struct {
	Handler  *handlers.AuthHandler
	Sessions *application.SessionService
}

func NewAuthModule(h *handlers.AuthHandler, sessions *application.SessionService) *AuthModule {
	return &AuthModule{Handler: h, Sessions: sessions}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	byIP := limit(10, time.Minute, middleware.KeyByIPAndPath())
	forgot := limit(5, time.Minute, middleware.KeyByIPAndPath())
	redeem := limit(30, time.Minute, middleware.KeyByIPAndPath())

	rg.POST("/auth/register", byIP, m.Handler.Register)
	rg.POST("/auth/login", byIP, m.Handler.Login)
	rg.POST("/auth/logout", m.Handler.Logout)
	rg.POST("/auth/password/forgot", forgot, m.Handler.ForgotPassword)
	rg.PUT("/auth/password/reset/:token", redeem, m.Handler.ResetPassword)

	auth := rg.Group("/auth")
	auth.Use(middleware.Auth(m.Sessions))
	{
		auth.POST("/verify", limit(5, time.Minute, middleware.KeyByUserID()), m.Handler.RequestVerification)
		auth.PUT("/verify/:token", redeem, m.Handler.Verify)
	}
}
