package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oksasatya/blog-engagement/internal/container"
	"github.com/oksasatya/blog-engagement/internal/interface/middleware"
	"github.com/oksasatya/blog-engagement/pkg/validation"
)

// NewEngine returns a gin engine with global middleware and every module
// registered under /api. /metrics serves the default Prometheus registry
// and is not counted itself.
func NewEngine() *gin.Engine {
	cfg := container.GetConfig()
	validation.Init()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(), middleware.RealIP())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		AllowAllOrigins:  len(cfg.CORSOrigins()) == 0,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.Env == "development" || cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	reg := NewRegistry(r)
	reg.Use(middleware.Metrics(container.GetMetrics()))
	InitModules(reg)
	reg.RegisterAll()
	return r
}
