package router

import "github.com/gin-gonic/gin"

// Module is a feature area that registers its routes under /api.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects modules and the middleware shared by every /api route.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
	registered  bool
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

// Use adds middleware for /api routes only; call before RegisterAll.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// RegisterAll mounts every module once. Later calls are no-ops.
func (r *Registry) RegisterAll() {
	if r.registered {
		return
	}
	r.registered = true
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
