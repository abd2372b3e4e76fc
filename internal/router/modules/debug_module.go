package modules

import (
	"expvar"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/blog-engagement/internal/interface/middleware"
)

var publishPoolOnce sync.Once

type DebugModule struct {
	Pool *pgxpool.Pool
}

func NewDebugModule(pool *pgxpool.Pool) *DebugModule { return &DebugModule{Pool: pool} }

// Register exposes expvar at /api/debug/vars, rate limited per IP.
// Connection pool stats appear under "pgpool" when postgres is in use.
func (m *DebugModule) Register(rg *gin.RouterGroup) {
	if m.Pool != nil {
		pool := m.Pool
		publishPoolOnce.Do(func() {
			expvar.Publish("pgpool", expvar.Func(func() any {
				st := pool.Stat()
				return map[string]any{
					"total_conns":    st.TotalConns(),
					"idle_conns":     st.IdleConns(),
					"acquired_conns": st.AcquiredConns(),
					"max_conns":      st.MaxConns(),
					"acquire_count":  st.AcquireCount(),
				}
			}))
		})
	}
	rg.GET("/debug/vars", limit(120, time.Minute, middleware.KeyByIP()), gin.WrapH(expvar.Handler()))
}
