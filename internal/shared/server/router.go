package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"micp-backend/internal/loginspect"
	"micp-backend/internal/projects"
	"micp-backend/internal/shared/config"
	"micp-backend/internal/shared/server/middleware"
	"micp-backend/internal/shared/server/respond"
	"micp-backend/internal/stats"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config          config.Config
	ProjectsHandler *projects.Handler
	StatsHandler    *stats.Handler
	LogsHandler     *loginspect.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	deps.ProjectsHandler.RegisterRoutes(api)
	deps.StatsHandler.RegisterRoutes(api)
	deps.LogsHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
