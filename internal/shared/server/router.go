package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cvgen-backend/internal/gendocs"
	"cvgen-backend/internal/genjobs"
	"cvgen-backend/internal/profiles"
	"cvgen-backend/internal/shared/config"
	"cvgen-backend/internal/shared/server/middleware"
	"cvgen-backend/internal/shared/server/respond"
	"cvgen-backend/internal/templates"
	"cvgen-backend/internal/tokens"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config            config.Config
	ProfileHandler    *profiles.Handler
	TemplateHandler   *templates.Handler
	GenerationHandler *genjobs.Handler
	DocumentHandler   *gendocs.Handler
	TokenHandler      *tokens.Handler
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
		middleware.Identity(),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	deps.ProfileHandler.RegisterRoutes(api)
	deps.TemplateHandler.RegisterRoutes(api)
	deps.GenerationHandler.RegisterRoutes(api)
	deps.DocumentHandler.RegisterRoutes(api)
	deps.TokenHandler.RegisterRoutes(api)

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
