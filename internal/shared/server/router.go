package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fmla-backend/internal/fmla"
	"fmla-backend/internal/shared/config"
	"fmla-backend/internal/shared/metrics"
	"fmla-backend/internal/shared/server/middleware"
	"fmla-backend/internal/shared/server/respond"
)

// RouterDeps holds handlers required to build the router.
type RouterDeps struct {
	Config      config.Config
	FMLAHandler *fmla.Handler
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

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.FMLAHandler != nil {
		deps.FMLAHandler.RegisterRoutes(api)
	}

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
