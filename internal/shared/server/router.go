package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "resume-builder/internal/auth"
	"resume-builder/internal/export"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/users"
)

// RouterDeps carries the handlers the router wires up. Nil handlers are
// skipped, which lets tests wire only what they exercise.
type RouterDeps struct {
	Config          config.Config
	ResumesHandler  *resumes.Handler
	ExportHandler   *export.Handler
	UsersHandler    *users.Handler
	GoogleAuth      *googleauth.GoogleService
	ExportRateLimit gin.HandlerFunc
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

	// The share view is ungated; anyone with the link can read it.
	if deps.ResumesHandler != nil {
		deps.ResumesHandler.RegisterPublicRoutes(r)
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	api.Use(middleware.Auth(deps.Config.Env))
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.ResumesHandler != nil {
		deps.ResumesHandler.RegisterRoutes(api)
	}
	if deps.ExportHandler != nil {
		deps.ExportHandler.RegisterRoutes(api, deps.ExportRateLimit)
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
