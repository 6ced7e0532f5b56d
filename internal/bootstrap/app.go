package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "resume-builder/internal/auth"
	"resume-builder/internal/export"
	"resume-builder/internal/render"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/storage/object"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/users"
	"resume-builder/internal/wizard"
)

// App holds shared dependencies.
type App struct {
	Config       config.Config
	Router       *gin.Engine
	DB           *sql.DB
	Store        object.ObjectStore
	Renderer     *render.Renderer
	SessionCache *wizard.Cache

	UsersRepo   users.Repo
	ResumesRepo resumes.Repo

	UsersService   *users.Service
	ResumesService *resumes.Service
	ExportService  *export.Service

	UsersHandler   *users.Handler
	ResumesHandler *resumes.Handler
	ExportHandler  *export.Handler
	GoogleAuth     *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	renderer, err := render.New()
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:       cfg,
		DB:           sqlDB,
		Store:        store,
		Renderer:     renderer,
		SessionCache: wizard.NewCache(cfg.SessionCacheDir),
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		ResumesHandler:  app.ResumesHandler,
		ExportHandler:   app.ExportHandler,
		UsersHandler:    app.UsersHandler,
		GoogleAuth:      app.GoogleAuth,
		ExportRateLimit: exportRateLimit(),
	})

	return app, nil
}

// NewForm starts a wizard session backed by this app's services.
func (a *App) NewForm(owner users.User) *wizard.Form {
	return wizard.NewForm(a.ResumesService, a.SessionCache, owner)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	var userRepo users.Repo
	var resumeRepo resumes.Repo
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		resumeRepo = &resumes.PGRepo{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
		resumeRepo = resumes.NewMemoryRepo()
	}

	userSvc := users.NewService(userRepo)
	resumeSvc := resumes.NewService(resumeRepo, userSvc)

	gen := export.NewGenerator(app.Renderer.Render)
	exportSvc := export.NewService(resumeSvc, gen, app.Store)

	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.UsersRepo = userRepo
	app.ResumesRepo = resumeRepo
	app.UsersService = userSvc
	app.ResumesService = resumeSvc
	app.ExportService = exportSvc
	app.UsersHandler = users.NewHandler(userSvc)
	app.ResumesHandler = resumes.NewHandler(resumeSvc, app.Renderer.Render)
	app.ExportHandler = export.NewHandler(exportSvc)
	app.GoogleAuth = googleAuthSvc
}

// exportRateLimit throttles PDF generation per caller; each export runs a
// headless browser.
func exportRateLimit() gin.HandlerFunc {
	return middleware.RateLimit(middleware.RateLimitConfig{
		DefaultGroup: "EXPORT",
		Rules: map[string]middleware.RateLimitRule{
			"EXPORT": {Rate: 0.5, Burst: 3},
		},
	})
}
