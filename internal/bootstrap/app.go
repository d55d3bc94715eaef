package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cvgen-backend/internal/docrender"
	"cvgen-backend/internal/gendocs"
	"cvgen-backend/internal/genjobs"
	"cvgen-backend/internal/profiles"
	"cvgen-backend/internal/shared/config"
	"cvgen-backend/internal/shared/server"
	"cvgen-backend/internal/shared/storage/db"
	"cvgen-backend/internal/shared/storage/object"
	localstore "cvgen-backend/internal/shared/storage/object/local"
	s3store "cvgen-backend/internal/shared/storage/object/s3"
	"cvgen-backend/internal/templates"
	"cvgen-backend/internal/tokens"
)

// App holds shared dependencies for the api and worker binaries.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	ProfileRepo  profiles.Repo
	TemplateRepo templates.Repo
	JobRepo      genjobs.Repo
	DocumentRepo gendocs.Repo
	TokenRepo    tokens.Repo

	EnginePool *docrender.EnginePool
	Renderer   *docrender.Renderer
	Dispatcher *genjobs.Dispatcher

	DocumentService   *gendocs.Service
	TokenService      *tokens.Service
	GenerationService *genjobs.Service
}

// Build prepares all dependencies and wires the router.
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

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}
	buildRepos(app)

	if err := app.TemplateRepo.Seed(ctx, templates.Builtins()); err != nil {
		return nil, fmt.Errorf("seed templates: %w", err)
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		ProfileHandler:    profiles.NewHandler(app.ProfileRepo),
		TemplateHandler:   templates.NewHandler(app.TemplateRepo),
		GenerationHandler: genjobs.NewHandler(app.GenerationService),
		DocumentHandler:   gendocs.NewHandler(app.DocumentService),
		TokenHandler:      tokens.NewHandler(app.TokenService, app.DocumentService),
	})

	return app, nil
}

// Close releases pooled resources.
func (a *App) Close() {
	if a.EnginePool != nil {
		a.EnginePool.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
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
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildRepos(app *App) {
	if app.DB != nil {
		app.ProfileRepo = &profiles.PGRepo{DB: app.DB}
		app.TemplateRepo = &templates.PGRepo{DB: app.DB}
		app.JobRepo = &genjobs.PGRepo{DB: app.DB}
		app.DocumentRepo = &gendocs.PGRepo{DB: app.DB}
		app.TokenRepo = &tokens.PGRepo{DB: app.DB}
		return
	}
	app.ProfileRepo = profiles.NewMemoryRepo()
	app.TemplateRepo = templates.NewMemoryRepo()
	app.JobRepo = genjobs.NewMemoryRepo()
	app.DocumentRepo = gendocs.NewMemoryRepo()
	app.TokenRepo = tokens.NewMemoryRepo()
}

func buildServices(app *App) {
	cfg := app.Config

	app.EnginePool = docrender.NewEnginePool(cfg.EnginePoolSize, cfg.ChromePath)
	app.Renderer = &docrender.Renderer{
		Pool:            app.EnginePool,
		CheckoutTimeout: cfg.CheckoutTimeout,
		RenderTimeout:   cfg.RenderTimeout,
	}

	app.DocumentService = gendocs.NewService(app.DocumentRepo, app.Store, cfg.StorageQuotaBytes)
	app.TokenService = tokens.NewService(app.TokenRepo, time.Duration(cfg.TokenTTLHours)*time.Hour, cfg.TokenMaxUses)

	app.Dispatcher = genjobs.NewDispatcher(
		app.JobRepo,
		app.ProfileRepo,
		app.TemplateRepo,
		app.Renderer,
		app.DocumentService,
		cfg.WorkerCount,
		cfg.RetryMax,
		cfg.RetryBaseBackoff,
	)
	app.GenerationService = genjobs.NewService(app.JobRepo, app.ProfileRepo, app.TemplateRepo, app.DocumentService, app.Dispatcher)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
