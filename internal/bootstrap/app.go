package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"micp-backend/internal/loginspect"
	"micp-backend/internal/projects"
	"micp-backend/internal/shared/config"
	"micp-backend/internal/shared/server"
	"micp-backend/internal/shared/storage/db"
	"micp-backend/internal/shared/storage/object"
	localstore "micp-backend/internal/shared/storage/object/local"
	"micp-backend/internal/shared/telemetry"
	"micp-backend/internal/stats"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	ProjectsRepo    projects.Repo
	ProjectsService *projects.Service
	StatsService    *stats.Service

	ProjectsHandler *projects.Handler
	StatsHandler    *stats.Handler
	LogsHandler     *loginspect.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  localstore.New(cfg.LocalStoreDir),
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		ProjectsHandler: app.ProjectsHandler,
		StatsHandler:    app.StatsHandler,
		LogsHandler:     app.LogsHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("DATABASE_URL empty; using in-memory repositories", nil)
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("database connect failed; using in-memory repositories", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			telemetry.Warn("migrations failed; using in-memory repositories", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildServices(app *App) {
	var repo projects.Repo
	if app.DB != nil {
		repo = &projects.PGRepo{DB: app.DB}
	} else {
		repo = projects.NewMemoryRepo()
	}

	projectsSvc := &projects.Service{Repo: repo, Store: app.Store}
	statsSvc := &stats.Service{Repo: repo}

	app.ProjectsRepo = repo
	app.ProjectsService = projectsSvc
	app.StatsService = statsSvc
	app.ProjectsHandler = projects.NewHandler(projectsSvc)
	app.StatsHandler = stats.NewHandler(statsSvc)
	app.LogsHandler = loginspect.NewHandler()
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
