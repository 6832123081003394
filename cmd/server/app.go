package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/directory"
	"github.com/phrazzld/tasks-api/internal/platform/memory"
	"github.com/phrazzld/tasks-api/internal/platform/redis"
	"github.com/phrazzld/tasks-api/internal/platform/sqlstore"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
)

// Backend names accepted in configuration.
const (
	driverMemory = "memory"
	backendRedis = "redis"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config    *config.Config
	logger    *slog.Logger
	startedAt time.Time

	// nil for the memory driver
	db          *sql.DB
	redisClient *goredis.Client

	taskStore   store.TaskStore
	directory   directory.UserDirectory
	registry    *prometheus.Registry
	taskService service.TaskService
}

// newApplication wires stores, the user directory and services from configuration.
// Resources opened before a failure are released before returning.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *application, err error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	app := &application{
		config:    cfg,
		logger:    logger,
		startedAt: time.Now(),
		registry:  prometheus.NewRegistry(),
	}
	defer func() {
		if err != nil {
			app.cleanup()
		}
	}()

	if cfg.Server.MetricsEnabled {
		app.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if err := app.setupTaskStore(ctx); err != nil {
		return nil, err
	}
	if err := app.setupDirectory(ctx); err != nil {
		return nil, err
	}

	repo := service.NewTaskRepositoryAdapter(app.taskStore, logger)
	taskService, err := service.NewTaskService(repo, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}
	if cfg.Server.MetricsEnabled {
		taskService, err = service.NewMetricsTaskService(app.registry, taskService)
		if err != nil {
			return nil, fmt.Errorf("failed to register task service metrics: %w", err)
		}
	}
	app.taskService = taskService

	return app, nil
}

// setupTaskStore selects the task store for the configured database driver,
// applying migrations first when auto_migrate is set.
func (app *application) setupTaskStore(ctx context.Context) error {
	if app.config.Database.Driver == driverMemory {
		app.taskStore = memory.NewTaskStore(app.logger)
		app.logger.Warn("Using in-memory task store; tasks are lost on restart")
		return nil
	}

	db, dialect, err := sqlstore.Open(ctx, app.config.Database, app.logger)
	if err != nil {
		return err
	}
	app.db = db

	if app.config.Database.AutoMigrate {
		if err := sqlstore.Migrate(ctx, db, dialect, sqlstore.MigrateUp, app.logger); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	app.taskStore = sqlstore.NewTaskStore(db, dialect, app.logger)
	return nil
}

// setupDirectory selects the user directory backend. The Redis backend sits
// behind a circuit breaker.
func (app *application) setupDirectory(ctx context.Context) error {
	dirCfg := app.config.Directory
	if dirCfg.Backend != backendRedis {
		app.directory = directory.NewStaticDirectory(directory.DevelopmentUsers())
		return nil
	}

	client, err := redis.NewClient(ctx, dirCfg.RedisURL)
	if err != nil {
		return err
	}
	app.redisClient = client

	app.directory = directory.NewBreakerDirectory(
		redis.NewUserDirectory(client, app.logger),
		directory.BreakerConfig{
			FailureThreshold: dirCfg.BreakerFailureThreshold,
			OpenTimeout:      time.Duration(dirCfg.BreakerTimeoutSeconds) * time.Second,
			LookupTimeout:    time.Duration(dirCfg.LookupTimeoutMillis) * time.Millisecond,
		},
		app.logger,
	)
	return nil
}

// Run serves HTTP until ctx is canceled or a shutdown signal arrives.
func (app *application) Run(ctx context.Context) error {
	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases connections held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		app.logger.Info("Closing database connection")
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}
	if app.redisClient != nil {
		app.logger.Info("Closing redis connection")
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("Error closing redis connection", slog.String("error", err.Error()))
		}
	}
}
