package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/events"
	"github.com/phrazzld/taskboard-api/internal/platform/natsbus"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// application holds the process-wide dependencies and owns their shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	taskStore store.TaskStore

	jwtService  auth.JWTService
	userService service.UserService
	taskService service.TaskService

	emitter   *events.InMemoryEventEmitter
	publisher *natsbus.Publisher
}

// newApplication wires stores, services and event handlers around db.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{config: cfg, logger: logger, db: db}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	app.emitter = events.NewInMemoryEventEmitter(logger)
	app.emitter.RegisterHandler(events.NewLogHandler(logger))
	if cfg.Events.NATSURL != "" {
		app.publisher, err = natsbus.Connect(cfg.Events.NATSURL, cfg.Events.SubjectPrefix, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect event bus: %w", err)
		}
		app.emitter.RegisterHandler(app.publisher)
	}

	app.userService, err = service.NewUserService(service.UserServiceDeps{
		Users:            app.userStore,
		JWT:              app.jwtService,
		Hasher:           auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		Verifier:         auth.NewBcryptVerifier(),
		DB:               db,
		AllowAdminSignup: cfg.Auth.AllowAdminSignup,
		Logger:           logger,
	})
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.taskService, err = service.NewTaskService(app.taskStore, app.userStore, app.emitter, db, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("application initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"nats_enabled", app.publisher != nil)
	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down.
func (app *application) Run(ctx context.Context) error {
	return app.serve(ctx, app.setupRouter())
}

// cleanup drains the event bus and closes the database.
func (app *application) cleanup() {
	if app.publisher != nil {
		if err := app.publisher.Close(); err != nil {
			app.logger.Error("failed to drain event bus", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
