package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/platform/metrics"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// application holds the wired dependencies for the server process.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	db      *sql.DB
	metrics *metrics.Metrics

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	userStore       store.UserStore
	projectStore    store.ProjectStore
	taskStore       store.TaskStore
	priorityStore   store.PriorityStore
	statusStore     store.StatusStore
	commentStore    store.CommentStore
	attachmentStore store.AttachmentStore
}

// newApplication loads configuration, connects to the database, runs
// migrations and wires all services and stores.
func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	hasher := auth.NewBcryptHasher(0)

	app := &application{
		config:           cfg,
		logger:           log,
		db:               db,
		metrics:          metrics.New(),
		jwtService:       jwtService,
		passwordVerifier: hasher,
		userStore:        postgres.NewUserStore(db, hasher, log),
		projectStore:     postgres.NewProjectStore(db, log),
		taskStore:        postgres.NewTaskStore(db, log),
		priorityStore:    postgres.NewPriorityStore(db, log),
		statusStore:      postgres.NewStatusStore(db, log),
		commentStore:     postgres.NewCommentStore(db, log),
		attachmentStore:  postgres.NewAttachmentStore(db, log),
	}

	if err := app.bootstrapAdmin(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return app, nil
}

// bootstrapAdmin creates the configured admin account if it does not exist.
// Without admin configuration this is a no-op.
func (app *application) bootstrapAdmin(ctx context.Context) error {
	cfg := app.config.Admin
	if cfg.Username == "" {
		return nil
	}
	if cfg.Email == "" || cfg.Password == "" {
		return fmt.Errorf("admin bootstrap requires username, email and password")
	}

	_, err := app.userStore.GetByUsername(ctx, cfg.Username)
	if err == nil {
		app.logger.Debug("admin account already exists", "username", cfg.Username)
		return nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return fmt.Errorf("failed to check for admin account: %w", err)
	}

	admin, err := domain.NewUser(cfg.Username, cfg.Email, cfg.Password, "", domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("invalid admin bootstrap configuration: %w", err)
	}
	if err := app.userStore.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	app.logger.Info("admin account created", "username", cfg.Username)
	return nil
}

// cleanup releases the application's resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
