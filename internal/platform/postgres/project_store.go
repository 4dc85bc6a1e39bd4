package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/policy"
	"github.com/phrazzld/taskboard-api/internal/store"
)

const projectColumns = "id, name, description, owner_id, created_at, updated_at"

// ProjectStore implements store.ProjectStore using PostgreSQL.
// The single-fetch guard evaluates policy.CanAccessProject on the loaded
// row; List compiles the same ownership predicate into the query filter.
type ProjectStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProjectStore creates a PostgreSQL implementation of store.ProjectStore.
func NewProjectStore(db store.DBTX, log *slog.Logger) *ProjectStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ProjectStore{
		db:     db,
		logger: log.With(slog.String("component", "project_store")),
	}
}

var _ store.ProjectStore = (*ProjectStore)(nil)

// Create implements store.ProjectStore.Create.
func (s *ProjectStore) Create(ctx context.Context, project *domain.Project) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := project.Validate(); err != nil {
		log.Warn("project validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO projects (id, name, description, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx, query,
		project.ID, project.Name, project.Description,
		uuidOrNil(project.OwnerID), project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create project",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return MapError(err)
	}

	log.Info("project created", slog.String("project_id", project.ID.String()))
	return nil
}

// GetByID implements store.ProjectStore.GetByID. A project that exists but
// is not visible to the principal is reported as not found.
func (s *ProjectStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
	p policy.Principal,
) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf("SELECT %s FROM projects WHERE id = $1", projectColumns)
	project, err := scanProject(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProjectNotFound
		}
		log.Error("failed to get project",
			slog.String("error", err.Error()),
			slog.String("project_id", id.String()))
		return nil, err
	}

	if !policy.CanAccessProject(p, project) {
		log.Debug("project access denied, reporting not found",
			slog.String("project_id", id.String()),
			slog.String("principal_id", p.ID.String()))
		return nil, store.ErrProjectNotFound
	}

	return project, nil
}

// List implements store.ProjectStore.List.
func (s *ProjectStore) List(
	ctx context.Context,
	p policy.Principal,
	opts store.ListOptions,
) ([]*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	opts = opts.Normalize()

	var (
		where string
		args  []any
	)
	if !p.IsAdmin() {
		where = "WHERE owner_id = $1"
		args = append(args, p.ID)
	}
	args = append(args, opts.Skip, opts.Limit)

	query := fmt.Sprintf(
		"SELECT %s FROM projects %s ORDER BY created_at OFFSET $%d LIMIT $%d",
		projectColumns, where, len(args)-1, len(args),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list projects", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var projects []*domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// Update implements store.ProjectStore.Update.
func (s *ProjectStore) Update(
	ctx context.Context,
	id uuid.UUID,
	p policy.Principal,
	patch store.ProjectPatch,
) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Guard first so a denied update is indistinguishable from not-found.
	if _, err := s.GetByID(ctx, id, p); err != nil {
		return nil, err
	}

	if patch.Empty() {
		return s.GetByID(ctx, id, p)
	}

	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE projects SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), projectColumns,
	)

	project, err := scanProject(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProjectNotFound
		}
		log.Error("failed to update project",
			slog.String("error", err.Error()),
			slog.String("project_id", id.String()))
		return nil, MapError(err)
	}

	log.Info("project updated", slog.String("project_id", id.String()))
	return project, nil
}

// Delete implements store.ProjectStore.Delete. The schema cascades the
// deletion to the project's tasks.
func (s *ProjectStore) Delete(
	ctx context.Context,
	id uuid.UUID,
	p policy.Principal,
) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.GetByID(ctx, id, p); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("DELETE FROM projects WHERE id = $1 RETURNING %s", projectColumns)
	project, err := scanProject(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProjectNotFound
		}
		log.Error("failed to delete project",
			slog.String("error", err.Error()),
			slog.String("project_id", id.String()))
		return nil, err
	}

	log.Info("project deleted", slog.String("project_id", id.String()))
	return project, nil
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		project domain.Project
		owner   uuid.NullUUID
	)
	err := row.Scan(
		&project.ID, &project.Name, &project.Description,
		&owner, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if owner.Valid {
		project.OwnerID = &owner.UUID
	}
	return &project, nil
}

// uuidOrNil converts an optional UUID into a driver-friendly value.
func uuidOrNil(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}
