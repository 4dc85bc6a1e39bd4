package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/store"
)

const (
	priorityColumns = "id, name, level, color"
	statusColumns   = "id, name, order_num, is_final"
)

// PriorityStore implements store.PriorityStore using PostgreSQL.
type PriorityStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPriorityStore creates a PostgreSQL implementation of store.PriorityStore.
func NewPriorityStore(db store.DBTX, log *slog.Logger) *PriorityStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &PriorityStore{
		db:     db,
		logger: log.With(slog.String("component", "priority_store")),
	}
}

var _ store.PriorityStore = (*PriorityStore)(nil)

// Create implements store.PriorityStore.Create.
func (s *PriorityStore) Create(ctx context.Context, priority *domain.Priority) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := priority.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf("INSERT INTO priorities (%s) VALUES ($1, $2, $3, $4)", priorityColumns)
	_, err := s.db.ExecContext(ctx, query,
		priority.ID, priority.Name, priority.Level, priority.Color)
	if err != nil {
		log.Error("failed to create priority",
			slog.String("error", err.Error()),
			slog.String("priority_id", priority.ID.String()))
		return MapError(err)
	}

	log.Info("priority created", slog.String("priority_id", priority.ID.String()))
	return nil
}

// GetByID implements store.PriorityStore.GetByID.
func (s *PriorityStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Priority, error) {
	query := fmt.Sprintf("SELECT %s FROM priorities WHERE id = $1", priorityColumns)
	priority, err := scanPriority(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPriorityNotFound
		}
		return nil, err
	}
	return priority, nil
}

// List implements store.PriorityStore.List.
func (s *PriorityStore) List(ctx context.Context) ([]*domain.Priority, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf("SELECT %s FROM priorities ORDER BY level", priorityColumns)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list priorities", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var priorities []*domain.Priority
	for rows.Next() {
		priority, err := scanPriority(rows)
		if err != nil {
			return nil, err
		}
		priorities = append(priorities, priority)
	}
	return priorities, rows.Err()
}

// Update implements store.PriorityStore.Update.
func (s *PriorityStore) Update(
	ctx context.Context,
	id uuid.UUID,
	patch store.PriorityPatch,
) (*domain.Priority, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.Empty() {
		return s.GetByID(ctx, id)
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
	if patch.Level != nil {
		add("level", *patch.Level)
	}
	if patch.Color != nil {
		add("color", *patch.Color)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE priorities SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), priorityColumns,
	)

	priority, err := scanPriority(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPriorityNotFound
		}
		log.Error("failed to update priority",
			slog.String("error", err.Error()),
			slog.String("priority_id", id.String()))
		return nil, MapError(err)
	}

	log.Info("priority updated", slog.String("priority_id", id.String()))
	return priority, nil
}

// Delete implements store.PriorityStore.Delete. Tasks referencing the
// priority keep their rows with the reference cleared by the schema.
func (s *PriorityStore) Delete(ctx context.Context, id uuid.UUID) (*domain.Priority, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf("DELETE FROM priorities WHERE id = $1 RETURNING %s", priorityColumns)
	priority, err := scanPriority(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPriorityNotFound
		}
		log.Error("failed to delete priority",
			slog.String("error", err.Error()),
			slog.String("priority_id", id.String()))
		return nil, err
	}

	log.Info("priority deleted", slog.String("priority_id", id.String()))
	return priority, nil
}

func scanPriority(row rowScanner) (*domain.Priority, error) {
	var priority domain.Priority
	err := row.Scan(&priority.ID, &priority.Name, &priority.Level, &priority.Color)
	if err != nil {
		return nil, err
	}
	return &priority, nil
}

// StatusStore implements store.StatusStore using PostgreSQL.
type StatusStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewStatusStore creates a PostgreSQL implementation of store.StatusStore.
func NewStatusStore(db store.DBTX, log *slog.Logger) *StatusStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &StatusStore{
		db:     db,
		logger: log.With(slog.String("component", "status_store")),
	}
}

var _ store.StatusStore = (*StatusStore)(nil)

// Create implements store.StatusStore.Create.
func (s *StatusStore) Create(ctx context.Context, status *domain.Status) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := status.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf("INSERT INTO statuses (%s) VALUES ($1, $2, $3, $4)", statusColumns)
	_, err := s.db.ExecContext(ctx, query,
		status.ID, status.Name, status.OrderNum, status.IsFinal)
	if err != nil {
		log.Error("failed to create status",
			slog.String("error", err.Error()),
			slog.String("status_id", status.ID.String()))
		return MapError(err)
	}

	log.Info("status created", slog.String("status_id", status.ID.String()))
	return nil
}

// GetByID implements store.StatusStore.GetByID.
func (s *StatusStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Status, error) {
	query := fmt.Sprintf("SELECT %s FROM statuses WHERE id = $1", statusColumns)
	status, err := scanStatus(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStatusNotFound
		}
		return nil, err
	}
	return status, nil
}

// List implements store.StatusStore.List.
func (s *StatusStore) List(ctx context.Context) ([]*domain.Status, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf("SELECT %s FROM statuses ORDER BY order_num", statusColumns)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list statuses", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var statuses []*domain.Status
	for rows.Next() {
		status, err := scanStatus(rows)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, rows.Err()
}

// Update implements store.StatusStore.Update.
func (s *StatusStore) Update(
	ctx context.Context,
	id uuid.UUID,
	patch store.StatusPatch,
) (*domain.Status, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.Empty() {
		return s.GetByID(ctx, id)
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
	if patch.OrderNum != nil {
		add("order_num", *patch.OrderNum)
	}
	if patch.IsFinal != nil {
		add("is_final", *patch.IsFinal)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE statuses SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), statusColumns,
	)

	status, err := scanStatus(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStatusNotFound
		}
		log.Error("failed to update status",
			slog.String("error", err.Error()),
			slog.String("status_id", id.String()))
		return nil, MapError(err)
	}

	log.Info("status updated", slog.String("status_id", id.String()))
	return status, nil
}

// Delete implements store.StatusStore.Delete. Tasks referencing the status
// keep their rows with the reference cleared by the schema.
func (s *StatusStore) Delete(ctx context.Context, id uuid.UUID) (*domain.Status, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf("DELETE FROM statuses WHERE id = $1 RETURNING %s", statusColumns)
	status, err := scanStatus(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStatusNotFound
		}
		log.Error("failed to delete status",
			slog.String("error", err.Error()),
			slog.String("status_id", id.String()))
		return nil, err
	}

	log.Info("status deleted", slog.String("status_id", id.String()))
	return status, nil
}

func scanStatus(row rowScanner) (*domain.Status, error) {
	var status domain.Status
	err := row.Scan(&status.ID, &status.Name, &status.OrderNum, &status.IsFinal)
	if err != nil {
		return nil, err
	}
	return &status, nil
}
