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

const taskColumns = "id, title, description, project_id, priority_id, status_id, owner_id, due_date, created_at, updated_at"

// taskDetailColumns selects a task row with its project, priority and
// status resolved in one query.
const taskDetailColumns = `
	t.id, t.title, t.description, t.project_id, t.priority_id, t.status_id,
	t.owner_id, t.due_date, t.created_at, t.updated_at,
	p.name, p.description, p.owner_id, p.created_at, p.updated_at,
	pr.name, pr.level, pr.color,
	st.name, st.order_num, st.is_final`

const taskDetailJoins = `
	FROM tasks t
	JOIN projects p ON p.id = t.project_id
	LEFT JOIN priorities pr ON pr.id = t.priority_id
	LEFT JOIN statuses st ON st.id = t.status_id`

// taskVisibilityPredicate is the SQL mirror of policy.CanAccessTask for
// non-admin principals: project ownership, task authorship, or assignment.
// The listing joins the assignee table, so matching tasks are deduplicated
// with DISTINCT.
const taskVisibilityPredicate = `(p.owner_id = $1 OR t.owner_id = $1 OR ta.user_id = $1)`

// TaskStore implements store.TaskStore using PostgreSQL. It holds the
// connection pool directly because task writes touch the assignee join
// table in the same transaction as the task row.
type TaskStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTaskStore creates a PostgreSQL implementation of store.TaskStore.
func NewTaskStore(db *sql.DB, log *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &TaskStore{
		db:     db,
		logger: log.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create. The task row and its assignee
// set are written in one transaction.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		query := fmt.Sprintf(`
			INSERT INTO tasks (%s)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, taskColumns)
		_, err := tx.ExecContext(
			ctx, query,
			task.ID, task.Title, task.Description, task.ProjectID,
			uuidOrNil(task.PriorityID), uuidOrNil(task.StatusID),
			uuidOrNil(task.OwnerID), task.DueDate,
			task.CreatedAt, task.UpdatedAt,
		)
		if err != nil {
			return MapError(err)
		}
		return insertAssignees(ctx, tx, task.ID, task.AssigneeIDs)
	})
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("project_id", task.ProjectID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID. The visibility guard is the
// policy predicate evaluated on the loaded row; a denied read is reported
// as not found.
func (s *TaskStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
	p policy.Principal,
) (*domain.TaskDetails, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf("SELECT %s %s WHERE t.id = $1", taskDetailColumns, taskDetailJoins)
	details, err := scanTaskDetails(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	assignees, err := s.loadAssignees(ctx, id)
	if err != nil {
		return nil, err
	}
	details.Assignees = assignees
	details.AssigneeIDs = make([]uuid.UUID, 0, len(assignees))
	for _, a := range assignees {
		details.AssigneeIDs = append(details.AssigneeIDs, a.ID)
	}

	if !policy.CanAccessTask(p, details.Project.OwnerID, &details.Task) {
		log.Debug("task access denied, reporting not found",
			slog.String("task_id", id.String()),
			slog.String("principal_id", p.ID.String()))
		return nil, store.ErrTaskNotFound
	}

	return details, nil
}

// List implements store.TaskStore.List. For non-admins the visibility
// predicate is applied as a deduplicated filter; it mirrors the guard in
// GetByID exactly, so a task is listed iff it can be fetched.
func (s *TaskStore) List(
	ctx context.Context,
	p policy.Principal,
	opts store.TaskListOptions,
) ([]*domain.TaskDetails, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	opts.ListOptions = opts.ListOptions.Normalize()

	var (
		joins      = taskDetailJoins
		conditions []string
		args       []any
	)
	if !p.IsAdmin() {
		joins += "\n\tLEFT JOIN task_assignees ta ON ta.task_id = t.id"
		args = append(args, p.ID)
		conditions = append(conditions, taskVisibilityPredicate)
	}
	addFilter := func(column string, id *uuid.UUID) {
		if id != nil {
			args = append(args, *id)
			conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	addFilter("t.project_id", opts.ProjectID)
	addFilter("t.status_id", opts.StatusID)
	addFilter("t.priority_id", opts.PriorityID)

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, opts.Skip, opts.Limit)

	query := fmt.Sprintf(
		"SELECT DISTINCT %s %s %s ORDER BY t.created_at, t.id OFFSET $%d LIMIT $%d",
		taskDetailColumns, joins, where, len(args)-1, len(args),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.TaskDetails
	for rows.Next() {
		details, err := scanTaskDetails(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, details)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, details := range tasks {
		ids, err := s.loadAssigneeIDs(ctx, details.ID)
		if err != nil {
			return nil, err
		}
		details.AssigneeIDs = ids
	}

	return tasks, nil
}

// Update implements store.TaskStore.Update. Scalar columns and the assignee
// set are written via separate paths inside one transaction.
func (s *TaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	p policy.Principal,
	patch store.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Guard first so a denied update is indistinguishable from not-found.
	existing, err := s.GetByID(ctx, id, p)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return &existing.Task, nil
	}

	var updated *domain.Task
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var (
			sets []string
			args []any
		)
		add := func(column string, value any) {
			args = append(args, value)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}

		if patch.Title != nil {
			add("title", *patch.Title)
		}
		if patch.Description != nil {
			add("description", *patch.Description)
		}
		if patch.ProjectID != nil {
			add("project_id", *patch.ProjectID)
		}
		if patch.ClearPriority {
			add("priority_id", nil)
		} else if patch.PriorityID != nil {
			add("priority_id", *patch.PriorityID)
		}
		if patch.ClearStatus {
			add("status_id", nil)
		} else if patch.StatusID != nil {
			add("status_id", *patch.StatusID)
		}
		if patch.ClearDueDate {
			add("due_date", nil)
		} else if patch.DueDate != nil {
			add("due_date", *patch.DueDate)
		}
		add("updated_at", time.Now().UTC())

		args = append(args, id)
		query := fmt.Sprintf(
			"UPDATE tasks SET %s WHERE id = $%d RETURNING %s",
			strings.Join(sets, ", "), len(args), taskColumns,
		)

		task, err := scanTask(tx.QueryRowContext(ctx, query, args...))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return store.ErrTaskNotFound
			}
			return MapError(err)
		}

		if patch.AssigneeIDs != nil {
			if _, err := tx.ExecContext(
				ctx, "DELETE FROM task_assignees WHERE task_id = $1", id,
			); err != nil {
				return MapError(err)
			}
			if err := insertAssignees(ctx, tx, id, *patch.AssigneeIDs); err != nil {
				return err
			}
		}

		updated = task
		return nil
	})
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to update task",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
		}
		return nil, err
	}

	ids, err := s.loadAssigneeIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	updated.AssigneeIDs = ids

	log.Info("task updated", slog.String("task_id", id.String()))
	return updated, nil
}

// Delete implements store.TaskStore.Delete. The schema cascades the
// deletion to assignee links, comments and attachments.
func (s *TaskStore) Delete(
	ctx context.Context,
	id uuid.UUID,
	p policy.Principal,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	existing, err := s.GetByID(ctx, id, p)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("DELETE FROM tasks WHERE id = $1 RETURNING %s", taskColumns)
	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}
	task.AssigneeIDs = existing.AssigneeIDs

	log.Info("task deleted", slog.String("task_id", id.String()))
	return task, nil
}

func (s *TaskStore) loadAssignees(ctx context.Context, taskID uuid.UUID) ([]domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users u
		JOIN task_assignees ta ON ta.user_id = u.id
		WHERE ta.task_id = $1
		ORDER BY u.username
	`, prefixColumns("u", userColumns))

	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (s *TaskStore) loadAssigneeIDs(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(
		ctx,
		"SELECT user_id FROM task_assignees WHERE task_id = $1 ORDER BY user_id",
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func insertAssignees(ctx context.Context, tx *sql.Tx, taskID uuid.UUID, userIDs []uuid.UUID) error {
	for _, userID := range userIDs {
		_, err := tx.ExecContext(
			ctx,
			"INSERT INTO task_assignees (task_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			taskID, userID,
		)
		if err != nil {
			return MapError(err)
		}
	}
	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task     domain.Task
		priority uuid.NullUUID
		status   uuid.NullUUID
		owner    uuid.NullUUID
		dueDate  sql.NullTime
	)
	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &task.ProjectID,
		&priority, &status, &owner, &dueDate,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if priority.Valid {
		task.PriorityID = &priority.UUID
	}
	if status.Valid {
		task.StatusID = &status.UUID
	}
	if owner.Valid {
		task.OwnerID = &owner.UUID
	}
	if dueDate.Valid {
		task.DueDate = &dueDate.Time
	}
	task.AssigneeIDs = []uuid.UUID{}
	return &task, nil
}

func scanTaskDetails(row rowScanner) (*domain.TaskDetails, error) {
	var (
		details       domain.TaskDetails
		priorityID    uuid.NullUUID
		statusID      uuid.NullUUID
		taskOwner     uuid.NullUUID
		dueDate       sql.NullTime
		project       domain.Project
		projectOwner  uuid.NullUUID
		priorityName  sql.NullString
		priorityLevel sql.NullInt64
		priorityColor sql.NullString
		statusName    sql.NullString
		statusOrder   sql.NullInt64
		statusFinal   sql.NullBool
	)
	err := row.Scan(
		&details.ID, &details.Title, &details.Description, &details.ProjectID,
		&priorityID, &statusID, &taskOwner, &dueDate,
		&details.CreatedAt, &details.UpdatedAt,
		&project.Name, &project.Description, &projectOwner,
		&project.CreatedAt, &project.UpdatedAt,
		&priorityName, &priorityLevel, &priorityColor,
		&statusName, &statusOrder, &statusFinal,
	)
	if err != nil {
		return nil, err
	}

	if priorityID.Valid {
		details.PriorityID = &priorityID.UUID
	}
	if statusID.Valid {
		details.StatusID = &statusID.UUID
	}
	if taskOwner.Valid {
		details.OwnerID = &taskOwner.UUID
	}
	if dueDate.Valid {
		details.DueDate = &dueDate.Time
	}
	details.AssigneeIDs = []uuid.UUID{}

	project.ID = details.ProjectID
	if projectOwner.Valid {
		project.OwnerID = &projectOwner.UUID
	}
	details.Project = &project

	if priorityID.Valid && priorityName.Valid {
		details.Priority = &domain.Priority{
			ID:    priorityID.UUID,
			Name:  priorityName.String,
			Level: int(priorityLevel.Int64),
			Color: priorityColor.String,
		}
	}
	if statusID.Valid && statusName.Valid {
		details.Status = &domain.Status{
			ID:       statusID.UUID,
			Name:     statusName.String,
			OrderNum: int(statusOrder.Int64),
			IsFinal:  statusFinal.Bool,
		}
	}

	return &details, nil
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, part := range parts {
		parts[i] = alias + "." + part
	}
	return strings.Join(parts, ", ")
}
