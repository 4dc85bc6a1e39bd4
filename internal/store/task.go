package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/policy"
)

// TaskPatch describes a partial update to a task. Nil fields leave the
// existing value unchanged. AssigneeIDs, when non-nil, replaces the whole
// assignee set via the join table, separately from the scalar columns.
// ClearPriority/ClearStatus/ClearDueDate distinguish "set to null" from
// "leave unchanged".
type TaskPatch struct {
	Title         *string
	Description   *string
	ProjectID     *uuid.UUID
	PriorityID    *uuid.UUID
	ClearPriority bool
	StatusID      *uuid.UUID
	ClearStatus   bool
	DueDate       *time.Time
	ClearDueDate  bool
	AssigneeIDs   *[]uuid.UUID
}

// Empty reports whether the patch carries no changes.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.ProjectID == nil &&
		p.PriorityID == nil && !p.ClearPriority &&
		p.StatusID == nil && !p.ClearStatus &&
		p.DueDate == nil && !p.ClearDueDate &&
		p.AssigneeIDs == nil
}

// TaskListOptions carries the optional filters for task listings on top of
// pagination.
type TaskListOptions struct {
	ListOptions
	ProjectID  *uuid.UUID
	StatusID   *uuid.UUID
	PriorityID *uuid.UUID
}

// TaskStore defines policy-scoped task persistence. A task is visible to a
// non-admin principal through three independent grant paths: owning the
// task's project, having created the task, or being assigned to it. The
// single-fetch guard and the listing filter evaluate the same predicate.
type TaskStore interface {
	// Create saves a new task and its assignee set in one transaction.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task visible to the principal, with its project,
	// priority, status and assignees resolved.
	// Returns ErrTaskNotFound when absent or not visible.
	GetByID(ctx context.Context, id uuid.UUID, p policy.Principal) (*domain.TaskDetails, error)

	// List returns the tasks visible to the principal, applying the
	// visibility predicate as a deduplicated query filter: a task granted
	// through more than one path appears exactly once.
	List(ctx context.Context, p policy.Principal, opts TaskListOptions) ([]*domain.TaskDetails, error)

	// Update applies the patch to a task visible to the principal and
	// returns the updated record.
	Update(ctx context.Context, id uuid.UUID, p policy.Principal, patch TaskPatch) (*domain.Task, error)

	// Delete removes a task visible to the principal, cascading to its
	// comments and attachments, and returns the deleted record.
	Delete(ctx context.Context, id uuid.UUID, p policy.Principal) (*domain.Task, error)
}
