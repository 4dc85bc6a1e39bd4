package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// PriorityPatch describes a partial update to a priority.
type PriorityPatch struct {
	Name  *string
	Level *int
	Color *string
}

// Empty reports whether the patch carries no changes.
func (p PriorityPatch) Empty() bool {
	return p.Name == nil && p.Level == nil && p.Color == nil
}

// StatusPatch describes a partial update to a status.
type StatusPatch struct {
	Name     *string
	OrderNum *int
	IsFinal  *bool
}

// Empty reports whether the patch carries no changes.
func (p StatusPatch) Empty() bool {
	return p.Name == nil && p.OrderNum == nil && p.IsFinal == nil
}

// PriorityStore defines persistence for priority reference data. Reads are
// open to any authenticated principal; writes are admin-only, enforced at
// the HTTP surface.
type PriorityStore interface {
	Create(ctx context.Context, priority *domain.Priority) error

	// GetByID returns ErrPriorityNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Priority, error)

	// List returns all priorities ordered by level.
	List(ctx context.Context) ([]*domain.Priority, error)

	Update(ctx context.Context, id uuid.UUID, patch PriorityPatch) (*domain.Priority, error)

	// Delete removes the priority, nulling references from tasks, and
	// returns the deleted record.
	Delete(ctx context.Context, id uuid.UUID) (*domain.Priority, error)
}

// StatusStore defines persistence for status reference data, with the same
// access rules as PriorityStore.
type StatusStore interface {
	Create(ctx context.Context, status *domain.Status) error

	// GetByID returns ErrStatusNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Status, error)

	// List returns all statuses ordered by order_num.
	List(ctx context.Context) ([]*domain.Status, error)

	Update(ctx context.Context, id uuid.UUID, patch StatusPatch) (*domain.Status, error)

	// Delete removes the status, nulling references from tasks, and returns
	// the deleted record.
	Delete(ctx context.Context, id uuid.UUID) (*domain.Status, error)
}
