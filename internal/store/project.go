package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/policy"
)

// ProjectPatch describes a partial update to a project. Nil fields leave the
// existing value unchanged.
type ProjectPatch struct {
	Name        *string
	Description *string
}

// Empty reports whether the patch carries no changes.
func (p ProjectPatch) Empty() bool {
	return p.Name == nil && p.Description == nil
}

// ProjectStore defines policy-scoped project persistence. Reads, updates and
// deletes evaluate the project access rule for the given principal; a denied
// request is indistinguishable from an absent project (ErrProjectNotFound).
type ProjectStore interface {
	// Create saves a new project.
	Create(ctx context.Context, project *domain.Project) error

	// GetByID retrieves a project visible to the principal.
	// Returns ErrProjectNotFound when absent or not visible.
	GetByID(ctx context.Context, id uuid.UUID, p policy.Principal) (*domain.Project, error)

	// List returns the projects visible to the principal, using the same
	// predicate as GetByID compiled into the query filter.
	List(ctx context.Context, p policy.Principal, opts ListOptions) ([]*domain.Project, error)

	// Update applies the patch to a project visible to the principal and
	// returns the updated record.
	Update(ctx context.Context, id uuid.UUID, p policy.Principal, patch ProjectPatch) (*domain.Project, error)

	// Delete removes a project visible to the principal, cascading to its
	// tasks, and returns the deleted record.
	Delete(ctx context.Context, id uuid.UUID, p policy.Principal) (*domain.Project, error)
}
