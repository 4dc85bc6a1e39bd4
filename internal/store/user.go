package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// UserPatch describes a partial update to a user record. Nil fields leave
// the existing value unchanged; a non-nil Password is hashed and written via
// a separate path from the scalar fields.
type UserPatch struct {
	Username *string
	Email    *string
	FullName *string
	Role     *domain.Role
	Active   *bool
	Password *string
}

// Empty reports whether the patch carries no changes.
func (p UserPatch) Empty() bool {
	return p.Username == nil && p.Email == nil && p.FullName == nil &&
		p.Role == nil && p.Active == nil && p.Password == nil
}

// UserStore defines the interface for user persistence. User records are not
// policy-scoped at this layer; the HTTP surface enforces the admin-only and
// self-update rules before calling in.
type UserStore interface {
	// Create saves a new user, hashing the plaintext Password internally.
	// Returns ErrUsernameExists or ErrEmailExists on unique violations.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by username.
	// Returns ErrUserNotFound if absent.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByEmail retrieves a user by email. Returns ErrUserNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns users ordered by creation time.
	List(ctx context.Context, opts ListOptions) ([]*domain.User, error)

	// Update applies the patch and returns the updated record.
	// Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, id uuid.UUID, patch UserPatch) (*domain.User, error)

	// Delete removes the user and returns the deleted record, letting the
	// caller distinguish not-found from success.
	Delete(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
