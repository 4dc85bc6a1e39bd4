// Package policy implements the access-control rules layered over the data
// layer. Every predicate is a pure function of the principal and the resource
// under inspection; the same predicates guard single-resource reads and are
// mirrored by the SQL filters used for listings, so the two can never
// disagree about visibility.
package policy

import (
	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// Principal is the authenticated actor performing a request. It is
// reconstructed per request from verified token claims plus a user lookup
// and never cached or persisted as a session.
type Principal struct {
	ID     uuid.UUID
	Role   domain.Role
	Active bool
}

// IsAdmin reports whether the principal holds the admin role.
// An admin satisfies every ownership check unconditionally.
func (p Principal) IsAdmin() bool {
	return p.Role.IsAdmin()
}

// CanAccessProject reports whether the principal may read or mutate the
// project. Projects are visible to their owner and to admins only.
func CanAccessProject(p Principal, project *domain.Project) bool {
	if p.IsAdmin() {
		return true
	}
	return project.OwnerID != nil && *project.OwnerID == p.ID
}

// CanAccessTask reports whether the principal may read or mutate the task.
// Three independent grant paths apply to non-admins: owning the task's
// project, having created the task, or being in the task's assignee set.
// projectOwnerID is the owner of the task's project (nil when the owner was
// deleted).
func CanAccessTask(p Principal, projectOwnerID *uuid.UUID, task *domain.Task) bool {
	if p.IsAdmin() {
		return true
	}
	if projectOwnerID != nil && *projectOwnerID == p.ID {
		return true
	}
	if task.OwnerID != nil && *task.OwnerID == p.ID {
		return true
	}
	return task.IsAssignee(p.ID)
}

// CanMutateAuthored reports whether the principal may update or delete a
// comment or attachment with the given author. Only the author and admins
// may mutate; reads are governed by the parent task's read rule instead.
func CanMutateAuthored(p Principal, authorID *uuid.UUID) bool {
	if p.IsAdmin() {
		return true
	}
	return authorID != nil && *authorID == p.ID
}

// CanManageUser reports whether the principal may update the user record
// with the given ID. A principal may update itself; admins may update anyone.
func CanManageUser(p Principal, userID uuid.UUID) bool {
	return p.IsAdmin() || p.ID == userID
}

// CanChangeRole reports whether the principal may set a role on a user
// record. Only admins may change roles, including their own.
func CanChangeRole(p Principal) bool {
	return p.IsAdmin()
}
