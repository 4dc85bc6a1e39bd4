package api

import (
	"net/http"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/policy"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// UserHandler handles user management API requests. Listing, creating and
// deleting users is admin-only; a user may fetch and update their own record,
// though role and active changes remain admin-only.
type UserHandler struct {
	userStore store.UserStore
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userStore store.UserStore) *UserHandler {
	return &UserHandler{userStore: userStore}
}

// List handles GET /users. Admin-only, enforced by route middleware.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userStore.List(r.Context(), parseListOptions(r))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, users)
}

// Create handles POST /users. Admin-only, enforced by route middleware.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	role := domain.RoleUser
	if req.Role != "" {
		parsed, err := domain.ParseRole(req.Role)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		role = parsed
	}

	user, err := domain.NewUser(req.Username, req.Email, req.Password, req.FullName, role)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if req.IsActive != nil {
		user.Active = *req.IsActive
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, user)
}

// Get handles GET /users/{id}. Any authenticated user may look up accounts;
// the response never includes credentials.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, id, ok := requirePrincipalAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.userStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// Update handles PATCH /users/{id}. A non-admin may only update their own
// record and may not touch role or active status.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, id, ok := requirePrincipalAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if !policy.CanManageUser(p, id) {
		shared.RespondWithError(w, r, http.StatusForbidden, "Operation not permitted")
		return
	}

	var req UpdateUserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	patch := store.UserPatch{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		Active:   req.IsActive,
	}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		patch.Role = &role
	}

	if (patch.Role != nil || patch.Active != nil) && !policy.CanChangeRole(p) {
		shared.RespondWithError(w, r, http.StatusForbidden, "Operation not permitted")
		return
	}

	user, err := h.userStore.Update(r.Context(), id, patch)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// Delete handles DELETE /users/{id}. Admin-only, enforced by route
// middleware. Owned projects and tasks survive with the owner cleared.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, id, ok := requirePrincipalAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if _, err := h.userStore.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
