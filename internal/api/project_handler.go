package api

import (
	"net/http"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// ProjectHandler handles project API requests. All operations run under the
// principal's scope: a project that exists but belongs to someone else is
// indistinguishable from one that does not exist.
type ProjectHandler struct {
	projectStore store.ProjectStore
}

// NewProjectHandler creates a new ProjectHandler with the given dependencies.
func NewProjectHandler(projectStore store.ProjectStore) *ProjectHandler {
	return &ProjectHandler{projectStore: projectStore}
}

// List handles GET /projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	projects, err := h.projectStore.List(r.Context(), p, parseListOptions(r))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if projects == nil {
		projects = []*domain.Project{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, projects)
}

// Create handles POST /projects. The creating principal becomes the owner.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	project, err := domain.NewProject(req.Name, req.Description, p.ID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.projectStore.Create(r.Context(), project); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, project)
}

// Get handles GET /projects/{id}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, id, ok := requirePrincipalAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	project, err := h.projectStore.GetByID(r.Context(), id, p)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, project)
}

// Update handles PATCH /projects/{id}.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, id, ok := requirePrincipalAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	project, err := h.projectStore.Update(r.Context(), id, p, store.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, project)
}

// Delete handles DELETE /projects/{id}, cascading to the project's tasks.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, id, ok := requirePrincipalAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if _, err := h.projectStore.Delete(r.Context(), id, p); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
