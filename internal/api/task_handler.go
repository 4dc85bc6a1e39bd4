package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// TaskHandler handles task API requests. Visibility follows three grant
// paths for non-admins: owning the task's project, having created the task,
// or being assigned to it.
type TaskHandler struct {
	taskStore    store.TaskStore
	projectStore store.ProjectStore
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskStore store.TaskStore, projectStore store.ProjectStore) *TaskHandler {
	return &TaskHandler{
		taskStore:    taskStore,
		projectStore: projectStore,
	}
}

// List handles GET /tasks with optional project_id, status_id and
// priority_id filters plus skip/limit pagination.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	opts := store.TaskListOptions{ListOptions: parseListOptions(r)}
	for _, filter := range []struct {
		name string
		dst  **uuid.UUID
	}{
		{"project_id", &opts.ProjectID},
		{"status_id", &opts.StatusID},
		{"priority_id", &opts.PriorityID},
	} {
		id, err := parseUUIDQuery(r, filter.name)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		*filter.dst = id
	}

	tasks, err := h.taskStore.List(r.Context(), p, opts)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if tasks == nil {
		tasks = []*domain.TaskDetails{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// Create handles POST /tasks. The target project must be visible to the
// principal; the principal becomes the task's creator.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if _, err := h.projectStore.GetByID(r.Context(), req.ProjectID, p); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := domain.NewTask(
		req.Title, req.Description,
		req.ProjectID, p.ID,
		req.PriorityID, req.StatusID,
		req.DueDate, req.AssigneeIDs,
	)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	details, err := h.taskStore.GetByID(r.Context(), task.ID, p)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, details)
}

// Get handles GET /tasks/{id}, returning the task with its project,
// priority, status and assignees resolved.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, id, ok := requirePrincipalAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	details, err := h.taskStore.GetByID(r.Context(), id, p)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, details)
}

// Update handles PATCH /tasks/{id}. Absent fields are untouched; an explicit
// null clears the priority, status or due date. A project move requires the
// destination project to be visible to the principal.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, id, ok := requirePrincipalAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if req.ProjectID != nil {
		if _, err := h.projectStore.GetByID(r.Context(), *req.ProjectID, p); err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
	}

	patch := store.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		AssigneeIDs: req.AssigneeIDs,
	}
	applyOptionalUUID(req.PriorityID, &patch.PriorityID, &patch.ClearPriority)
	applyOptionalUUID(req.StatusID, &patch.StatusID, &patch.ClearStatus)
	if req.DueDate.Set {
		if req.DueDate.Null {
			patch.ClearDueDate = true
		} else {
			due := req.DueDate.Value
			patch.DueDate = &due
		}
	}

	if _, err := h.taskStore.Update(r.Context(), id, p, patch); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	details, err := h.taskStore.GetByID(r.Context(), id, p)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, details)
}

// Delete handles DELETE /tasks/{id}, cascading to the task's comments and
// attachments.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, id, ok := requirePrincipalAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if _, err := h.taskStore.Delete(r.Context(), id, p); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// applyOptionalUUID translates an Optional UUID field into the patch's
// set/clear pair.
func applyOptionalUUID(opt Optional[uuid.UUID], dst **uuid.UUID, clear *bool) {
	if !opt.Set {
		return
	}
	if opt.Null {
		*clear = true
		return
	}
	value := opt.Value
	*dst = &value
}
