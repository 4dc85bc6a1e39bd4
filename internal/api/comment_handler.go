package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/policy"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// CommentHandler handles comment API requests. A comment is readable by
// whoever can read its parent task; a principal who cannot see the task
// learns nothing about the comment either. Editing and deleting require
// authorship or the admin role and surface a denial as 403.
type CommentHandler struct {
	commentStore store.CommentStore
	taskStore    store.TaskStore
}

// NewCommentHandler creates a new CommentHandler with the given dependencies.
func NewCommentHandler(commentStore store.CommentStore, taskStore store.TaskStore) *CommentHandler {
	return &CommentHandler{
		commentStore: commentStore,
		taskStore:    taskStore,
	}
}

// requireTaskVisible checks the parent task's read rule for the principal.
// A denied or absent task has already been collapsed into not-found.
func (h *CommentHandler) requireTaskVisible(
	w http.ResponseWriter,
	r *http.Request,
	taskID uuid.UUID,
	p policy.Principal,
) bool {
	if _, err := h.taskStore.GetByID(r.Context(), taskID, p); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}

// ListByTask handles GET /comments/task/{taskId}, ordered by creation time.
func (h *CommentHandler) ListByTask(w http.ResponseWriter, r *http.Request) {
	p, taskID, ok := requirePrincipalAndPathUUID(w, r, "taskId")
	if !ok {
		return
	}
	if !h.requireTaskVisible(w, r, taskID, p) {
		return
	}

	comments, err := h.commentStore.ListByTask(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, comments)
}

// Create handles POST /comments. The principal becomes the author; the
// target task must be visible to them.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if !h.requireTaskVisible(w, r, req.TaskID, p) {
		return
	}

	comment, err := domain.NewComment(req.TaskID, p.ID, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.commentStore.Create(r.Context(), comment); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, comment)
}

// Get handles GET /comments/{id}.
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, id, ok := requirePrincipalAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	comment, err := h.commentStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if !h.requireTaskVisible(w, r, comment.TaskID, p) {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, comment)
}

// Update handles PATCH /comments/{id}. Author or admin only.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, id, ok := requirePrincipalAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	comment, err := h.commentStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if !h.requireTaskVisible(w, r, comment.TaskID, p) {
		return
	}
	if !policy.CanMutateAuthored(p, comment.AuthorID) {
		shared.RespondWithError(w, r, http.StatusForbidden, "Operation not permitted")
		return
	}

	updated, err := h.commentStore.Update(r.Context(), id, store.CommentPatch{
		Content: req.Content,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, updated)
}

// Delete handles DELETE /comments/{id}. Author or admin only.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, id, ok := requirePrincipalAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	comment, err := h.commentStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if !h.requireTaskVisible(w, r, comment.TaskID, p) {
		return
	}
	if !policy.CanMutateAuthored(p, comment.AuthorID) {
		shared.RespondWithError(w, r, http.StatusForbidden, "Operation not permitted")
		return
	}

	if _, err := h.commentStore.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
