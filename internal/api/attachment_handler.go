package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/policy"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// AttachmentHandler handles attachment metadata API requests. Reads follow
// the parent task's read rule; deletion requires authorship or the admin
// role. Attachments have no update path.
type AttachmentHandler struct {
	attachmentStore store.AttachmentStore
	taskStore       store.TaskStore
}

// NewAttachmentHandler creates a new AttachmentHandler with the given
// dependencies.
func NewAttachmentHandler(
	attachmentStore store.AttachmentStore,
	taskStore store.TaskStore,
) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentStore: attachmentStore,
		taskStore:       taskStore,
	}
}

func (h *AttachmentHandler) requireTaskVisible(
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

// ListByTask handles GET /attachments/task/{taskId}, ordered by upload time.
func (h *AttachmentHandler) ListByTask(w http.ResponseWriter, r *http.Request) {
	p, taskID, ok := requirePrincipalAndPathUUID(w, r, "taskId")
	if !ok {
		return
	}
	if !h.requireTaskVisible(w, r, taskID, p) {
		return
	}

	attachments, err := h.attachmentStore.ListByTask(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if attachments == nil {
		attachments = []*domain.Attachment{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, attachments)
}

// Create handles POST /attachments, recording metadata for a file stored
// outside this service. The principal becomes the author.
func (h *AttachmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req CreateAttachmentRequest
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

	attachment, err := domain.NewAttachment(
		req.TaskID, p.ID, req.Filename, req.Filepath, req.Size, req.MimeType)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.attachmentStore.Create(r.Context(), attachment); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, attachment)
}

// Get handles GET /attachments/{id}.
func (h *AttachmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, id, ok := requirePrincipalAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	attachment, err := h.attachmentStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if !h.requireTaskVisible(w, r, attachment.TaskID, p) {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, attachment)
}

// Delete handles DELETE /attachments/{id}. Author or admin only.
func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, id, ok := requirePrincipalAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	attachment, err := h.attachmentStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if !h.requireTaskVisible(w, r, attachment.TaskID, p) {
		return
	}
	if !policy.CanMutateAuthored(p, attachment.AuthorID) {
		shared.RespondWithError(w, r, http.StatusForbidden, "Operation not permitted")
		return
	}

	if _, err := h.attachmentStore.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
