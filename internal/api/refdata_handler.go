package api

import (
	"net/http"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// RefDataHandler handles priority and status reference data requests.
// Reads are open to any authenticated user; writes are admin-only, enforced
// by route middleware. Because existence of reference data is not hidden,
// denied writes surface as 403 rather than 404.
type RefDataHandler struct {
	priorityStore store.PriorityStore
	statusStore   store.StatusStore
}

// NewRefDataHandler creates a new RefDataHandler with the given dependencies.
func NewRefDataHandler(
	priorityStore store.PriorityStore,
	statusStore store.StatusStore,
) *RefDataHandler {
	return &RefDataHandler{
		priorityStore: priorityStore,
		statusStore:   statusStore,
	}
}

// ListPriorities handles GET /priorities, ordered by level.
func (h *RefDataHandler) ListPriorities(w http.ResponseWriter, r *http.Request) {
	priorities, err := h.priorityStore.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if priorities == nil {
		priorities = []*domain.Priority{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, priorities)
}

// CreatePriority handles POST /priorities.
func (h *RefDataHandler) CreatePriority(w http.ResponseWriter, r *http.Request) {
	var req CreatePriorityRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	priority, err := domain.NewPriority(req.Name, req.Level, req.Color)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.priorityStore.Create(r.Context(), priority); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, priority)
}

// GetPriority handles GET /priorities/{id}.
func (h *RefDataHandler) GetPriority(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	priority, err := h.priorityStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, priority)
}

// UpdatePriority handles PATCH /priorities/{id}.
func (h *RefDataHandler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdatePriorityRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	priority, err := h.priorityStore.Update(r.Context(), id, store.PriorityPatch{
		Name:  req.Name,
		Level: req.Level,
		Color: req.Color,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, priority)
}

// DeletePriority handles DELETE /priorities/{id}. Tasks referencing the
// priority keep their rows with the reference cleared.
func (h *RefDataHandler) DeletePriority(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if _, err := h.priorityStore.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListStatuses handles GET /statuses, ordered by order_num.
func (h *RefDataHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.statusStore.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if statuses == nil {
		statuses = []*domain.Status{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, statuses)
}

// CreateStatus handles POST /statuses.
func (h *RefDataHandler) CreateStatus(w http.ResponseWriter, r *http.Request) {
	var req CreateStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	status, err := domain.NewStatus(req.Name, req.OrderNum, req.IsFinal)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.statusStore.Create(r.Context(), status); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, status)
}

// GetStatus handles GET /statuses/{id}.
func (h *RefDataHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	status, err := h.statusStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, status)
}

// UpdateStatus handles PATCH /statuses/{id}.
func (h *RefDataHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	status, err := h.statusStore.Update(r.Context(), id, store.StatusPatch{
		Name:     req.Name,
		OrderNum: req.OrderNum,
		IsFinal:  req.IsFinal,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, status)
}

// DeleteStatus handles DELETE /statuses/{id}. Tasks referencing the status
// keep their rows with the reference cleared.
func (h *RefDataHandler) DeleteStatus(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if _, err := h.statusStore.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
