package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/policy"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// getPrincipalFromContext extracts the authenticated principal placed in the
// request context by the authentication middleware.
func getPrincipalFromContext(r *http.Request) (policy.Principal, bool) {
	p, ok := shared.GetPrincipal(r.Context())
	if !ok || p.ID == uuid.Nil {
		return policy.Principal{}, false
	}
	return p, true
}

// requirePrincipal extracts the principal or writes a 401 response.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (policy.Principal, bool) {
	p, ok := getPrincipalFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return policy.Principal{}, false
	}
	return p, true
}

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// requirePrincipalAndPathUUID extracts both the principal and a UUID path
// parameter, writing an error response if either fails.
func requirePrincipalAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
) (policy.Principal, uuid.UUID, bool) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return policy.Principal{}, uuid.Nil, false
	}

	id, err := getPathUUID(r, paramName)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return policy.Principal{}, uuid.Nil, false
	}

	return p, id, true
}

// parseListOptions reads skip/limit pagination from the query string.
// Malformed or out-of-range values fall back to the defaults.
func parseListOptions(r *http.Request) store.ListOptions {
	var opts store.ListOptions
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			opts.Skip = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Limit = n
		}
	}
	return opts.Normalize()
}

// parseUUIDQuery reads an optional UUID query parameter. A present but
// malformed value is an error; an absent value returns nil.
func parseUUIDQuery(r *http.Request, name string) (*uuid.UUID, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, domain.NewValidationError(name, "has invalid format", domain.ErrInvalidID)
	}
	return &id, nil
}
