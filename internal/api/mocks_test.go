package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/policy"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// errUnexpectedCall is returned by any mock method a test did not stub.
var errUnexpectedCall = errors.New("unexpected store call")

type mockUserStore struct {
	createFn        func(ctx context.Context, user *domain.User) error
	getByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	getByEmailFn    func(ctx context.Context, email string) (*domain.User, error)
	listFn          func(ctx context.Context, opts store.ListOptions) ([]*domain.User, error)
	updateFn        func(ctx context.Context, id uuid.UUID, patch store.UserPatch) (*domain.User, error)
	deleteFn        func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

var _ store.UserStore = (*mockUserStore)(nil)

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.createFn == nil {
		return errUnexpectedCall
	}
	return m.createFn(ctx, user)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFn == nil {
		return nil, errUnexpectedCall
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn == nil {
		return nil, errUnexpectedCall
	}
	return m.getByUsernameFn(ctx, username)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn == nil {
		return nil, errUnexpectedCall
	}
	return m.getByEmailFn(ctx, email)
}

func (m *mockUserStore) List(ctx context.Context, opts store.ListOptions) ([]*domain.User, error) {
	if m.listFn == nil {
		return nil, errUnexpectedCall
	}
	return m.listFn(ctx, opts)
}

func (m *mockUserStore) Update(
	ctx context.Context, id uuid.UUID, patch store.UserPatch,
) (*domain.User, error) {
	if m.updateFn == nil {
		return nil, errUnexpectedCall
	}
	return m.updateFn(ctx, id, patch)
}

func (m *mockUserStore) Delete(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.deleteFn == nil {
		return nil, errUnexpectedCall
	}
	return m.deleteFn(ctx, id)
}

type mockProjectStore struct {
	createFn  func(ctx context.Context, project *domain.Project) error
	getByIDFn func(ctx context.Context, id uuid.UUID, p policy.Principal) (*domain.Project, error)
	listFn    func(ctx context.Context, p policy.Principal, opts store.ListOptions) ([]*domain.Project, error)
	updateFn  func(ctx context.Context, id uuid.UUID, p policy.Principal, patch store.ProjectPatch) (*domain.Project, error)
	deleteFn  func(ctx context.Context, id uuid.UUID, p policy.Principal) (*domain.Project, error)
}

var _ store.ProjectStore = (*mockProjectStore)(nil)

func (m *mockProjectStore) Create(ctx context.Context, project *domain.Project) error {
	if m.createFn == nil {
		return errUnexpectedCall
	}
	return m.createFn(ctx, project)
}

func (m *mockProjectStore) GetByID(
	ctx context.Context, id uuid.UUID, p policy.Principal,
) (*domain.Project, error) {
	if m.getByIDFn == nil {
		return nil, errUnexpectedCall
	}
	return m.getByIDFn(ctx, id, p)
}

func (m *mockProjectStore) List(
	ctx context.Context, p policy.Principal, opts store.ListOptions,
) ([]*domain.Project, error) {
	if m.listFn == nil {
		return nil, errUnexpectedCall
	}
	return m.listFn(ctx, p, opts)
}

func (m *mockProjectStore) Update(
	ctx context.Context, id uuid.UUID, p policy.Principal, patch store.ProjectPatch,
) (*domain.Project, error) {
	if m.updateFn == nil {
		return nil, errUnexpectedCall
	}
	return m.updateFn(ctx, id, p, patch)
}

func (m *mockProjectStore) Delete(
	ctx context.Context, id uuid.UUID, p policy.Principal,
) (*domain.Project, error) {
	if m.deleteFn == nil {
		return nil, errUnexpectedCall
	}
	return m.deleteFn(ctx, id, p)
}

type mockTaskStore struct {
	createFn  func(ctx context.Context, task *domain.Task) error
	getByIDFn func(ctx context.Context, id uuid.UUID, p policy.Principal) (*domain.TaskDetails, error)
	listFn    func(ctx context.Context, p policy.Principal, opts store.TaskListOptions) ([]*domain.TaskDetails, error)
	updateFn  func(ctx context.Context, id uuid.UUID, p policy.Principal, patch store.TaskPatch) (*domain.Task, error)
	deleteFn  func(ctx context.Context, id uuid.UUID, p policy.Principal) (*domain.Task, error)
}

var _ store.TaskStore = (*mockTaskStore)(nil)

func (m *mockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.createFn == nil {
		return errUnexpectedCall
	}
	return m.createFn(ctx, task)
}

func (m *mockTaskStore) GetByID(
	ctx context.Context, id uuid.UUID, p policy.Principal,
) (*domain.TaskDetails, error) {
	if m.getByIDFn == nil {
		return nil, errUnexpectedCall
	}
	return m.getByIDFn(ctx, id, p)
}

func (m *mockTaskStore) List(
	ctx context.Context, p policy.Principal, opts store.TaskListOptions,
) ([]*domain.TaskDetails, error) {
	if m.listFn == nil {
		return nil, errUnexpectedCall
	}
	return m.listFn(ctx, p, opts)
}

func (m *mockTaskStore) Update(
	ctx context.Context, id uuid.UUID, p policy.Principal, patch store.TaskPatch,
) (*domain.Task, error) {
	if m.updateFn == nil {
		return nil, errUnexpectedCall
	}
	return m.updateFn(ctx, id, p, patch)
}

func (m *mockTaskStore) Delete(
	ctx context.Context, id uuid.UUID, p policy.Principal,
) (*domain.Task, error) {
	if m.deleteFn == nil {
		return nil, errUnexpectedCall
	}
	return m.deleteFn(ctx, id, p)
}

// stubJWTService issues fixed token strings and delegates validation to
// optional hooks.
type stubJWTService struct {
	validateAccessFn  func(ctx context.Context, token string) (*auth.Claims, error)
	validateRefreshFn func(ctx context.Context, token string) (*auth.Claims, error)
}

var _ auth.JWTService = (*stubJWTService)(nil)

func (s *stubJWTService) GenerateAccessToken(_ context.Context, _ uuid.UUID) (string, error) {
	return "stub-access-token", nil
}

func (s *stubJWTService) GenerateRefreshToken(_ context.Context, _ uuid.UUID) (string, error) {
	return "stub-refresh-token", nil
}

func (s *stubJWTService) ValidateAccessToken(ctx context.Context, token string) (*auth.Claims, error) {
	if s.validateAccessFn == nil {
		return nil, auth.ErrInvalidToken
	}
	return s.validateAccessFn(ctx, token)
}

func (s *stubJWTService) ValidateRefreshToken(ctx context.Context, token string) (*auth.Claims, error) {
	if s.validateRefreshFn == nil {
		return nil, auth.ErrInvalidToken
	}
	return s.validateRefreshFn(ctx, token)
}

func (s *stubJWTService) AccessTokenLifetime() time.Duration {
	return 30 * time.Minute
}

// stubVerifier accepts a password iff the stored hash is "hashed:" + password.
type stubVerifier struct{}

func (stubVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

func userPrincipal() policy.Principal {
	return policy.Principal{ID: uuid.New(), Role: domain.RoleUser, Active: true}
}

func adminPrincipal() policy.Principal {
	return policy.Principal{ID: uuid.New(), Role: domain.RoleAdmin, Active: true}
}

// newJSONRequest builds a request with an optional JSON body.
func newJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asPrincipal attaches an authenticated principal, standing in for the
// authentication middleware.
func asPrincipal(r *http.Request, p policy.Principal) *http.Request {
	return r.WithContext(shared.WithPrincipal(r.Context(), p))
}

// withPathParam injects a chi URL parameter, standing in for the router.
func withPathParam(r *http.Request, name, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeErrorBody parses the standard error envelope.
func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}
