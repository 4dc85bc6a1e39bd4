package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/policy"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

type stubJWT struct {
	claims *auth.Claims
	err    error
}

func (s stubJWT) GenerateAccessToken(context.Context, uuid.UUID) (string, error)  { return "", nil }
func (s stubJWT) GenerateRefreshToken(context.Context, uuid.UUID) (string, error) { return "", nil }
func (s stubJWT) AccessTokenLifetime() time.Duration                              { return 30 * time.Minute }

func (s stubJWT) ValidateAccessToken(context.Context, string) (*auth.Claims, error) {
	return s.claims, s.err
}

func (s stubJWT) ValidateRefreshToken(context.Context, string) (*auth.Claims, error) {
	return s.claims, s.err
}

type stubUserStore struct {
	user *domain.User
	err  error
}

func (s stubUserStore) Create(context.Context, *domain.User) error { return nil }

func (s stubUserStore) GetByID(context.Context, uuid.UUID) (*domain.User, error) {
	return s.user, s.err
}

func (s stubUserStore) GetByUsername(context.Context, string) (*domain.User, error) {
	return s.user, s.err
}

func (s stubUserStore) GetByEmail(context.Context, string) (*domain.User, error) {
	return s.user, s.err
}

func (s stubUserStore) List(context.Context, store.ListOptions) ([]*domain.User, error) {
	return nil, nil
}

func (s stubUserStore) Update(context.Context, uuid.UUID, store.UserPatch) (*domain.User, error) {
	return s.user, s.err
}

func (s stubUserStore) Delete(context.Context, uuid.UUID) (*domain.User, error) {
	return s.user, s.err
}

func activeUser() *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
		Role:     domain.RoleUser,
		Active:   true,
	}
}

// principalCapture records the principal the middleware passed downstream.
func principalCapture(got *policy.Principal, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if p, ok := shared.GetPrincipal(r.Context()); ok {
			*got = p
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_ValidToken(t *testing.T) {
	t.Parallel()

	user := activeUser()
	m := NewAuthMiddleware(
		stubJWT{claims: &auth.Claims{UserID: user.ID, TokenType: auth.TokenTypeAccess}},
		stubUserStore{user: user},
	)

	var (
		got    policy.Principal
		called bool
	)
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	m.Authenticate(principalCapture(&got, &called)).ServeHTTP(rec, req)

	require.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, domain.RoleUser, got.Role)
	assert.True(t, got.Active)
}

func TestAuthenticate_Rejections(t *testing.T) {
	t.Parallel()

	user := activeUser()
	inactive := activeUser()
	inactive.Active = false

	tests := []struct {
		name    string
		header  string
		jwt     stubJWT
		users   stubUserStore
		status  int
		message string
	}{
		{
			name:    "missing header",
			header:  "",
			status:  http.StatusUnauthorized,
			message: "Authorization header required",
		},
		{
			name:    "malformed header",
			header:  "Token abc",
			status:  http.StatusUnauthorized,
			message: "Invalid authorization format",
		},
		{
			name:    "expired token",
			header:  "Bearer expired",
			jwt:     stubJWT{err: auth.ErrExpiredToken},
			status:  http.StatusUnauthorized,
			message: "Token expired",
		},
		{
			name:    "refresh token used for access",
			header:  "Bearer refresh-token",
			jwt:     stubJWT{err: auth.ErrWrongTokenType},
			status:  http.StatusUnauthorized,
			message: "Invalid token",
		},
		{
			name:   "subject deleted",
			header: "Bearer live-token",
			jwt: stubJWT{
				claims: &auth.Claims{UserID: uuid.New(), TokenType: auth.TokenTypeAccess},
			},
			users:   stubUserStore{err: store.ErrUserNotFound},
			status:  http.StatusUnauthorized,
			message: "Invalid token",
		},
		{
			name:   "subject deactivated",
			header: "Bearer live-token",
			jwt: stubJWT{
				claims: &auth.Claims{UserID: user.ID, TokenType: auth.TokenTypeAccess},
			},
			users:   stubUserStore{user: inactive},
			status:  http.StatusUnauthorized,
			message: "Account is inactive",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewAuthMiddleware(tt.jwt, tt.users)

			var (
				got    policy.Principal
				called bool
			)
			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			m.Authenticate(principalCapture(&got, &called)).ServeHTTP(rec, req)

			assert.False(t, called, "downstream handler must not run")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		principal *policy.Principal
		status    int
	}{
		{
			"admin passes",
			&policy.Principal{ID: uuid.New(), Role: domain.RoleAdmin, Active: true},
			http.StatusOK,
		},
		{
			"user forbidden",
			&policy.Principal{ID: uuid.New(), Role: domain.RoleUser, Active: true},
			http.StatusForbidden,
		},
		{
			"unauthenticated",
			nil,
			http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tt.principal != nil {
				req = req.WithContext(shared.WithPrincipal(req.Context(), *tt.principal))
			}

			rec := httptest.NewRecorder()
			RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
