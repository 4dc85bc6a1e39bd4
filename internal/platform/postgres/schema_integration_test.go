//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/phrazzld/taskboard-api/internal/policy"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/phrazzld/taskboard-api/internal/testdb"
)

// These tests exercise behavior the schema itself enforces (ON DELETE
// CASCADE and ON DELETE SET NULL), which mocked connections cannot observe.
// They run only when a test database URL is configured.

var testDB *sql.DB

func TestMain(m *testing.M) {
	if !testdb.IsIntegrationTestEnvironment() {
		os.Exit(0)
	}

	db, err := testdb.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening test database: %v\n", err)
		os.Exit(1)
	}
	if err := testdb.ApplyMigrations(db); err != nil {
		fmt.Fprintf(os.Stderr, "applying migrations: %v\n", err)
		os.Exit(1)
	}
	testDB = db

	code := m.Run()
	_ = db.Close()
	os.Exit(code)
}

// createTestUser inserts a user with a unique username and email. The row is
// removed on cleanup.
func createTestUser(t *testing.T) *domain.User {
	t.Helper()

	s := postgres.NewUserStore(testDB, auth.NewBcryptHasher(bcrypt.MinCost), nil)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	user, err := domain.NewUser(
		"it"+suffix, "it"+suffix+"@example.com", "password123", "Integration Tester", domain.RoleUser)
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), user))

	t.Cleanup(func() {
		_, _ = s.Delete(context.Background(), user.ID)
	})
	return user
}

// createTestProject inserts a project owned by the given user. The row is
// removed on cleanup unless the test already deleted it.
func createTestProject(t *testing.T, owner *domain.User) *domain.Project {
	t.Helper()

	s := postgres.NewProjectStore(testDB, nil)
	project, err := domain.NewProject("schema test project", "", owner.ID)
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), project))

	admin := policy.Principal{ID: owner.ID, Role: domain.RoleAdmin, Active: true}
	t.Cleanup(func() {
		_, _ = s.Delete(context.Background(), project.ID, admin)
	})
	return project
}

func TestProjectDelete_CascadesToTaskTree(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	project := createTestProject(t, user)

	taskStore := postgres.NewTaskStore(testDB, nil)
	task, err := domain.NewTask("doomed task", "", project.ID, user.ID, nil, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, taskStore.Create(ctx, task))

	commentStore := postgres.NewCommentStore(testDB, nil)
	comment, err := domain.NewComment(task.ID, user.ID, "going down with the project")
	require.NoError(t, err)
	require.NoError(t, commentStore.Create(ctx, comment))

	attachmentStore := postgres.NewAttachmentStore(testDB, nil)
	attachment, err := domain.NewAttachment(task.ID, user.ID, "notes.txt", "/files/notes.txt", nil, nil)
	require.NoError(t, err)
	require.NoError(t, attachmentStore.Create(ctx, attachment))

	owner := policy.Principal{ID: user.ID, Role: domain.RoleUser, Active: true}
	_, err = postgres.NewProjectStore(testDB, nil).Delete(ctx, project.ID, owner)
	require.NoError(t, err)

	// The whole subtree must be gone, checked as admin so policy scoping
	// cannot mask a surviving row.
	admin := policy.Principal{ID: user.ID, Role: domain.RoleAdmin, Active: true}
	_, err = taskStore.GetByID(ctx, task.ID, admin)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	_, err = commentStore.GetByID(ctx, comment.ID)
	assert.ErrorIs(t, err, store.ErrCommentNotFound)

	_, err = attachmentStore.GetByID(ctx, attachment.ID)
	assert.ErrorIs(t, err, store.ErrAttachmentNotFound)
}

func TestPriorityDelete_ClearsTaskReference(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	project := createTestProject(t, user)

	priorityStore := postgres.NewPriorityStore(testDB, nil)
	priority, err := domain.NewPriority("schema test priority", 99, "")
	require.NoError(t, err)
	require.NoError(t, priorityStore.Create(ctx, priority))
	t.Cleanup(func() {
		_, _ = priorityStore.Delete(ctx, priority.ID)
	})

	taskStore := postgres.NewTaskStore(testDB, nil)
	task, err := domain.NewTask("survives priority removal", "", project.ID, user.ID, &priority.ID, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, taskStore.Create(ctx, task))

	_, err = priorityStore.Delete(ctx, priority.ID)
	require.NoError(t, err)

	owner := policy.Principal{ID: user.ID, Role: domain.RoleUser, Active: true}
	details, err := taskStore.GetByID(ctx, task.ID, owner)
	require.NoError(t, err, "task must survive deletion of its priority")
	assert.Nil(t, details.PriorityID)
	assert.Nil(t, details.Priority)
}

func TestStatusDelete_ClearsTaskReference(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	project := createTestProject(t, user)

	statusStore := postgres.NewStatusStore(testDB, nil)
	status, err := domain.NewStatus("schema test status", 99, false)
	require.NoError(t, err)
	require.NoError(t, statusStore.Create(ctx, status))
	t.Cleanup(func() {
		_, _ = statusStore.Delete(ctx, status.ID)
	})

	taskStore := postgres.NewTaskStore(testDB, nil)
	task, err := domain.NewTask("survives status removal", "", project.ID, user.ID, nil, &status.ID, nil, nil)
	require.NoError(t, err)
	require.NoError(t, taskStore.Create(ctx, task))

	_, err = statusStore.Delete(ctx, status.ID)
	require.NoError(t, err)

	owner := policy.Principal{ID: user.ID, Role: domain.RoleUser, Active: true}
	details, err := taskStore.GetByID(ctx, task.ID, owner)
	require.NoError(t, err, "task must survive deletion of its status")
	assert.Nil(t, details.StatusID)
	assert.Nil(t, details.Status)
}

func TestUserUniqueConstraints(t *testing.T) {
	ctx := context.Background()
	db := testdb.GetTestDBWithT(t)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	newUser := func(t *testing.T, username, email string) *domain.User {
		t.Helper()
		user, err := domain.NewUser(username, email, "password123", "Duplicate Tester", domain.RoleUser)
		require.NoError(t, err)
		return user
	}

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		s := postgres.NewUserStore(tx, hasher, nil)
		require.NoError(t, s.Create(ctx, newUser(t, "dup"+suffix, "dup"+suffix+"@example.com")))

		err := s.Create(ctx, newUser(t, "dup"+suffix, "other"+suffix+"@example.com"))
		assert.ErrorIs(t, err, store.ErrUsernameExists)
	})

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		s := postgres.NewUserStore(tx, hasher, nil)
		require.NoError(t, s.Create(ctx, newUser(t, "dup"+suffix, "dup"+suffix+"@example.com")))

		err := s.Create(ctx, newUser(t, "other"+suffix, "dup"+suffix+"@example.com"))
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})
}

func TestUserDelete_ClearsAuthorAndOwnerReferences(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	project := createTestProject(t, user)

	taskStore := postgres.NewTaskStore(testDB, nil)
	task, err := domain.NewTask("outlives its creator", "", project.ID, user.ID, nil, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, taskStore.Create(ctx, task))

	commentStore := postgres.NewCommentStore(testDB, nil)
	comment, err := domain.NewComment(task.ID, user.ID, "posted before the account was removed")
	require.NoError(t, err)
	require.NoError(t, commentStore.Create(ctx, comment))

	userStore := postgres.NewUserStore(testDB, auth.NewBcryptHasher(bcrypt.MinCost), nil)
	_, err = userStore.Delete(ctx, user.ID)
	require.NoError(t, err)

	admin := policy.Principal{ID: uuid.New(), Role: domain.RoleAdmin, Active: true}
	details, err := taskStore.GetByID(ctx, task.ID, admin)
	require.NoError(t, err)
	assert.Nil(t, details.OwnerID)

	surviving, err := commentStore.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Nil(t, surviving.AuthorID)

	remaining, err := postgres.NewProjectStore(testDB, nil).GetByID(ctx, project.ID, admin)
	require.NoError(t, err)
	assert.Nil(t, remaining.OwnerID)
}
