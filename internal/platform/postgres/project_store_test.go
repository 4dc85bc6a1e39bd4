package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/policy"
	"github.com/phrazzld/taskboard-api/internal/store"
)

func projectRows(project *domain.Project) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "owner_id", "created_at", "updated_at",
	}).AddRow(
		project.ID, project.Name, project.Description,
		*project.OwnerID, project.CreatedAt, project.UpdatedAt,
	)
}

func TestProjectStoreGetByID_OwnerSees(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewProjectStore(db, nil)
	owner := policy.Principal{ID: uuid.New(), Role: domain.RoleUser, Active: true}
	project, err := domain.NewProject("roadmap", "", owner.ID)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM projects WHERE id").
		WithArgs(project.ID).
		WillReturnRows(projectRows(project))

	got, err := s.GetByID(context.Background(), project.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, project.Name, got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStoreGetByID_DeniedReportsNotFound(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewProjectStore(db, nil)
	stranger := policy.Principal{ID: uuid.New(), Role: domain.RoleUser, Active: true}
	project, err := domain.NewProject("roadmap", "", uuid.New())
	require.NoError(t, err)

	// The row exists, but the principal must not learn that.
	mock.ExpectQuery("SELECT (.+) FROM projects WHERE id").
		WithArgs(project.ID).
		WillReturnRows(projectRows(project))

	_, err = s.GetByID(context.Background(), project.ID, stranger)
	assert.ErrorIs(t, err, store.ErrProjectNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStoreGetByID_AdminOverride(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewProjectStore(db, nil)
	admin := policy.Principal{ID: uuid.New(), Role: domain.RoleAdmin, Active: true}
	project, err := domain.NewProject("roadmap", "", uuid.New())
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM projects WHERE id").
		WithArgs(project.ID).
		WillReturnRows(projectRows(project))

	got, err := s.GetByID(context.Background(), project.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStoreList_FilterMirrorsGuard(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewProjectStore(db, nil)
	owner := policy.Principal{ID: uuid.New(), Role: domain.RoleUser, Active: true}

	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "owner_id", "created_at", "updated_at",
	}).AddRow(uuid.New(), "roadmap", "", owner.ID, time.Now(), time.Now())

	// Non-admin listings compile the ownership predicate into the query.
	mock.ExpectQuery("SELECT (.+) FROM projects WHERE owner_id").
		WithArgs(owner.ID, 0, 100).
		WillReturnRows(rows)

	projects, err := s.List(context.Background(), owner, store.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, projects, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStoreList_AdminUnfiltered(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewProjectStore(db, nil)
	admin := policy.Principal{ID: uuid.New(), Role: domain.RoleAdmin, Active: true}

	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "owner_id", "created_at", "updated_at",
	}).
		AddRow(uuid.New(), "one", "", uuid.New(), time.Now(), time.Now()).
		AddRow(uuid.New(), "two", "", nil, time.Now(), time.Now())

	mock.ExpectQuery("SELECT (.+) FROM projects ORDER BY created_at OFFSET").
		WithArgs(0, 100).
		WillReturnRows(rows)

	projects, err := s.List(context.Background(), admin, store.ListOptions{})
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Nil(t, projects[1].OwnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStoreUpdate_DeniedIsNotFound(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewProjectStore(db, nil)
	stranger := policy.Principal{ID: uuid.New(), Role: domain.RoleUser, Active: true}
	project, err := domain.NewProject("roadmap", "", uuid.New())
	require.NoError(t, err)
	name := "renamed"

	mock.ExpectQuery("SELECT (.+) FROM projects WHERE id").
		WithArgs(project.ID).
		WillReturnRows(projectRows(project))

	_, err = s.Update(context.Background(), project.ID, stranger, store.ProjectPatch{Name: &name})
	assert.ErrorIs(t, err, store.ErrProjectNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStoreDelete_ReturnsDeletedRecord(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewProjectStore(db, nil)
	owner := policy.Principal{ID: uuid.New(), Role: domain.RoleUser, Active: true}
	project, err := domain.NewProject("roadmap", "", owner.ID)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM projects WHERE id").
		WithArgs(project.ID).
		WillReturnRows(projectRows(project))
	mock.ExpectQuery("DELETE FROM projects WHERE id = (.+) RETURNING").
		WithArgs(project.ID).
		WillReturnRows(projectRows(project))

	got, err := s.Delete(context.Background(), project.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, project.Name, got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
