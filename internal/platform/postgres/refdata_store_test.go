package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
)

func TestPriorityStoreCreate(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewPriorityStore(db, nil)
	priority, err := domain.NewPriority("Urgent", 5, "")
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO priorities").
		WithArgs(priority.ID, "Urgent", 5, domain.DefaultPriorityColor).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Create(context.Background(), priority))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPriorityStoreList_OrderedByLevel(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewPriorityStore(db, nil)

	rows := sqlmock.NewRows([]string{"id", "name", "level", "color"}).
		AddRow(uuid.New(), "Low", 1, "#95a5a6").
		AddRow(uuid.New(), "High", 3, "#e74c3c")

	mock.ExpectQuery("SELECT (.+) FROM priorities ORDER BY level").
		WillReturnRows(rows)

	priorities, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, priorities, 2)
	assert.Equal(t, "Low", priorities[0].Name)
	assert.Equal(t, 3, priorities[1].Level)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPriorityStoreUpdate_PartialPatch(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewPriorityStore(db, nil)
	id := uuid.New()
	level := 4

	mock.ExpectQuery("UPDATE priorities SET level = (.+) RETURNING").
		WithArgs(4, id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "level", "color"}).
			AddRow(id, "High", 4, "#e74c3c"))

	updated, err := s.Update(context.Background(), id, store.PriorityPatch{Level: &level})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Level)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPriorityStoreDelete_NotFound(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewPriorityStore(db, nil)
	id := uuid.New()

	mock.ExpectQuery("DELETE FROM priorities WHERE id = (.+) RETURNING").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = s.Delete(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrPriorityNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusStoreList_OrderedByOrderNum(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewStatusStore(db, nil)

	rows := sqlmock.NewRows([]string{"id", "name", "order_num", "is_final"}).
		AddRow(uuid.New(), "New", 1, false).
		AddRow(uuid.New(), "Completed", 4, true)

	mock.ExpectQuery("SELECT (.+) FROM statuses ORDER BY order_num").
		WillReturnRows(rows)

	statuses, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.False(t, statuses[0].IsFinal)
	assert.True(t, statuses[1].IsFinal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusStoreUpdate_MarksFinal(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewStatusStore(db, nil)
	id := uuid.New()
	isFinal := true

	mock.ExpectQuery("UPDATE statuses SET is_final = (.+) RETURNING").
		WithArgs(true, id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "order_num", "is_final"}).
			AddRow(id, "Archived", 6, true))

	updated, err := s.Update(context.Background(), id, store.StatusPatch{IsFinal: &isFinal})
	require.NoError(t, err)
	assert.True(t, updated.IsFinal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusStoreGetByID_NotFound(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewStatusStore(db, nil)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM statuses WHERE id").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = s.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrStatusNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
