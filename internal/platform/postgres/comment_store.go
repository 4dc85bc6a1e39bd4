package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/store"
)

const commentColumns = "id, task_id, author_id, content, created_at, updated_at"

// CommentStore implements store.CommentStore using PostgreSQL.
type CommentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCommentStore creates a PostgreSQL implementation of store.CommentStore.
func NewCommentStore(db store.DBTX, log *slog.Logger) *CommentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &CommentStore{
		db:     db,
		logger: log.With(slog.String("component", "comment_store")),
	}
}

var _ store.CommentStore = (*CommentStore)(nil)

// Create implements store.CommentStore.Create.
func (s *CommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := comment.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf("INSERT INTO comments (%s) VALUES ($1, $2, $3, $4, $5, $6)", commentColumns)
	_, err := s.db.ExecContext(
		ctx, query,
		comment.ID, comment.TaskID, uuidOrNil(comment.AuthorID),
		comment.Content, comment.CreatedAt, comment.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", comment.ID.String()))
		return MapError(err)
	}

	log.Info("comment created",
		slog.String("comment_id", comment.ID.String()),
		slog.String("task_id", comment.TaskID.String()))
	return nil
}

// GetByID implements store.CommentStore.GetByID.
func (s *CommentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	query := fmt.Sprintf("SELECT %s FROM comments WHERE id = $1", commentColumns)
	comment, err := scanComment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

// ListByTask implements store.CommentStore.ListByTask.
func (s *CommentStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(
		"SELECT %s FROM comments WHERE task_id = $1 ORDER BY created_at", commentColumns)
	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		log.Error("failed to list comments",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var comments []*domain.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// Update implements store.CommentStore.Update.
func (s *CommentStore) Update(
	ctx context.Context,
	id uuid.UUID,
	patch store.CommentPatch,
) (*domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.Empty() {
		return s.GetByID(ctx, id)
	}

	query := fmt.Sprintf(
		"UPDATE comments SET content = $1, updated_at = $2 WHERE id = $3 RETURNING %s",
		commentColumns,
	)
	comment, err := scanComment(
		s.db.QueryRowContext(ctx, query, *patch.Content, time.Now().UTC(), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCommentNotFound
		}
		log.Error("failed to update comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", id.String()))
		return nil, MapError(err)
	}

	log.Info("comment updated", slog.String("comment_id", id.String()))
	return comment, nil
}

// Delete implements store.CommentStore.Delete.
func (s *CommentStore) Delete(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf("DELETE FROM comments WHERE id = $1 RETURNING %s", commentColumns)
	comment, err := scanComment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCommentNotFound
		}
		log.Error("failed to delete comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", id.String()))
		return nil, err
	}

	log.Info("comment deleted", slog.String("comment_id", id.String()))
	return comment, nil
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	var (
		comment domain.Comment
		author  uuid.NullUUID
	)
	err := row.Scan(
		&comment.ID, &comment.TaskID, &author,
		&comment.Content, &comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if author.Valid {
		comment.AuthorID = &author.UUID
	}
	return &comment, nil
}
