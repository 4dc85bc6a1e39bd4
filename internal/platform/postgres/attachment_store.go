package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/store"
)

const attachmentColumns = "id, task_id, author_id, filename, filepath, size, mime_type, uploaded_at"

// AttachmentStore implements store.AttachmentStore using PostgreSQL.
type AttachmentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewAttachmentStore creates a PostgreSQL implementation of store.AttachmentStore.
func NewAttachmentStore(db store.DBTX, log *slog.Logger) *AttachmentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &AttachmentStore{
		db:     db,
		logger: log.With(slog.String("component", "attachment_store")),
	}
}

var _ store.AttachmentStore = (*AttachmentStore)(nil)

// Create implements store.AttachmentStore.Create.
func (s *AttachmentStore) Create(ctx context.Context, attachment *domain.Attachment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := attachment.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(
		"INSERT INTO attachments (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		attachmentColumns,
	)
	_, err := s.db.ExecContext(
		ctx, query,
		attachment.ID, attachment.TaskID, uuidOrNil(attachment.AuthorID),
		attachment.Filename, attachment.Filepath,
		attachment.Size, attachment.MimeType, attachment.UploadedAt,
	)
	if err != nil {
		log.Error("failed to create attachment",
			slog.String("error", err.Error()),
			slog.String("attachment_id", attachment.ID.String()))
		return MapError(err)
	}

	log.Info("attachment created",
		slog.String("attachment_id", attachment.ID.String()),
		slog.String("task_id", attachment.TaskID.String()))
	return nil
}

// GetByID implements store.AttachmentStore.GetByID.
func (s *AttachmentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	query := fmt.Sprintf("SELECT %s FROM attachments WHERE id = $1", attachmentColumns)
	attachment, err := scanAttachment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAttachmentNotFound
		}
		return nil, err
	}
	return attachment, nil
}

// ListByTask implements store.AttachmentStore.ListByTask.
func (s *AttachmentStore) ListByTask(
	ctx context.Context,
	taskID uuid.UUID,
) ([]*domain.Attachment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(
		"SELECT %s FROM attachments WHERE task_id = $1 ORDER BY uploaded_at", attachmentColumns)
	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		log.Error("failed to list attachments",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var attachments []*domain.Attachment
	for rows.Next() {
		attachment, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, attachment)
	}
	return attachments, rows.Err()
}

// Delete implements store.AttachmentStore.Delete. Only the metadata row is
// removed; cleaning up the file on disk is the caller's concern.
func (s *AttachmentStore) Delete(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf("DELETE FROM attachments WHERE id = $1 RETURNING %s", attachmentColumns)
	attachment, err := scanAttachment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAttachmentNotFound
		}
		log.Error("failed to delete attachment",
			slog.String("error", err.Error()),
			slog.String("attachment_id", id.String()))
		return nil, err
	}

	log.Info("attachment deleted", slog.String("attachment_id", id.String()))
	return attachment, nil
}

func scanAttachment(row rowScanner) (*domain.Attachment, error) {
	var (
		attachment domain.Attachment
		author     uuid.NullUUID
		size       sql.NullInt64
		mimeType   sql.NullString
	)
	err := row.Scan(
		&attachment.ID, &attachment.TaskID, &author,
		&attachment.Filename, &attachment.Filepath,
		&size, &mimeType, &attachment.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	if author.Valid {
		attachment.AuthorID = &author.UUID
	}
	if size.Valid {
		attachment.Size = &size.Int64
	}
	if mimeType.Valid {
		attachment.MimeType = &mimeType.String
	}
	return &attachment, nil
}
