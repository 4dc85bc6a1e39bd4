package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// CommentPatch describes a partial update to a comment.
type CommentPatch struct {
	Content *string
}

// Empty reports whether the patch carries no changes.
func (p CommentPatch) Empty() bool {
	return p.Content == nil
}

// CommentStore defines comment persistence. Visibility follows the parent
// task's read rule and authorship governs mutation; both are composed at the
// HTTP surface from the task store and the policy package.
type CommentStore interface {
	Create(ctx context.Context, comment *domain.Comment) error

	// GetByID returns ErrCommentNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)

	// ListByTask returns the task's comments ordered by creation time.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error)

	Update(ctx context.Context, id uuid.UUID, patch CommentPatch) (*domain.Comment, error)

	// Delete removes the comment and returns the deleted record.
	Delete(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
}

// AttachmentStore defines attachment metadata persistence, with the same
// composition rules as CommentStore. Attachments have no update path.
type AttachmentStore interface {
	Create(ctx context.Context, attachment *domain.Attachment) error

	// GetByID returns ErrAttachmentNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)

	// ListByTask returns the task's attachments ordered by upload time.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Attachment, error)

	// Delete removes the attachment and returns the deleted record.
	Delete(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)
}
