package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Attachment validation errors.
var (
	ErrEmptyAttachmentFilename = errors.New("attachment filename cannot be empty")
	ErrEmptyAttachmentFilepath = errors.New("attachment filepath cannot be empty")
)

// Attachment records a file linked to a task. The file bytes live outside the
// store; only the metadata is persisted. AuthorID is cleared when the
// uploading user is deleted; the attachment is deleted with its task.
type Attachment struct {
	ID         uuid.UUID  `json:"id"`
	TaskID     uuid.UUID  `json:"task_id"`
	AuthorID   *uuid.UUID `json:"author_id,omitempty"`
	Filename   string     `json:"filename"`
	Filepath   string     `json:"filepath"`
	Size       *int64     `json:"size,omitempty"`
	MimeType   *string    `json:"mime_type,omitempty"`
	UploadedAt time.Time  `json:"uploaded_at"`
}

// NewAttachment creates an attachment record for the given task.
func NewAttachment(
	taskID, authorID uuid.UUID,
	filename, filepath string,
	size *int64,
	mimeType *string,
) (*Attachment, error) {
	a := &Attachment{
		ID:         uuid.New(),
		TaskID:     taskID,
		AuthorID:   &authorID,
		Filename:   filename,
		Filepath:   filepath,
		Size:       size,
		MimeType:   mimeType,
		UploadedAt: time.Now().UTC(),
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the attachment's fields.
func (a *Attachment) Validate() error {
	if a.TaskID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if a.Filename == "" {
		return ErrEmptyAttachmentFilename
	}
	if a.Filepath == "" {
		return ErrEmptyAttachmentFilepath
	}
	return nil
}
