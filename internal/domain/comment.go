package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyCommentContent is returned when a comment has no content.
var ErrEmptyCommentContent = errors.New("comment content cannot be empty")

// Comment is a note attached to a task. AuthorID is cleared when the
// authoring user is deleted; the comment itself is deleted with its task.
type Comment struct {
	ID        uuid.UUID  `json:"id"`
	TaskID    uuid.UUID  `json:"task_id"`
	AuthorID  *uuid.UUID `json:"author_id,omitempty"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewComment creates a comment on the given task.
func NewComment(taskID, authorID uuid.UUID, content string) (*Comment, error) {
	now := time.Now().UTC()
	c := &Comment{
		ID:        uuid.New(),
		TaskID:    taskID,
		AuthorID:  &authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the comment's fields.
func (c *Comment) Validate() error {
	if c.TaskID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if c.Content == "" {
		return ErrEmptyCommentContent
	}
	return nil
}
