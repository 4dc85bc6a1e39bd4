package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Optional is a JSON field that distinguishes "absent" from "explicitly
// null" from "present with a value". Partial updates need all three states
// for nullable columns; a plain pointer collapses the first two.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON implements json.Unmarshaler. It only runs when the field is
// present in the payload, so Set records presence.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name,omitempty"`
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the payload for exchanging a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenResponse carries a freshly issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// CreateUserRequest is the admin payload for creating a user directly.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// UpdateUserRequest is the payload for partially updating a user. Absent
// fields leave the stored value unchanged.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email"`
	FullName *string `json:"full_name,omitempty"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	Role     *string `json:"role,omitempty"     validate:"omitempty,oneof=user admin"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// CreateProjectRequest is the payload for creating a project.
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty"`
}

// UpdateProjectRequest is the payload for partially updating a project.
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty"`
}

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	Title       string      `json:"title" validate:"required,max=200"`
	Description string      `json:"description,omitempty"`
	ProjectID   uuid.UUID   `json:"project_id" validate:"required"`
	PriorityID  *uuid.UUID  `json:"priority_id,omitempty"`
	StatusID    *uuid.UUID  `json:"status_id,omitempty"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids,omitempty"`
}

// UpdateTaskRequest is the payload for partially updating a task. Nullable
// references use Optional so a client can clear them with an explicit null.
type UpdateTaskRequest struct {
	Title       *string              `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string              `json:"description,omitempty"`
	ProjectID   *uuid.UUID           `json:"project_id,omitempty"`
	PriorityID  Optional[uuid.UUID]  `json:"priority_id"`
	StatusID    Optional[uuid.UUID]  `json:"status_id"`
	DueDate     Optional[time.Time]  `json:"due_date"`
	AssigneeIDs *[]uuid.UUID         `json:"assignee_ids,omitempty"`
}

// CreatePriorityRequest is the admin payload for creating a priority.
type CreatePriorityRequest struct {
	Name  string `json:"name" validate:"required,max=50"`
	Level int    `json:"level" validate:"required"`
	Color string `json:"color,omitempty"`
}

// UpdatePriorityRequest is the admin payload for partially updating a priority.
type UpdatePriorityRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=50"`
	Level *int    `json:"level,omitempty"`
	Color *string `json:"color,omitempty"`
}

// CreateStatusRequest is the admin payload for creating a status.
type CreateStatusRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	OrderNum int    `json:"order_num"`
	IsFinal  bool   `json:"is_final"`
}

// UpdateStatusRequest is the admin payload for partially updating a status.
type UpdateStatusRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=50"`
	OrderNum *int    `json:"order_num,omitempty"`
	IsFinal  *bool   `json:"is_final,omitempty"`
}

// CreateCommentRequest is the payload for commenting on a task.
type CreateCommentRequest struct {
	TaskID  uuid.UUID `json:"task_id" validate:"required"`
	Content string    `json:"content" validate:"required"`
}

// UpdateCommentRequest is the payload for editing a comment.
type UpdateCommentRequest struct {
	Content *string `json:"content,omitempty" validate:"omitempty,min=1"`
}

// CreateAttachmentRequest is the payload for recording an attachment on a
// task. The file itself is stored outside this service; only the metadata
// travels through the API.
type CreateAttachmentRequest struct {
	TaskID   uuid.UUID `json:"task_id" validate:"required"`
	Filename string    `json:"filename" validate:"required,max=255"`
	Filepath string    `json:"filepath" validate:"required,max=1024"`
	Size     *int64    `json:"size,omitempty"`
	MimeType *string   `json:"mime_type,omitempty"`
}
