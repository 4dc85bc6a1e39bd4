package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Task validation errors.
var (
	ErrEmptyTaskID        = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle     = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong   = errors.New("task title must be at most 200 characters long")
	ErrEmptyTaskProjectID = errors.New("task must reference a project")
)

// Task is a unit of work inside a project.
// OwnerID records the creating user and is cleared (not cascaded) when that
// user is deleted. PriorityID and StatusID are optional references to
// admin-managed reference data and are likewise cleared on deletion of the
// referenced row. Deleting the project deletes its tasks.
type Task struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	ProjectID   uuid.UUID   `json:"project_id"`
	PriorityID  *uuid.UUID  `json:"priority_id,omitempty"`
	StatusID    *uuid.UUID  `json:"status_id,omitempty"`
	OwnerID     *uuid.UUID  `json:"owner_id,omitempty"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewTask creates a task in the given project, owned by the creating user.
func NewTask(
	title, description string,
	projectID, ownerID uuid.UUID,
	priorityID, statusID *uuid.UUID,
	dueDate *time.Time,
	assigneeIDs []uuid.UUID,
) (*Task, error) {
	now := time.Now().UTC()
	t := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		ProjectID:   projectID,
		PriorityID:  priorityID,
		StatusID:    statusID,
		OwnerID:     &ownerID,
		DueDate:     dueDate,
		AssigneeIDs: assigneeIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate checks that the task's fields satisfy the domain constraints.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.Title == "" {
		return ErrEmptyTaskTitle
	}
	if len(t.Title) > 200 {
		return ErrTaskTitleTooLong
	}
	if t.ProjectID == uuid.Nil {
		return ErrEmptyTaskProjectID
	}
	return nil
}

// IsAssignee reports whether the given user is in the task's assignee set.
func (t *Task) IsAssignee(userID uuid.UUID) bool {
	for _, id := range t.AssigneeIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// TaskDetails is a task together with its resolved references, as returned
// by single-task reads and task listings.
type TaskDetails struct {
	Task
	Project   *Project  `json:"project,omitempty"`
	Priority  *Priority `json:"priority,omitempty"`
	Status    *Status   `json:"status,omitempty"`
	Assignees []User    `json:"assignees,omitempty"`
}
