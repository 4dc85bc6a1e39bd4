package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	projectID := uuid.New()
	ownerID := uuid.New()
	assignee := uuid.New()
	due := time.Now().UTC().Add(48 * time.Hour)

	task, err := domain.NewTask(
		"ship v2", "final pass", projectID, ownerID,
		nil, nil, &due, []uuid.UUID{assignee},
	)
	require.NoError(t, err)

	assert.Equal(t, "ship v2", task.Title)
	assert.Equal(t, projectID, task.ProjectID)
	require.NotNil(t, task.OwnerID)
	assert.Equal(t, ownerID, *task.OwnerID)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, due, *task.DueDate)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		title     string
		projectID uuid.UUID
		wantErr   error
	}{
		{"valid", "ship v2", uuid.New(), nil},
		{"empty title", "", uuid.New(), domain.ErrEmptyTaskTitle},
		{"title too long", strings.Repeat("t", 201), uuid.New(), domain.ErrTaskTitleTooLong},
		{"missing project", "ship v2", uuid.Nil, domain.ErrEmptyTaskProjectID},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := domain.NewTask(tt.title, "", tt.projectID, uuid.New(), nil, nil, nil, nil)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestTaskIsAssignee(t *testing.T) {
	t.Parallel()

	assignee := uuid.New()
	task := &domain.Task{AssigneeIDs: []uuid.UUID{assignee, uuid.New()}}

	assert.True(t, task.IsAssignee(assignee))
	assert.False(t, task.IsAssignee(uuid.New()))

	empty := &domain.Task{}
	assert.False(t, empty.IsAssignee(assignee))
}

func TestNewProject(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	project, err := domain.NewProject("roadmap", "H2 planning", ownerID)
	require.NoError(t, err)

	assert.Equal(t, "roadmap", project.Name)
	require.NotNil(t, project.OwnerID)
	assert.Equal(t, ownerID, *project.OwnerID)

	_, err = domain.NewProject("", "", ownerID)
	assert.ErrorIs(t, err, domain.ErrEmptyProjectName)

	_, err = domain.NewProject(strings.Repeat("n", 101), "", ownerID)
	assert.ErrorIs(t, err, domain.ErrProjectNameTooLong)
}

func TestNewComment(t *testing.T) {
	t.Parallel()

	taskID := uuid.New()
	authorID := uuid.New()

	comment, err := domain.NewComment(taskID, authorID, "looks good")
	require.NoError(t, err)
	assert.Equal(t, taskID, comment.TaskID)
	require.NotNil(t, comment.AuthorID)
	assert.Equal(t, authorID, *comment.AuthorID)

	_, err = domain.NewComment(taskID, authorID, "")
	assert.ErrorIs(t, err, domain.ErrEmptyCommentContent)
}

func TestNewAttachment(t *testing.T) {
	t.Parallel()

	taskID := uuid.New()
	authorID := uuid.New()
	size := int64(2048)
	mime := "application/pdf"

	attachment, err := domain.NewAttachment(taskID, authorID, "spec.pdf", "/files/spec.pdf", &size, &mime)
	require.NoError(t, err)
	assert.Equal(t, "spec.pdf", attachment.Filename)
	require.NotNil(t, attachment.Size)
	assert.Equal(t, size, *attachment.Size)

	_, err = domain.NewAttachment(taskID, authorID, "", "/files/spec.pdf", nil, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyAttachmentFilename)

	_, err = domain.NewAttachment(taskID, authorID, "spec.pdf", "", nil, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyAttachmentFilepath)
}

func TestNewPriorityDefaultsColor(t *testing.T) {
	t.Parallel()

	priority, err := domain.NewPriority("High", 3, "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPriorityColor, priority.Color)

	priority, err = domain.NewPriority("Low", 1, "#95a5a6")
	require.NoError(t, err)
	assert.Equal(t, "#95a5a6", priority.Color)

	_, err = domain.NewPriority("", 1, "")
	assert.ErrorIs(t, err, domain.ErrEmptyPriorityName)
}
