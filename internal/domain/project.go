package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Project validation errors.
var (
	ErrEmptyProjectID     = errors.New("project ID cannot be empty")
	ErrEmptyProjectName   = errors.New("project name cannot be empty")
	ErrProjectNameTooLong = errors.New("project name must be at most 100 characters long")
)

// Project groups tasks under a single owner.
// OwnerID is nullable: when the owning user is deleted the project survives
// with its owner cleared.
type Project struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewProject creates a project owned by the given user.
func NewProject(name, description string, ownerID uuid.UUID) (*Project, error) {
	now := time.Now().UTC()
	p := &Project{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		OwnerID:     &ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks that the project's fields satisfy the domain constraints.
func (p *Project) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProjectID
	}
	if p.Name == "" {
		return ErrEmptyProjectName
	}
	if len(p.Name) > 100 {
		return ErrProjectNameTooLong
	}
	return nil
}
