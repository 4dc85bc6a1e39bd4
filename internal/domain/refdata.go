package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Reference data validation errors.
var (
	ErrEmptyPriorityName = errors.New("priority name cannot be empty")
	ErrEmptyStatusName   = errors.New("status name cannot be empty")
)

// DefaultPriorityColor is used when a priority is created without a color.
const DefaultPriorityColor = "#6B7280"

// Priority is admin-managed reference data ranking task urgency.
// Priorities are readable by any authenticated user.
type Priority struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Level int       `json:"level"`
	Color string    `json:"color"`
}

// NewPriority creates a priority, applying the default color when none is given.
func NewPriority(name string, level int, color string) (*Priority, error) {
	if color == "" {
		color = DefaultPriorityColor
	}
	p := &Priority{
		ID:    uuid.New(),
		Name:  name,
		Level: level,
		Color: color,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the priority's fields.
func (p *Priority) Validate() error {
	if p.Name == "" {
		return ErrEmptyPriorityName
	}
	return nil
}

// Status is admin-managed reference data describing a task's workflow stage.
// IsFinal marks terminal stages.
type Status struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	OrderNum int       `json:"order_num"`
	IsFinal  bool      `json:"is_final"`
}

// NewStatus creates a workflow status.
func NewStatus(name string, orderNum int, isFinal bool) (*Status, error) {
	s := &Status{
		ID:       uuid.New(),
		Name:     name,
		OrderNum: orderNum,
		IsFinal:  isFinal,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the status's fields.
func (s *Status) Validate() error {
	if s.Name == "" {
		return ErrEmptyStatusName
	}
	return nil
}
