package models

import (
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// An option returns nil when there is nothing to change; callers skip nil options.

type TaskOption func(*Task)

func WithTaskTitle(title *string) TaskOption {
	if title == nil {
		return nil
	}
	return func(t *Task) {
		t.Title = *title
	}
}

func WithTaskDescription(description *string) TaskOption {
	if description == nil {
		return nil
	}
	return func(t *Task) {
		t.Description = *description
	}
}

func WithTaskStatus(status *Status) TaskOption {
	if status == nil {
		return nil
	}
	return func(t *Task) {
		t.Status = *status
	}
}

func WithTaskStartDate(start *civil.Date) TaskOption {
	if start == nil {
		return nil
	}
	return func(t *Task) {
		t.StartDate = *start
	}
}

func WithTaskDuration(duration *int) TaskOption {
	if duration == nil {
		return nil
	}
	return func(t *Task) {
		t.Duration = *duration
	}
}

func WithTaskAssignees(users []uuid.UUID) TaskOption {
	if users == nil {
		return nil
	}
	return func(t *Task) {
		t.AssignedUsers = append([]uuid.UUID(nil), users...)
	}
}

type MaterialOption func(*Material)

func WithMaterialTitle(title *string) MaterialOption {
	if title == nil {
		return nil
	}
	return func(m *Material) {
		m.Title = *title
	}
}

func WithMaterialDescription(description *string) MaterialOption {
	if description == nil {
		return nil
	}
	return func(m *Material) {
		m.Description = *description
	}
}

func WithMaterialStatus(status *Status) MaterialOption {
	if status == nil {
		return nil
	}
	return func(m *Material) {
		m.Status = *status
	}
}

func WithMaterialDueDate(due *civil.Date) MaterialOption {
	if due == nil {
		return nil
	}
	return func(m *Material) {
		m.DueDate = *due
	}
}

func WithMaterialAssignees(users []uuid.UUID) MaterialOption {
	if users == nil {
		return nil
	}
	return func(m *Material) {
		m.AssignedUsers = append([]uuid.UUID(nil), users...)
	}
}
