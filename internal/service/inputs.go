package service

import (
	"fmt"
	"strings"

	"jobTracker/internal/calendar"
	"jobTracker/internal/models"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

type CreateTaskInput struct {
	Title         string
	Description   string
	StartDate     civil.Date
	Duration      int
	Status        models.Status
	AssignedUsers []uuid.UUID
}

type CreateMaterialInput struct {
	Title         string
	Description   string
	DueDate       civil.Date
	Status        models.Status
	AssignedUsers []uuid.UUID
}

type CreatePhaseInput struct {
	Title       string
	Description string
	StartDate   civil.Date
	Tasks       []CreateTaskInput
	Materials   []CreateMaterialInput
	Notes       []string
}

type CreateJobInput struct {
	Title       string
	StartDate   civil.Date
	Location    string
	Description string
	ClientID    *uuid.UUID
	Phases      []CreatePhaseInput
}

type CreateFromTemplateInput struct {
	Template    string
	Title       string
	StartDate   civil.Date
	Location    string
	Description string
	ClientID    *uuid.UUID
}

type JobUpdate struct {
	Title       *string
	StartDate   *civil.Date
	Location    *string
	Description *string
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return NewValidationError("title", "must not be empty")
	}
	return nil
}

func validateStatus(status models.Status) error {
	if !status.Valid() {
		return NewValidationError("status", "must be one of Incomplete, In Progress, Complete")
	}
	return nil
}

// validateTask checks the task's own fields. The start date is only held against the
// phase start when phase is non-nil, which callers do on create and on a date change.
func validateTask(t models.Task, phase *models.Phase) error {
	if err := validateTitle(t.Title); err != nil {
		return err
	}
	if calendar.IsZero(t.StartDate) {
		return NewValidationError("start_date", "is required")
	}
	if phase != nil && t.StartDate.Before(phase.StartDate) {
		return NewValidationError("start_date", "start date cannot be before phase start date")
	}
	if t.Duration < 1 {
		return NewValidationError("duration", "must be at least 1 business day")
	}
	if t.Duration > calendar.MaxBusinessDays {
		return NewValidationError("duration", fmt.Sprintf("must be at most %d business days", calendar.MaxBusinessDays))
	}
	return validateStatus(t.Status)
}

func validateMaterial(m models.Material, phase *models.Phase) error {
	if err := validateTitle(m.Title); err != nil {
		return err
	}
	if calendar.IsZero(m.DueDate) {
		return NewValidationError("due_date", "is required")
	}
	if phase != nil && m.DueDate.Before(phase.StartDate) {
		return NewValidationError("due_date", "due date cannot be before phase start date")
	}
	return validateStatus(m.Status)
}

func validatePhase(p models.Phase, job models.Job) error {
	if err := validateTitle(p.Title); err != nil {
		return err
	}
	if calendar.IsZero(p.StartDate) {
		return NewValidationError("start_date", "is required")
	}
	if p.StartDate.Before(job.StartDate) {
		return NewValidationError("start_date", "start date cannot be before job start date")
	}
	return nil
}

func defaultStatus(s models.Status) models.Status {
	if s == "" {
		return models.StatusIncomplete
	}
	return s
}

func (in CreateTaskInput) build(phaseID uuid.UUID) models.Task {
	return models.Task{
		ID:            uuid.New(),
		PhaseID:       phaseID,
		Title:         in.Title,
		Description:   in.Description,
		StartDate:     in.StartDate,
		Duration:      in.Duration,
		Status:        defaultStatus(in.Status),
		AssignedUsers: append([]uuid.UUID{}, in.AssignedUsers...),
	}
}

func (in CreateMaterialInput) build(phaseID uuid.UUID) models.Material {
	return models.Material{
		ID:            uuid.New(),
		PhaseID:       phaseID,
		Title:         in.Title,
		Description:   in.Description,
		DueDate:       in.DueDate,
		Status:        defaultStatus(in.Status),
		AssignedUsers: append([]uuid.UUID{}, in.AssignedUsers...),
	}
}
