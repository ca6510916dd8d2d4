package handlers

import (
	"context"

	"jobTracker/internal/models"
	"jobTracker/internal/schedule"
	"jobTracker/internal/service"
	"jobTracker/internal/templates"

	"github.com/google/uuid"
)

type Service interface {
	HealthCheck(context.Context) error

	CreateJob(context.Context, service.CreateJobInput) (*service.JobDetail, error)
	CreateJobFromTemplate(context.Context, service.CreateFromTemplateInput) (*service.JobDetail, error)
	GetJobDetail(context.Context, uuid.UUID) (*service.JobDetail, error)
	ListJobs(ctx context.Context, status models.JobStatus, page, limit int) ([]service.JobListItem, error)
	UpdateJob(context.Context, uuid.UUID, service.JobUpdate) (*service.JobDetail, error)
	CloseJob(context.Context, uuid.UUID) (*models.Job, error)
	DeleteJob(context.Context, uuid.UUID) error

	CreatePhase(context.Context, uuid.UUID, service.CreatePhaseInput) (*models.Phase, error)
	UpdatePhase(context.Context, schedule.PhaseEdit) (*service.JobDetail, error)
	DeletePhase(context.Context, uuid.UUID) error

	CreateTask(context.Context, uuid.UUID, service.CreateTaskInput) (*models.Task, error)
	UpdateTask(context.Context, uuid.UUID, ...models.TaskOption) (*models.Task, error)
	DeleteTask(context.Context, uuid.UUID) error

	CreateMaterial(context.Context, uuid.UUID, service.CreateMaterialInput) (*models.Material, error)
	UpdateMaterial(context.Context, uuid.UUID, ...models.MaterialOption) (*models.Material, error)
	DeleteMaterial(context.Context, uuid.UUID) error

	AddNote(context.Context, uuid.UUID, string) (*models.Note, error)
	DeleteNote(context.Context, uuid.UUID) error

	Dashboard(context.Context) (*service.Dashboard, error)
	ListNotifications(context.Context, int) ([]*models.Notification, error)
	ListTemplates() []templates.Template
}

var _ Service = (*service.Service)(nil)
