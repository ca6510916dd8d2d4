package repository

import (
	"context"
	"errors"

	"jobTracker/internal/models"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")
var ErrVersionConflict = errors.New("version conflict")

type JobFilter struct {
	Status models.JobStatus // empty matches every status
	Page   int
	Limit  int
}

// Offset returns the row offset for a 1-based page.
func (f JobFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// Store is every read and write the service performs. Writes that touch several rows
// must run inside Repository.WithinTx.
type Store interface {
	CreateJob(context.Context, *models.Job) error
	GetJob(context.Context, uuid.UUID) (*models.Job, error)
	ListJobs(context.Context, JobFilter) ([]*models.Job, error)
	UpdateJob(context.Context, *models.Job) error
	DeleteJob(context.Context, uuid.UUID) error

	CreatePhase(context.Context, *models.Phase) error
	GetPhase(context.Context, uuid.UUID) (*models.Phase, error)
	ListPhases(ctx context.Context, jobID uuid.UUID) ([]*models.Phase, error)
	UpdatePhase(context.Context, *models.Phase) error
	DeletePhase(context.Context, uuid.UUID) error

	CreateTask(context.Context, *models.Task) error
	GetTask(context.Context, uuid.UUID) (*models.Task, error)
	ListTasks(ctx context.Context, jobID uuid.UUID) ([]*models.Task, error)
	UpdateTask(context.Context, *models.Task) error
	DeleteTask(context.Context, uuid.UUID) error

	CreateMaterial(context.Context, *models.Material) error
	GetMaterial(context.Context, uuid.UUID) (*models.Material, error)
	ListMaterials(ctx context.Context, jobID uuid.UUID) ([]*models.Material, error)
	UpdateMaterial(context.Context, *models.Material) error
	DeleteMaterial(context.Context, uuid.UUID) error

	CreateNote(context.Context, *models.Note) error
	GetNote(context.Context, uuid.UUID) (*models.Note, error)
	ListNotes(ctx context.Context, jobID uuid.UUID) ([]*models.Note, error)
	DeleteNote(context.Context, uuid.UUID) error

	// CreateNotification reports false when a notification with the same key exists.
	CreateNotification(context.Context, *models.Notification) (bool, error)
	ListNotifications(ctx context.Context, limit int) ([]*models.Notification, error)
}

type Repository interface {
	Store
	HealthCheck(context.Context) error
	// WithinTx runs fn against a transactional Store. The transaction commits when fn
	// returns nil and rolls back on an error or panic.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
