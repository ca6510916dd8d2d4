package service

import (
	"context"
	"fmt"
	"time"

	"jobTracker/internal/calendar"
	"jobTracker/internal/logger"
	"jobTracker/internal/models"
	repo "jobTracker/internal/repository"
	"jobTracker/internal/schedule"
	"jobTracker/internal/templates"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repository is the storage the service needs. Writes that touch several rows go
// through WithinTx.
type Repository interface {
	repo.Store
	HealthCheck(context.Context) error
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx repo.Store) error) error
}

type Service struct {
	repo      Repository
	engine    schedule.Engine
	templates *templates.Registry
	now       func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithEngine(engine schedule.Engine) Option {
	return func(s *Service) {
		s.engine = engine
	}
}

func WithTemplates(reg *templates.Registry) Option {
	return func(s *Service) {
		if reg != nil {
			s.templates = reg
		}
	}
}

func New(repository Repository, opts ...Option) *Service {
	empty, _ := templates.NewRegistry()
	s := &Service{
		repo:      repository,
		engine:    schedule.NewEngine(calendar.SnapForward),
		templates: empty,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		logger.Error("Service: health check failed", err)
		return fmt.Errorf("service health check: %w", err)
	}
	return nil
}

func (s *Service) today() civil.Date {
	return calendar.Today(s.now())
}

// loadSnapshot reads every row of one job through the given store.
func loadSnapshot(ctx context.Context, store repo.Store, jobID uuid.UUID) (schedule.Snapshot, error) {
	job, err := store.GetJob(ctx, jobID)
	if err != nil {
		return schedule.Snapshot{}, storeError(err, ResourceJob, jobID)
	}
	phases, err := store.ListPhases(ctx, jobID)
	if err != nil {
		return schedule.Snapshot{}, fmt.Errorf("list phases: %w", err)
	}
	tasks, err := store.ListTasks(ctx, jobID)
	if err != nil {
		return schedule.Snapshot{}, fmt.Errorf("list tasks: %w", err)
	}
	materials, err := store.ListMaterials(ctx, jobID)
	if err != nil {
		return schedule.Snapshot{}, fmt.Errorf("list materials: %w", err)
	}

	snap := schedule.Snapshot{
		Job:       *job,
		Phases:    make([]models.Phase, 0, len(phases)),
		Tasks:     make([]models.Task, 0, len(tasks)),
		Materials: make([]models.Material, 0, len(materials)),
	}
	for _, p := range phases {
		snap.Phases = append(snap.Phases, *p)
	}
	for _, t := range tasks {
		snap.Tasks = append(snap.Tasks, *t)
	}
	for _, m := range materials {
		snap.Materials = append(snap.Materials, *m)
	}
	return snap, nil
}

// applyPlan writes every row the plan changed.
func applyPlan(ctx context.Context, store repo.Store, plan schedule.Plan) error {
	if plan.Job != nil {
		job := *plan.Job
		if err := store.UpdateJob(ctx, &job); err != nil {
			return fmt.Errorf("update job %s: %w", job.ID, err)
		}
	}
	for i := range plan.Phases {
		phase := plan.Phases[i]
		if err := store.UpdatePhase(ctx, &phase); err != nil {
			return fmt.Errorf("update phase %s: %w", phase.ID, err)
		}
	}
	for i := range plan.Tasks {
		task := plan.Tasks[i]
		if err := store.UpdateTask(ctx, &task); err != nil {
			return fmt.Errorf("update task %s: %w", task.ID, err)
		}
	}
	for i := range plan.Materials {
		material := plan.Materials[i]
		if err := store.UpdateMaterial(ctx, &material); err != nil {
			return fmt.Errorf("update material %s: %w", material.ID, err)
		}
	}

	logger.Debug("Service: plan applied",
		zap.Int("phases", len(plan.Phases)),
		zap.Int("tasks", len(plan.Tasks)),
		zap.Int("materials", len(plan.Materials)))
	return nil
}

// openJob loads a job and rejects it when closed.
func openJob(ctx context.Context, store repo.Store, jobID uuid.UUID) (*models.Job, error) {
	job, err := store.GetJob(ctx, jobID)
	if err != nil {
		return nil, storeError(err, ResourceJob, jobID)
	}
	if job.Status == models.JobClosed {
		return nil, NewJobClosed(jobID)
	}
	return job, nil
}

// openPhase loads a phase together with its job and rejects closed jobs.
func openPhase(ctx context.Context, store repo.Store, phaseID uuid.UUID) (*models.Phase, *models.Job, error) {
	phase, err := store.GetPhase(ctx, phaseID)
	if err != nil {
		return nil, nil, storeError(err, ResourcePhase, phaseID)
	}
	job, err := openJob(ctx, store, phase.JobID)
	if err != nil {
		return nil, nil, err
	}
	return phase, job, nil
}
