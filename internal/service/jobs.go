package service

import (
	"context"
	"fmt"

	"jobTracker/internal/calendar"
	"jobTracker/internal/logger"
	"jobTracker/internal/models"
	repo "jobTracker/internal/repository"
	"jobTracker/internal/templates"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// CreateJob stores a job with all nested phases, tasks, materials and notes in one
// transaction. Nothing is written when any part fails validation.
func (s *Service) CreateJob(ctx context.Context, in CreateJobInput) (*JobDetail, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if calendar.IsZero(in.StartDate) {
		return nil, NewValidationError("start_date", "is required")
	}

	job := &models.Job{
		ID:          uuid.New(),
		Title:       in.Title,
		StartDate:   in.StartDate,
		Status:      models.JobActive,
		Location:    in.Location,
		Description: in.Description,
		ClientID:    in.ClientID,
	}

	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		if err := tx.CreateJob(ctx, job); err != nil {
			return fmt.Errorf("create job: %w", err)
		}
		for i, p := range in.Phases {
			if _, err := createPhase(ctx, tx, *job, i, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn("Service: job not created", zap.Error(err))
		return nil, err
	}

	logger.Info("Service: job created",
		zap.String("job_id", job.ID.String()),
		zap.Int("phases", len(in.Phases)))
	return s.GetJobDetail(ctx, job.ID)
}

// createPhase validates and writes one phase with its children.
func createPhase(ctx context.Context, tx repo.Store, job models.Job, position int, in CreatePhaseInput) (*models.Phase, error) {
	phase := models.Phase{
		ID:          uuid.New(),
		JobID:       job.ID,
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		Position:    position,
	}
	if err := validatePhase(phase, job); err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(in.Tasks))
	for _, t := range in.Tasks {
		task := t.build(phase.ID)
		if err := validateTask(task, &phase); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	materials := make([]models.Material, 0, len(in.Materials))
	for _, m := range in.Materials {
		material := m.build(phase.ID)
		if err := validateMaterial(material, &phase); err != nil {
			return nil, err
		}
		materials = append(materials, material)
	}

	if err := tx.CreatePhase(ctx, &phase); err != nil {
		return nil, fmt.Errorf("create phase: %w", err)
	}
	for i := range tasks {
		if err := tx.CreateTask(ctx, &tasks[i]); err != nil {
			return nil, fmt.Errorf("create task: %w", err)
		}
	}
	for i := range materials {
		if err := tx.CreateMaterial(ctx, &materials[i]); err != nil {
			return nil, fmt.Errorf("create material: %w", err)
		}
	}
	for _, body := range in.Notes {
		note := &models.Note{ID: uuid.New(), PhaseID: phase.ID, Body: body}
		if err := tx.CreateNote(ctx, note); err != nil {
			return nil, fmt.Errorf("create note: %w", err)
		}
	}
	return &phase, nil
}

func (s *Service) CreateJobFromTemplate(ctx context.Context, in CreateFromTemplateInput) (*JobDetail, error) {
	tmpl, ok := s.templates.Get(in.Template)
	if !ok {
		return nil, NewTemplateNotFound(in.Template)
	}
	if calendar.IsZero(in.StartDate) {
		return nil, NewValidationError("start_date", "is required")
	}

	title := in.Title
	if title == "" {
		title = tmpl.Name
	}

	return s.CreateJob(ctx, fromBlueprint(tmpl.Instantiate(in.StartDate), CreateJobInput{
		Title:       title,
		StartDate:   in.StartDate,
		Location:    in.Location,
		Description: in.Description,
		ClientID:    in.ClientID,
	}))
}

func fromBlueprint(bp templates.Blueprint, in CreateJobInput) CreateJobInput {
	in.Phases = make([]CreatePhaseInput, 0, len(bp.Phases))
	for _, p := range bp.Phases {
		phase := CreatePhaseInput{
			Title:       p.Title,
			Description: p.Description,
			StartDate:   p.StartDate,
		}
		for _, t := range p.Tasks {
			phase.Tasks = append(phase.Tasks, CreateTaskInput{
				Title:       t.Title,
				Description: t.Description,
				StartDate:   t.StartDate,
				Duration:    t.Duration,
			})
		}
		for _, m := range p.Materials {
			phase.Materials = append(phase.Materials, CreateMaterialInput{
				Title:       m.Title,
				Description: m.Description,
				DueDate:     m.DueDate,
			})
		}
		in.Phases = append(in.Phases, phase)
	}
	return in
}

func (s *Service) GetJobDetail(ctx context.Context, id uuid.UUID) (*JobDetail, error) {
	snap, err := loadSnapshot(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	notes, err := s.repo.ListNotes(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return buildDetail(snap, notes, s.today()), nil
}

func (s *Service) ListJobs(ctx context.Context, status models.JobStatus, page, limit int) ([]JobListItem, error) {
	if status != "" && !status.Valid() {
		return nil, NewValidationError("status", "must be active or closed")
	}
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	jobs, err := s.repo.ListJobs(ctx, repo.JobFilter{Status: status, Page: page, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	today := s.today()
	items := make([]JobListItem, 0, len(jobs))
	for _, job := range jobs {
		snap, err := loadSnapshot(ctx, s.repo, job.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, listItem(snap, today))
	}
	return items, nil
}

// UpdateJob edits job fields. A new start date cascades through every phase.
func (s *Service) UpdateJob(ctx context.Context, id uuid.UUID, upd JobUpdate) (*JobDetail, error) {
	if upd.Title != nil {
		if err := validateTitle(*upd.Title); err != nil {
			return nil, err
		}
	}
	if upd.StartDate != nil && calendar.IsZero(*upd.StartDate) {
		return nil, NewValidationError("start_date", "is required")
	}

	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		if _, err := openJob(ctx, tx, id); err != nil {
			return err
		}
		snap, err := loadSnapshot(ctx, tx, id)
		if err != nil {
			return err
		}

		job := snap.Job
		if upd.StartDate != nil && *upd.StartDate != snap.Job.StartDate {
			plan, err := s.engine.PlanJobStartEdit(snap, *upd.StartDate)
			if err != nil {
				return engineError(err)
			}
			if plan.Job != nil {
				job = *plan.Job
				plan.Job = nil
			}
			if err := applyPlan(ctx, tx, plan); err != nil {
				return err
			}
			logger.Info("Service: job start date moved",
				zap.String("job_id", id.String()),
				zap.String("from", calendar.FormatDateKey(snap.Job.StartDate)),
				zap.String("to", calendar.FormatDateKey(job.StartDate)))
		}

		if upd.Title != nil {
			job.Title = *upd.Title
		}
		if upd.Location != nil {
			job.Location = *upd.Location
		}
		if upd.Description != nil {
			job.Description = *upd.Description
		}
		if err := tx.UpdateJob(ctx, &job); err != nil {
			return fmt.Errorf("update job: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetJobDetail(ctx, id)
}

func (s *Service) CloseJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job *models.Job
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		var err error
		job, err = openJob(ctx, tx, id)
		if err != nil {
			return err
		}
		job.Status = models.JobClosed
		if err := tx.UpdateJob(ctx, job); err != nil {
			return fmt.Errorf("close job: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Service: job closed", zap.String("job_id", id.String()))
	return job, nil
}

func (s *Service) DeleteJob(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteJob(ctx, id); err != nil {
		return storeError(err, ResourceJob, id)
	}
	logger.Info("Service: job deleted", zap.String("job_id", id.String()))
	return nil
}
