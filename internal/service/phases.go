package service

import (
	"context"
	"fmt"

	"jobTracker/internal/logger"
	"jobTracker/internal/models"
	repo "jobTracker/internal/repository"
	"jobTracker/internal/schedule"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Service) CreatePhase(ctx context.Context, jobID uuid.UUID, in CreatePhaseInput) (*models.Phase, error) {
	var phase *models.Phase
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		job, err := openJob(ctx, tx, jobID)
		if err != nil {
			return err
		}
		existing, err := tx.ListPhases(ctx, jobID)
		if err != nil {
			return fmt.Errorf("list phases: %w", err)
		}
		position := 0
		for _, p := range existing {
			if p.Position >= position {
				position = p.Position + 1
			}
		}

		phase, err = createPhase(ctx, tx, *job, position, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Service: phase created",
		zap.String("job_id", jobID.String()),
		zap.String("phase_id", phase.ID.String()))
	return phase, nil
}

// UpdatePhase runs a phase edit through the schedule engine and writes the resulting
// plan atomically. A rejected edit writes nothing.
func (s *Service) UpdatePhase(ctx context.Context, edit schedule.PhaseEdit) (*JobDetail, error) {
	if edit.Title != nil {
		if err := validateTitle(*edit.Title); err != nil {
			return nil, err
		}
	}

	var jobID uuid.UUID
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		phase, job, err := openPhase(ctx, tx, edit.PhaseID)
		if err != nil {
			return err
		}
		jobID = job.ID

		snap, err := loadSnapshot(ctx, tx, phase.JobID)
		if err != nil {
			return err
		}
		plan, err := s.engine.PlanPhaseEdit(snap, edit)
		if err != nil {
			return engineError(err)
		}
		if err := applyPlan(ctx, tx, plan); err != nil {
			return err
		}

		logger.Info("Service: phase edited",
			zap.String("phase_id", edit.PhaseID.String()),
			zap.Int("extend_days", edit.ExtendDays),
			zap.Bool("extend_future", edit.ExtendFuturePhases),
			zap.Int("phases_changed", len(plan.Phases)),
			zap.Int("tasks_changed", len(plan.Tasks)),
			zap.Int("materials_changed", len(plan.Materials)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetJobDetail(ctx, jobID)
}

func (s *Service) DeletePhase(ctx context.Context, id uuid.UUID) error {
	return s.repo.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		if _, _, err := openPhase(ctx, tx, id); err != nil {
			return err
		}
		if err := tx.DeletePhase(ctx, id); err != nil {
			return storeError(err, ResourcePhase, id)
		}
		return nil
	})
}

func (s *Service) AddNote(ctx context.Context, phaseID uuid.UUID, body string) (*models.Note, error) {
	if body == "" {
		return nil, NewValidationError("body", "must not be empty")
	}

	note := &models.Note{ID: uuid.New(), PhaseID: phaseID, Body: body}
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		if _, _, err := openPhase(ctx, tx, phaseID); err != nil {
			return err
		}
		if err := tx.CreateNote(ctx, note); err != nil {
			return fmt.Errorf("create note: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (s *Service) DeleteNote(ctx context.Context, id uuid.UUID) error {
	return s.repo.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		note, err := tx.GetNote(ctx, id)
		if err != nil {
			return storeError(err, ResourceNote, id)
		}
		if _, _, err := openPhase(ctx, tx, note.PhaseID); err != nil {
			return err
		}
		if err := tx.DeleteNote(ctx, id); err != nil {
			return storeError(err, ResourceNote, id)
		}
		return nil
	})
}
