package service

import (
	"context"
	"fmt"

	"jobTracker/internal/models"
	repo "jobTracker/internal/repository"

	"github.com/google/uuid"
)

func (s *Service) CreateTask(ctx context.Context, phaseID uuid.UUID, in CreateTaskInput) (*models.Task, error) {
	task := in.build(phaseID)
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		phase, _, err := openPhase(ctx, tx, phaseID)
		if err != nil {
			return err
		}
		if err := validateTask(task, phase); err != nil {
			return err
		}
		if err := tx.CreateTask(ctx, &task); err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies the non-nil options and validates the result. The phase start
// bound is checked only when the start date changes, so rows placed by a cascade stay
// editable.
func (s *Service) UpdateTask(ctx context.Context, id uuid.UUID, options ...models.TaskOption) (*models.Task, error) {
	var task *models.Task
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		var err error
		task, err = tx.GetTask(ctx, id)
		if err != nil {
			return storeError(err, ResourceTask, id)
		}
		phase, _, err := openPhase(ctx, tx, task.PhaseID)
		if err != nil {
			return err
		}

		before := task.StartDate
		for _, opt := range options {
			if opt != nil {
				opt(task)
			}
		}
		if task.StartDate == before {
			phase = nil
		}
		if err := validateTask(*task, phase); err != nil {
			return err
		}
		if err := tx.UpdateTask(ctx, task); err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Service) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return s.repo.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		task, err := tx.GetTask(ctx, id)
		if err != nil {
			return storeError(err, ResourceTask, id)
		}
		if _, _, err := openPhase(ctx, tx, task.PhaseID); err != nil {
			return err
		}
		if err := tx.DeleteTask(ctx, id); err != nil {
			return storeError(err, ResourceTask, id)
		}
		return nil
	})
}

func (s *Service) CreateMaterial(ctx context.Context, phaseID uuid.UUID, in CreateMaterialInput) (*models.Material, error) {
	material := in.build(phaseID)
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		phase, _, err := openPhase(ctx, tx, phaseID)
		if err != nil {
			return err
		}
		if err := validateMaterial(material, phase); err != nil {
			return err
		}
		if err := tx.CreateMaterial(ctx, &material); err != nil {
			return fmt.Errorf("create material: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (s *Service) UpdateMaterial(ctx context.Context, id uuid.UUID, options ...models.MaterialOption) (*models.Material, error) {
	var material *models.Material
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		var err error
		material, err = tx.GetMaterial(ctx, id)
		if err != nil {
			return storeError(err, ResourceMaterial, id)
		}
		phase, _, err := openPhase(ctx, tx, material.PhaseID)
		if err != nil {
			return err
		}

		before := material.DueDate
		for _, opt := range options {
			if opt != nil {
				opt(material)
			}
		}
		if material.DueDate == before {
			phase = nil
		}
		if err := validateMaterial(*material, phase); err != nil {
			return err
		}
		if err := tx.UpdateMaterial(ctx, material); err != nil {
			return fmt.Errorf("update material: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return material, nil
}

func (s *Service) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	return s.repo.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		material, err := tx.GetMaterial(ctx, id)
		if err != nil {
			return storeError(err, ResourceMaterial, id)
		}
		if _, _, err := openPhase(ctx, tx, material.PhaseID); err != nil {
			return err
		}
		if err := tx.DeleteMaterial(ctx, id); err != nil {
			return storeError(err, ResourceMaterial, id)
		}
		return nil
	})
}
