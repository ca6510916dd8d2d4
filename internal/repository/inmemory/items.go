package inmemory

import (
	"context"
	"time"

	"jobTracker/internal/models"
	repo "jobTracker/internal/repository"

	"github.com/google/uuid"
)

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	defer s.lock()()

	if _, ok := s.st.phases.get(task.PhaseID); !ok {
		return repo.ErrNotFound
	}
	task.CreatedAt = time.Now()
	task.AssignedUsers = copyUsers(task.AssignedUsers)
	s.st.tasks.put(task.ID, *task)
	return nil
}

func (s *Storage) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	defer s.rlock()()

	task, ok := s.st.tasks.get(id)
	if !ok {
		return nil, repo.ErrNotFound
	}
	task.AssignedUsers = copyUsers(task.AssignedUsers)
	return &task, nil
}

func (s *Storage) ListTasks(ctx context.Context, jobID uuid.UUID) ([]*models.Task, error) {
	defer s.rlock()()

	res := []*models.Task{}
	s.st.tasks.each(func(t models.Task) {
		if s.phaseBelongsTo(t.PhaseID, jobID) {
			task := t
			task.AssignedUsers = copyUsers(t.AssignedUsers)
			res = append(res, &task)
		}
	})
	return res, nil
}

func (s *Storage) UpdateTask(ctx context.Context, task *models.Task) error {
	defer s.lock()()

	if _, ok := s.st.tasks.get(task.ID); !ok {
		return repo.ErrNotFound
	}
	task.UpdatedAt = now()
	stored := *task
	stored.AssignedUsers = copyUsers(task.AssignedUsers)
	s.st.tasks.put(task.ID, stored)
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()

	if _, ok := s.st.tasks.get(id); !ok {
		return repo.ErrNotFound
	}
	s.st.tasks.delete(id)
	return nil
}

func (s *Storage) CreateMaterial(ctx context.Context, material *models.Material) error {
	defer s.lock()()

	if _, ok := s.st.phases.get(material.PhaseID); !ok {
		return repo.ErrNotFound
	}
	material.CreatedAt = time.Now()
	material.AssignedUsers = copyUsers(material.AssignedUsers)
	s.st.materials.put(material.ID, *material)
	return nil
}

func (s *Storage) GetMaterial(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	defer s.rlock()()

	material, ok := s.st.materials.get(id)
	if !ok {
		return nil, repo.ErrNotFound
	}
	material.AssignedUsers = copyUsers(material.AssignedUsers)
	return &material, nil
}

func (s *Storage) ListMaterials(ctx context.Context, jobID uuid.UUID) ([]*models.Material, error) {
	defer s.rlock()()

	res := []*models.Material{}
	s.st.materials.each(func(m models.Material) {
		if s.phaseBelongsTo(m.PhaseID, jobID) {
			material := m
			material.AssignedUsers = copyUsers(m.AssignedUsers)
			res = append(res, &material)
		}
	})
	return res, nil
}

func (s *Storage) UpdateMaterial(ctx context.Context, material *models.Material) error {
	defer s.lock()()

	if _, ok := s.st.materials.get(material.ID); !ok {
		return repo.ErrNotFound
	}
	material.UpdatedAt = now()
	stored := *material
	stored.AssignedUsers = copyUsers(material.AssignedUsers)
	s.st.materials.put(material.ID, stored)
	return nil
}

func (s *Storage) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()

	if _, ok := s.st.materials.get(id); !ok {
		return repo.ErrNotFound
	}
	s.st.materials.delete(id)
	return nil
}
