package inmemory

import (
	"context"
	"time"

	"jobTracker/internal/models"
	repo "jobTracker/internal/repository"

	"github.com/google/uuid"
)

func (s *Storage) CreatePhase(ctx context.Context, phase *models.Phase) error {
	defer s.lock()()

	if _, ok := s.st.jobs.get(phase.JobID); !ok {
		return repo.ErrNotFound
	}
	phase.CreatedAt = time.Now()
	s.st.phases.put(phase.ID, *phase)
	return nil
}

func (s *Storage) GetPhase(ctx context.Context, id uuid.UUID) (*models.Phase, error) {
	defer s.rlock()()

	phase, ok := s.st.phases.get(id)
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &phase, nil
}

func (s *Storage) ListPhases(ctx context.Context, jobID uuid.UUID) ([]*models.Phase, error) {
	defer s.rlock()()

	res := []*models.Phase{}
	s.st.phases.each(func(p models.Phase) {
		if p.JobID == jobID {
			phase := p
			res = append(res, &phase)
		}
	})
	return res, nil
}

func (s *Storage) UpdatePhase(ctx context.Context, phase *models.Phase) error {
	defer s.lock()()

	if _, ok := s.st.phases.get(phase.ID); !ok {
		return repo.ErrNotFound
	}
	s.st.phases.put(phase.ID, *phase)
	return nil
}

func (s *Storage) DeletePhase(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()

	if _, ok := s.st.phases.get(id); !ok {
		return repo.ErrNotFound
	}
	s.deletePhaseRows(id)
	return nil
}

// deletePhaseRows expects the write lock to be held.
func (s *Storage) deletePhaseRows(phaseID uuid.UUID) {
	var tasks, materials, notes []uuid.UUID
	s.st.tasks.each(func(t models.Task) {
		if t.PhaseID == phaseID {
			tasks = append(tasks, t.ID)
		}
	})
	s.st.materials.each(func(m models.Material) {
		if m.PhaseID == phaseID {
			materials = append(materials, m.ID)
		}
	})
	s.st.notes.each(func(n models.Note) {
		if n.PhaseID == phaseID {
			notes = append(notes, n.ID)
		}
	})

	for _, id := range tasks {
		s.st.tasks.delete(id)
	}
	for _, id := range materials {
		s.st.materials.delete(id)
	}
	for _, id := range notes {
		s.st.notes.delete(id)
	}
	s.st.phases.delete(phaseID)
}

func (s *Storage) phaseBelongsTo(phaseID, jobID uuid.UUID) bool {
	p, ok := s.st.phases.get(phaseID)
	return ok && p.JobID == jobID
}

func (s *Storage) CreateNote(ctx context.Context, note *models.Note) error {
	defer s.lock()()

	if _, ok := s.st.phases.get(note.PhaseID); !ok {
		return repo.ErrNotFound
	}
	note.CreatedAt = time.Now()
	s.st.notes.put(note.ID, *note)
	return nil
}

func (s *Storage) GetNote(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	defer s.rlock()()

	note, ok := s.st.notes.get(id)
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &note, nil
}

func (s *Storage) ListNotes(ctx context.Context, jobID uuid.UUID) ([]*models.Note, error) {
	defer s.rlock()()

	res := []*models.Note{}
	s.st.notes.each(func(n models.Note) {
		if s.phaseBelongsTo(n.PhaseID, jobID) {
			note := n
			res = append(res, &note)
		}
	})
	return res, nil
}

func (s *Storage) DeleteNote(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()

	if _, ok := s.st.notes.get(id); !ok {
		return repo.ErrNotFound
	}
	s.st.notes.delete(id)
	return nil
}
