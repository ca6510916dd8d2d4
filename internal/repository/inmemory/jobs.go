package inmemory

import (
	"context"
	"time"

	"jobTracker/internal/models"
	repo "jobTracker/internal/repository"

	"github.com/google/uuid"
)

func (s *Storage) CreateJob(ctx context.Context, job *models.Job) error {
	defer s.lock()()

	job.CreatedAt = time.Now()
	if job.Status == "" {
		job.Status = models.JobActive
	}
	s.st.jobs.put(job.ID, *job)
	return nil
}

func (s *Storage) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	defer s.rlock()()

	job, ok := s.st.jobs.get(id)
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &job, nil
}

func (s *Storage) ListJobs(ctx context.Context, filter repo.JobFilter) ([]*models.Job, error) {
	defer s.rlock()()

	res := []*models.Job{}
	skipped := 0
	s.st.jobs.each(func(job models.Job) {
		if filter.Status != "" && job.Status != filter.Status {
			return
		}
		if skipped < filter.Offset() {
			skipped++
			return
		}
		if filter.Limit > 0 && len(res) >= filter.Limit {
			return
		}
		j := job
		res = append(res, &j)
	})
	return res, nil
}

func (s *Storage) UpdateJob(ctx context.Context, job *models.Job) error {
	defer s.lock()()

	if _, ok := s.st.jobs.get(job.ID); !ok {
		return repo.ErrNotFound
	}
	job.UpdatedAt = now()
	s.st.jobs.put(job.ID, *job)
	return nil
}

// DeleteJob removes the job with its phases, their children and its notifications.
func (s *Storage) DeleteJob(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()

	if _, ok := s.st.jobs.get(id); !ok {
		return repo.ErrNotFound
	}

	var phases []uuid.UUID
	s.st.phases.each(func(p models.Phase) {
		if p.JobID == id {
			phases = append(phases, p.ID)
		}
	})
	for _, phaseID := range phases {
		s.deletePhaseRows(phaseID)
	}

	var notifications []models.Notification
	s.st.notifications.each(func(n models.Notification) {
		if n.JobID == id {
			notifications = append(notifications, n)
		}
	})
	for _, n := range notifications {
		s.st.notifications.delete(n.ID)
		delete(s.st.keys, n.Key)
	}

	s.st.jobs.delete(id)
	return nil
}

func (s *Storage) CreateNotification(ctx context.Context, n *models.Notification) (bool, error) {
	defer s.lock()()

	if _, exists := s.st.keys[n.Key]; exists {
		return false, nil
	}
	n.CreatedAt = time.Now()
	s.st.notifications.put(n.ID, *n)
	s.st.keys[n.Key] = n.ID
	return true, nil
}

// ListNotifications returns the newest notifications first.
func (s *Storage) ListNotifications(ctx context.Context, limit int) ([]*models.Notification, error) {
	defer s.rlock()()

	order := s.st.notifications.order
	res := []*models.Notification{}
	for i := len(order) - 1; i >= 0; i-- {
		if limit > 0 && len(res) >= limit {
			break
		}
		n := s.st.notifications.rows[order[i]]
		res = append(res, &n)
	}
	return res, nil
}
