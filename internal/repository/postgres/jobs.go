package postgres

import (
	"context"
	"fmt"
	"time"

	"jobTracker/internal/models"
	repo "jobTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `id, title, start_date, status, location, description, client_id, created_at, updated_at`

func scanJob(row pgx.Row) (*models.Job, error) {
	job := &models.Job{}
	var start time.Time
	err := row.Scan(
		&job.ID,
		&job.Title,
		&start,
		&job.Status,
		&job.Location,
		&job.Description,
		&job.ClientID,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	job.StartDate = scanDate(start)
	return job, nil
}

func (s *Storage) CreateJob(ctx context.Context, job *models.Job) error {
	start := time.Now()
	defer observe("create job", start)

	if job.Status == "" {
		job.Status = models.JobActive
	}

	query := `INSERT INTO jobs
				(id, title, start_date, status, location, description, client_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING created_at`

	err := s.db.QueryRow(ctx, query,
		job.ID,
		job.Title,
		dateParam(job.StartDate),
		job.Status,
		job.Location,
		job.Description,
		job.ClientID,
	).Scan(&job.CreatedAt)
	if err != nil {
		return wrap("create job", err)
	}
	return nil
}

func (s *Storage) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	start := time.Now()
	defer observe("get job", start)

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	job, err := scanJob(s.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, wrap("get job", err)
	}
	return job, nil
}

func (s *Storage) ListJobs(ctx context.Context, filter repo.JobFilter) ([]*models.Job, error) {
	start := time.Now()
	defer observe("list jobs", start)

	var limit any
	if filter.Limit > 0 {
		limit = filter.Limit
	}

	query := `SELECT ` + jobColumns + `
				FROM jobs
				WHERE ($1 = '' OR status = $1)
				ORDER BY created_at, id
				LIMIT $2 OFFSET $3`

	rows, err := s.db.Query(ctx, query, string(filter.Status), limit, filter.Offset())
	if err != nil {
		return nil, wrap("list jobs", err)
	}
	defer rows.Close()

	jobs := []*models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, wrap("scan job", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate jobs", err)
	}
	return jobs, nil
}

func (s *Storage) UpdateJob(ctx context.Context, job *models.Job) error {
	start := time.Now()
	defer observe("update job", start)

	query := `UPDATE jobs
			SET title = $1,
				start_date = $2,
				status = $3,
				location = $4,
				description = $5,
				client_id = $6,
				updated_at = NOW()
			WHERE id = $7
			RETURNING updated_at`

	err := s.db.QueryRow(ctx, query,
		job.Title,
		dateParam(job.StartDate),
		job.Status,
		job.Location,
		job.Description,
		job.ClientID,
		job.ID,
	).Scan(&job.UpdatedAt)
	if err != nil {
		return wrap("update job", err)
	}
	return nil
}

// DeleteJob relies on ON DELETE CASCADE for phases, their children and notifications.
func (s *Storage) DeleteJob(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	defer observe("delete job", start)

	tag, err := s.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return wrap("delete job", err)
	}
	return affected(tag)
}

func (s *Storage) CreateNotification(ctx context.Context, n *models.Notification) (bool, error) {
	start := time.Now()
	defer observe("create notification", start)

	query := `INSERT INTO notifications (id, job_id, key, message)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (key) DO NOTHING
				RETURNING created_at`

	err := s.db.QueryRow(ctx, query, n.ID, n.JobID, n.Key, n.Message).Scan(&n.CreatedAt)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, wrap("create notification", err)
	}
	return true, nil
}

func (s *Storage) ListNotifications(ctx context.Context, limit int) ([]*models.Notification, error) {
	start := time.Now()
	defer observe("list notifications", start)

	var lim any
	if limit > 0 {
		lim = limit
	}

	query := `SELECT id, job_id, key, message, created_at
				FROM notifications
				ORDER BY created_at DESC, id
				LIMIT $1`

	rows, err := s.db.Query(ctx, query, lim)
	if err != nil {
		return nil, wrap("list notifications", err)
	}
	defer rows.Close()

	res := []*models.Notification{}
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.JobID, &n.Key, &n.Message, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		res = append(res, n)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate notifications", err)
	}
	return res, nil
}
