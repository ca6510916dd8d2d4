package worker

import (
	"context"
	"fmt"
	"time"

	"jobTracker/internal/calendar"
	"jobTracker/internal/logger"
	"jobTracker/internal/models"
	repo "jobTracker/internal/repository"
	"jobTracker/internal/schedule"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the part of the repository the worker reads and writes.
type Store interface {
	ListJobs(context.Context, repo.JobFilter) ([]*models.Job, error)
	ListPhases(ctx context.Context, jobID uuid.UUID) ([]*models.Phase, error)
	ListTasks(ctx context.Context, jobID uuid.UUID) ([]*models.Task, error)
	ListMaterials(ctx context.Context, jobID uuid.UUID) ([]*models.Material, error)
	CreateNotification(context.Context, *models.Notification) (bool, error)
}

// NotificationWorker records one notification per active job per day while the job
// has overdue items.
type NotificationWorker struct {
	store     Store
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

type Option func(*NotificationWorker)

func WithClock(now func() time.Time) Option {
	return func(w *NotificationWorker) {
		if now != nil {
			w.now = now
		}
	}
}

func NewNotificationWorker(store Store, interval *time.Duration, batchSize *int, opts ...Option) *NotificationWorker {
	intervalToSet := 5 * time.Minute
	if interval != nil && *interval > 0 {
		intervalToSet = *interval
	}

	batchToSet := 100
	if batchSize != nil && *batchSize > 0 {
		batchToSet = *batchSize
	}

	w := &NotificationWorker{
		store:     store,
		interval:  intervalToSet,
		batchSize: batchToSet,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start runs Check on every tick until ctx is cancelled.
func (w *NotificationWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: notification worker started",
		zap.Duration("interval", w.interval),
		zap.Int("batch_size", w.batchSize))

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: notification worker stopping")
			return
		}
	}
}

// Check scans every active job page by page and returns the number of new
// notifications.
func (w *NotificationWorker) Check(ctx context.Context) int {
	start := time.Now()
	today := calendar.Today(w.now())

	checked, created := 0, 0
	for page := 1; ; page++ {
		jobs, err := w.store.ListJobs(ctx, repo.JobFilter{Status: models.JobActive, Page: page, Limit: w.batchSize})
		if err != nil {
			logger.Warn("Worker: failed to list active jobs", zap.Error(err), zap.Int("page", page))
			break
		}

		for _, job := range jobs {
			if ctx.Err() != nil {
				return created
			}
			checked++
			ok, err := w.notify(ctx, job, today)
			if err != nil {
				logger.Warn("Worker: failed to check job",
					zap.String("job_id", job.ID.String()),
					zap.Error(err))
				continue
			}
			if ok {
				created++
			}
		}

		if len(jobs) < w.batchSize {
			break
		}
	}

	logger.Info("Worker: overdue check finished",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", checked),
		zap.Int("notified", created))
	return created
}

func (w *NotificationWorker) notify(ctx context.Context, job *models.Job, today civil.Date) (bool, error) {
	phases, err := w.store.ListPhases(ctx, job.ID)
	if err != nil {
		return false, fmt.Errorf("list phases: %w", err)
	}
	tasks, err := w.store.ListTasks(ctx, job.ID)
	if err != nil {
		return false, fmt.Errorf("list tasks: %w", err)
	}
	materials, err := w.store.ListMaterials(ctx, job.ID)
	if err != nil {
		return false, fmt.Errorf("list materials: %w", err)
	}

	snap := schedule.Snapshot{
		Job:       *job,
		Phases:    deref(phases),
		Tasks:     deref(tasks),
		Materials: deref(materials),
	}
	buckets := schedule.Summarize(snap, today).Buckets
	if buckets.Overdue == 0 {
		return false, nil
	}

	n := &models.Notification{
		ID:      uuid.New(),
		JobID:   job.ID,
		Key:     NotificationKey(job.ID, today),
		Message: fmt.Sprintf("%s has %d overdue item(s)", job.Title, buckets.Overdue),
	}
	created, err := w.store.CreateNotification(ctx, n)
	if err != nil {
		return false, fmt.Errorf("create notification: %w", err)
	}
	return created, nil
}

func NotificationKey(jobID uuid.UUID, day civil.Date) string {
	return "overdue:" + jobID.String() + ":" + calendar.FormatDateKey(day)
}

func deref[T any](list []*T) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		out = append(out, *v)
	}
	return out
}
