package service

import (
	"context"
	"fmt"

	"jobTracker/internal/models"
	repo "jobTracker/internal/repository"
	"jobTracker/internal/templates"
)

const (
	defaultNotifications = 50
	maxNotifications     = 500
	dashboardPage        = 100
)

// Dashboard sums status buckets over every active job.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	today := s.today()
	dash := &Dashboard{Jobs: []JobListItem{}}

	for page := 1; ; page++ {
		jobs, err := s.repo.ListJobs(ctx, repo.JobFilter{Status: models.JobActive, Page: page, Limit: dashboardPage})
		if err != nil {
			return nil, fmt.Errorf("list active jobs: %w", err)
		}
		for _, job := range jobs {
			snap, err := loadSnapshot(ctx, s.repo, job.ID)
			if err != nil {
				return nil, err
			}
			item := listItem(snap, today)
			dash.Jobs = append(dash.Jobs, item)
			dash.Buckets = dash.Buckets.Add(item.Buckets)
		}
		if len(jobs) < dashboardPage {
			break
		}
	}

	dash.ActiveJobs = len(dash.Jobs)
	return dash, nil
}

func (s *Service) ListNotifications(ctx context.Context, limit int) ([]*models.Notification, error) {
	if limit < 1 {
		limit = defaultNotifications
	}
	if limit > maxNotifications {
		limit = maxNotifications
	}
	list, err := s.repo.ListNotifications(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

func (s *Service) ListTemplates() []templates.Template {
	return s.templates.List()
}
