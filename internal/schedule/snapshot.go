// Package schedule derives phase and job date ranges and plans date cascades.
//
// Everything here is pure: functions take a Snapshot of rows and return new values.
// Persisting a Plan is the caller's job and belongs inside one transaction.
package schedule

import (
	"sort"

	"jobTracker/internal/logger"
	"jobTracker/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Snapshot is every row of one job as read from storage.
type Snapshot struct {
	Job       models.Job
	Phases    []models.Phase
	Tasks     []models.Task
	Materials []models.Material
}

type PhaseGroup struct {
	Phase     models.Phase
	Tasks     []models.Task
	Materials []models.Material
}

// Group returns the job's phases in schedule order with their children attached.
// Tasks and materials pointing at a phase outside the snapshot are skipped and logged.
func (s Snapshot) Group() []PhaseGroup {
	phases := append([]models.Phase(nil), s.Phases...)
	SortPhases(phases)

	groups := make([]PhaseGroup, len(phases))
	index := make(map[uuid.UUID]int, len(phases))
	for i, p := range phases {
		groups[i] = PhaseGroup{Phase: p}
		index[p.ID] = i
	}

	for _, t := range s.Tasks {
		i, ok := index[t.PhaseID]
		if !ok {
			logger.Warn("Schedule: task references unknown phase, skipped",
				zap.String("job_id", s.Job.ID.String()),
				zap.String("task_id", t.ID.String()),
				zap.String("phase_id", t.PhaseID.String()))
			continue
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}

	for _, m := range s.Materials {
		i, ok := index[m.PhaseID]
		if !ok {
			logger.Warn("Schedule: material references unknown phase, skipped",
				zap.String("job_id", s.Job.ID.String()),
				zap.String("material_id", m.ID.String()),
				zap.String("phase_id", m.PhaseID.String()))
			continue
		}
		groups[i].Materials = append(groups[i].Materials, m)
	}

	return groups
}

// SortPhases orders phases by start date, then creation position, then id.
func SortPhases(phases []models.Phase) {
	sort.SliceStable(phases, func(i, j int) bool {
		a, b := phases[i], phases[j]
		if a.StartDate != b.StartDate {
			return a.StartDate.Before(b.StartDate)
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.ID.String() < b.ID.String()
	})
}
