package service

import (
	"jobTracker/internal/models"
	"jobTracker/internal/schedule"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

type TaskView struct {
	models.Task
	EndDate civil.Date `json:"end_date"`
}

type PhaseDetail struct {
	models.Phase
	Range     schedule.Range         `json:"range"`
	Buckets   schedule.StatusBuckets `json:"buckets"`
	Tasks     []TaskView             `json:"tasks"`
	Materials []models.Material      `json:"materials"`
	Notes     []models.Note          `json:"notes"`
}

type JobDetail struct {
	models.Job
	Range   schedule.Range         `json:"range"`
	Buckets schedule.StatusBuckets `json:"buckets"`
	Phases  []PhaseDetail          `json:"phases"`
}

type JobListItem struct {
	models.Job
	Range   schedule.Range         `json:"range"`
	Buckets schedule.StatusBuckets `json:"buckets"`
}

type Dashboard struct {
	ActiveJobs int                    `json:"active_jobs"`
	Buckets    schedule.StatusBuckets `json:"buckets"`
	Jobs       []JobListItem          `json:"jobs"`
}

func buildDetail(snap schedule.Snapshot, notes []*models.Note, today civil.Date) *JobDetail {
	summary := schedule.Summarize(snap, today)
	groups := snap.Group()

	byPhase := make(map[uuid.UUID][]models.Note)
	for _, n := range notes {
		byPhase[n.PhaseID] = append(byPhase[n.PhaseID], *n)
	}

	detail := &JobDetail{
		Job:     snap.Job,
		Range:   summary.Range,
		Buckets: summary.Buckets,
		Phases:  make([]PhaseDetail, 0, len(groups)),
	}
	for i, g := range groups {
		pd := PhaseDetail{
			Phase:     g.Phase,
			Range:     summary.Phases[i].Range,
			Buckets:   summary.Phases[i].Buckets,
			Tasks:     make([]TaskView, 0, len(g.Tasks)),
			Materials: append([]models.Material{}, g.Materials...),
			Notes:     append([]models.Note{}, byPhase[g.Phase.ID]...),
		}
		for _, t := range g.Tasks {
			pd.Tasks = append(pd.Tasks, TaskView{Task: t, EndDate: schedule.TaskEndDate(t)})
		}
		detail.Phases = append(detail.Phases, pd)
	}
	return detail
}

func listItem(snap schedule.Snapshot, today civil.Date) JobListItem {
	summary := schedule.Summarize(snap, today)
	return JobListItem{Job: snap.Job, Range: summary.Range, Buckets: summary.Buckets}
}
