package schedule

import (
	"jobTracker/internal/calendar"
	"jobTracker/internal/models"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

type Range struct {
	StartDate civil.Date `json:"start_date"`
	EndDate   civil.Date `json:"end_date"`
}

// TaskEndDate is the last business day the task occupies.
func TaskEndDate(t models.Task) civil.Date {
	return calendar.AddBusinessDays(t.StartDate, effectiveDuration(t)-1)
}

// taskSpanEnd is the business day after the task's last working day. Phase ranges
// close on it, so a phase ends where its longest task hands off.
func taskSpanEnd(t models.Task) civil.Date {
	return calendar.AddBusinessDays(t.StartDate, effectiveDuration(t))
}

func effectiveDuration(t models.Task) int {
	if t.Duration < 1 {
		return 1
	}
	return t.Duration
}

// PhaseDateRange derives a phase's range from its children. With no children the
// range collapses to fallbackStart.
func PhaseDateRange(tasks []models.Task, materials []models.Material, fallbackStart civil.Date) Range {
	if len(tasks) == 0 && len(materials) == 0 {
		return Range{StartDate: fallbackStart, EndDate: fallbackStart}
	}

	end := fallbackStart
	var start civil.Date
	first := true
	take := func(d civil.Date) {
		if first || d.Before(start) {
			start = d
			first = false
		}
	}

	for _, t := range tasks {
		take(t.StartDate)
		end = calendar.MaxDate(end, taskSpanEnd(t))
	}
	for _, m := range materials {
		take(m.DueDate)
		end = calendar.MaxDate(end, m.DueDate)
	}

	return Range{StartDate: start, EndDate: end}
}

func JobDateRange(job models.Job, phases []Range) Range {
	end := job.StartDate
	for _, r := range phases {
		end = calendar.MaxDate(end, r.EndDate)
	}
	return Range{StartDate: job.StartDate, EndDate: end}
}

type PhaseSummary struct {
	PhaseID uuid.UUID     `json:"phase_id"`
	Range   Range         `json:"range"`
	Buckets StatusBuckets `json:"buckets"`
}

type JobSummary struct {
	JobID   uuid.UUID      `json:"job_id"`
	Range   Range          `json:"range"`
	Buckets StatusBuckets  `json:"buckets"`
	Phases  []PhaseSummary `json:"phases"`
}

// Summarize computes every display range and bucket count for one job.
func Summarize(s Snapshot, today civil.Date) JobSummary {
	groups := s.Group()

	summary := JobSummary{
		JobID:  s.Job.ID,
		Phases: make([]PhaseSummary, 0, len(groups)),
	}
	ranges := make([]Range, 0, len(groups))

	for _, g := range groups {
		r := PhaseDateRange(g.Tasks, g.Materials, g.Phase.StartDate)
		b := ComputeStatusBuckets(g.Tasks, g.Materials, today)
		ranges = append(ranges, r)
		summary.Phases = append(summary.Phases, PhaseSummary{PhaseID: g.Phase.ID, Range: r, Buckets: b})
		summary.Buckets = summary.Buckets.Add(b)
	}

	summary.Range = JobDateRange(s.Job, ranges)
	return summary
}
