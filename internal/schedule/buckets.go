package schedule

import (
	"jobTracker/internal/models"

	"cloud.google.com/go/civil"
)

const dueSoonDays = 7

// StatusBuckets counts incomplete items by how their date relates to today.
type StatusBuckets struct {
	Overdue       int `json:"overdue"`
	NextSevenDays int `json:"nextSevenDays"`
	SevenDaysPlus int `json:"sevenDaysPlus"`
}

func (b StatusBuckets) Add(other StatusBuckets) StatusBuckets {
	return StatusBuckets{
		Overdue:       b.Overdue + other.Overdue,
		NextSevenDays: b.NextSevenDays + other.NextSevenDays,
		SevenDaysPlus: b.SevenDaysPlus + other.SevenDaysPlus,
	}
}

func (b StatusBuckets) Total() int {
	return b.Overdue + b.NextSevenDays + b.SevenDaysPlus
}

func (b *StatusBuckets) count(d, today civil.Date) {
	horizon := today.AddDays(dueSoonDays)
	switch {
	case d.Before(today):
		b.Overdue++
	case d.After(horizon):
		b.SevenDaysPlus++
	default:
		b.NextSevenDays++
	}
}

// ComputeStatusBuckets only counts Incomplete items; tasks are dated by their end
// date, materials by their due date.
func ComputeStatusBuckets(tasks []models.Task, materials []models.Material, today civil.Date) StatusBuckets {
	var b StatusBuckets
	for _, t := range tasks {
		if t.Status != models.StatusIncomplete {
			continue
		}
		b.count(TaskEndDate(t), today)
	}
	for _, m := range materials {
		if m.Status != models.StatusIncomplete {
			continue
		}
		b.count(m.DueDate, today)
	}
	return b
}
