package schedule

import (
	"fmt"

	"jobTracker/internal/calendar"
	"jobTracker/internal/models"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// PhaseEdit is the command behind a phase update form.
type PhaseEdit struct {
	PhaseID            uuid.UUID
	Title              *string
	Description        *string
	StartDate          *civil.Date
	ExtendDays         int
	ExtendFuturePhases bool
}

type Engine struct {
	// MaterialSnap moves shifted material due dates off weekends during a job
	// start-date cascade. Task start dates always snap forward.
	MaterialSnap calendar.SnapRule
}

func NewEngine(materialSnap calendar.SnapRule) Engine {
	if materialSnap == "" {
		materialSnap = calendar.SnapForward
	}
	return Engine{MaterialSnap: materialSnap}
}

func validateSnapshot(s Snapshot) error {
	for _, t := range s.Tasks {
		if t.Duration < 1 {
			return invalid("duration", "task "+t.ID.String()+" has duration below 1")
		}
	}
	return nil
}

// PlanPhaseEdit recomputes the edited phase and, when asked, every later phase.
//
// A start-date move shifts the phase's tasks and materials by the signed calendar
// difference, applied as business days. An extension lengthens every task and pushes
// every material back instead; when both are given the extension wins for the edited
// phase. With ExtendFuturePhases, later phases shift by the extension and have their
// start date resynced to their earliest child.
func (e Engine) PlanPhaseEdit(s Snapshot, edit PhaseEdit) (Plan, error) {
	if edit.ExtendDays < 0 {
		return Plan{}, invalid("extend_days", "must not be negative")
	}
	if edit.ExtendDays > calendar.MaxBusinessDays {
		return Plan{}, invalid("extend_days", fmt.Sprintf("must be at most %d business days", calendar.MaxBusinessDays))
	}
	if err := validateSnapshot(s); err != nil {
		return Plan{}, err
	}

	groups := s.Group()
	idx := -1
	for i, g := range groups {
		if g.Phase.ID == edit.PhaseID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Plan{}, invalid("phase_id", "phase does not belong to job")
	}

	current := groups[idx]
	b := newPlanBuilder()

	phase := current.Phase
	if edit.Title != nil {
		phase.Title = *edit.Title
	}
	if edit.Description != nil {
		phase.Description = *edit.Description
	}

	startMoved := edit.StartDate != nil && *edit.StartDate != current.Phase.StartDate
	if startMoved {
		if idx == 0 {
			return Plan{}, invalid("start_date", "first phase start date follows the job start date")
		}
		if edit.StartDate.Before(s.Job.StartDate) {
			return Plan{}, invalid("start_date", "start date cannot be before job start date")
		}

		daysDiff := calendar.CalendarDaysBetween(current.Phase.StartDate, *edit.StartDate)
		phase.StartDate = *edit.StartDate

		if edit.ExtendDays == 0 {
			for _, t := range current.Tasks {
				shifted := t
				shifted.StartDate = calendar.AddBusinessDays(t.StartDate, daysDiff)
				b.task(t, shifted)
			}
			for _, m := range current.Materials {
				shifted := m
				shifted.DueDate = calendar.AddBusinessDays(m.DueDate, daysDiff)
				b.material(m, shifted)
			}
		}
	}
	b.phase(current.Phase, phase)

	if edit.ExtendDays == 0 {
		return b.plan, nil
	}

	for _, t := range current.Tasks {
		extended := t
		extended.Duration = t.Duration + edit.ExtendDays
		if extended.Duration > calendar.MaxBusinessDays {
			return Plan{}, invalid("extend_days", "task "+t.ID.String()+" would exceed the maximum duration")
		}
		b.task(t, extended)
	}
	for _, m := range current.Materials {
		extended := m
		extended.DueDate = calendar.AddBusinessDays(m.DueDate, edit.ExtendDays)
		b.material(m, extended)
	}

	if !edit.ExtendFuturePhases {
		return b.plan, nil
	}

	firstID := groups[0].Phase.ID
	for _, g := range groups[idx+1:] {
		if g.Phase.ID == firstID {
			continue
		}

		tasks := make([]models.Task, 0, len(g.Tasks))
		for _, t := range g.Tasks {
			shifted := t
			shifted.StartDate = calendar.AddBusinessDays(t.StartDate, edit.ExtendDays)
			b.task(t, shifted)
			tasks = append(tasks, shifted)
		}
		materials := make([]models.Material, 0, len(g.Materials))
		for _, m := range g.Materials {
			shifted := m
			shifted.DueDate = calendar.AddBusinessDays(m.DueDate, edit.ExtendDays)
			b.material(m, shifted)
			materials = append(materials, shifted)
		}

		b.phase(g.Phase, resync(g.Phase, tasks, materials))
	}

	return b.plan, nil
}

// PlanJobStartEdit moves the job start date. The first phase follows the job start;
// every other phase has its children shifted by the calendar difference and snapped
// off weekends, then its start resynced to its earliest child.
func (e Engine) PlanJobStartEdit(s Snapshot, newStart civil.Date) (Plan, error) {
	if err := validateSnapshot(s); err != nil {
		return Plan{}, err
	}

	b := newPlanBuilder()
	if newStart == s.Job.StartDate {
		return b.plan, nil
	}

	daysDiff := calendar.CalendarDaysBetween(s.Job.StartDate, newStart)
	job := s.Job
	job.StartDate = newStart
	b.plan.Job = &job

	snap := e.MaterialSnap
	if snap == "" {
		snap = calendar.SnapForward
	}

	for i, g := range s.Group() {
		if i == 0 {
			first := g.Phase
			first.StartDate = newStart
			b.phase(g.Phase, first)
			continue
		}

		tasks := make([]models.Task, 0, len(g.Tasks))
		for _, t := range g.Tasks {
			shifted := t
			shifted.StartDate = calendar.SnapToBusinessDay(t.StartDate.AddDays(daysDiff))
			b.task(t, shifted)
			tasks = append(tasks, shifted)
		}
		materials := make([]models.Material, 0, len(g.Materials))
		for _, m := range g.Materials {
			shifted := m
			shifted.DueDate = snap.Apply(m.DueDate.AddDays(daysDiff))
			b.material(m, shifted)
			materials = append(materials, shifted)
		}

		phase := g.Phase
		if len(tasks) == 0 && len(materials) == 0 {
			phase.StartDate = calendar.SnapToBusinessDay(g.Phase.StartDate.AddDays(daysDiff))
		} else {
			phase = resync(g.Phase, tasks, materials)
		}
		b.phase(g.Phase, phase)
	}

	return b.plan, nil
}

// resync sets a phase's start to the earliest start or due date among its children.
func resync(p models.Phase, tasks []models.Task, materials []models.Material) models.Phase {
	if len(tasks) == 0 && len(materials) == 0 {
		return p
	}
	p.StartDate = PhaseDateRange(tasks, materials, p.StartDate).StartDate
	return p
}
