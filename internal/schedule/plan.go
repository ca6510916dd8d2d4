package schedule

import (
	"jobTracker/internal/models"

	"github.com/google/uuid"
)

// Plan is the set of rows an edit changes, each carrying its new values.
// Rows whose values did not change are left out.
type Plan struct {
	Job       *models.Job
	Phases    []models.Phase
	Tasks     []models.Task
	Materials []models.Material
}

func (p Plan) Empty() bool {
	return p.Job == nil && len(p.Phases) == 0 && len(p.Tasks) == 0 && len(p.Materials) == 0
}

// Apply returns a copy of s with the plan's rows swapped in.
func (p Plan) Apply(s Snapshot) Snapshot {
	out := Snapshot{
		Job:       s.Job,
		Phases:    append([]models.Phase(nil), s.Phases...),
		Tasks:     append([]models.Task(nil), s.Tasks...),
		Materials: append([]models.Material(nil), s.Materials...),
	}
	if p.Job != nil {
		out.Job = *p.Job
	}

	phases := make(map[uuid.UUID]models.Phase, len(p.Phases))
	for _, ph := range p.Phases {
		phases[ph.ID] = ph
	}
	for i, ph := range out.Phases {
		if changed, ok := phases[ph.ID]; ok {
			out.Phases[i] = changed
		}
	}

	tasks := make(map[uuid.UUID]models.Task, len(p.Tasks))
	for _, t := range p.Tasks {
		tasks[t.ID] = t
	}
	for i, t := range out.Tasks {
		if changed, ok := tasks[t.ID]; ok {
			out.Tasks[i] = changed
		}
	}

	materials := make(map[uuid.UUID]models.Material, len(p.Materials))
	for _, m := range p.Materials {
		materials[m.ID] = m
	}
	for i, m := range out.Materials {
		if changed, ok := materials[m.ID]; ok {
			out.Materials[i] = changed
		}
	}

	return out
}

// planBuilder collects changed rows in the order they were first touched.
type planBuilder struct {
	plan      Plan
	phases    map[uuid.UUID]int
	tasks     map[uuid.UUID]int
	materials map[uuid.UUID]int
}

func newPlanBuilder() *planBuilder {
	return &planBuilder{
		phases:    make(map[uuid.UUID]int),
		tasks:     make(map[uuid.UUID]int),
		materials: make(map[uuid.UUID]int),
	}
}

func (b *planBuilder) phase(before, after models.Phase) {
	if before == after {
		return
	}
	if i, ok := b.phases[after.ID]; ok {
		b.plan.Phases[i] = after
		return
	}
	b.phases[after.ID] = len(b.plan.Phases)
	b.plan.Phases = append(b.plan.Phases, after)
}

func (b *planBuilder) task(before, after models.Task) {
	if before.StartDate == after.StartDate && before.Duration == after.Duration {
		return
	}
	if i, ok := b.tasks[after.ID]; ok {
		b.plan.Tasks[i] = after
		return
	}
	b.tasks[after.ID] = len(b.plan.Tasks)
	b.plan.Tasks = append(b.plan.Tasks, after)
}

func (b *planBuilder) material(before, after models.Material) {
	if before.DueDate == after.DueDate {
		return
	}
	if i, ok := b.materials[after.ID]; ok {
		b.plan.Materials[i] = after
		return
	}
	b.materials[after.ID] = len(b.plan.Materials)
	b.plan.Materials = append(b.plan.Materials, after)
}
