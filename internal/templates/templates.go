// Package templates loads job templates from YAML and expands them into dated blueprints.
//
// Offsets are business days. A phase offset counts from the job start, a task or
// material offset counts from its phase start.
package templates

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"jobTracker/internal/calendar"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var ErrDuplicateName = errors.New("duplicate template name")

type TaskItem struct {
	Title       string `yaml:"title" json:"title" validate:"required"`
	Description string `yaml:"description" json:"description,omitempty"`
	OffsetDays  int    `yaml:"offset_days" json:"offset_days" validate:"min=0,max=3650"`
	Duration    int    `yaml:"duration" json:"duration" validate:"min=1,max=3650"`
}

type MaterialItem struct {
	Title       string `yaml:"title" json:"title" validate:"required"`
	Description string `yaml:"description" json:"description,omitempty"`
	OffsetDays  int    `yaml:"offset_days" json:"offset_days" validate:"min=0,max=3650"`
}

type Phase struct {
	Title       string         `yaml:"title" json:"title" validate:"required"`
	Description string         `yaml:"description" json:"description,omitempty"`
	OffsetDays  int            `yaml:"offset_days" json:"offset_days" validate:"min=0,max=3650"`
	Tasks       []TaskItem     `yaml:"tasks" json:"tasks" validate:"dive"`
	Materials   []MaterialItem `yaml:"materials" json:"materials" validate:"dive"`
}

type Template struct {
	Name        string  `yaml:"name" json:"name" validate:"required"`
	Description string  `yaml:"description" json:"description,omitempty"`
	Phases      []Phase `yaml:"phases" json:"phases" validate:"required,min=1,dive"`
}

type file struct {
	Templates []Template `yaml:"templates"`
}

type Registry struct {
	byName map[string]Template
}

func NewRegistry(list ...Template) (*Registry, error) {
	r := &Registry{byName: make(map[string]Template, len(list))}
	v := validator.New()
	for _, t := range list {
		if err := v.Struct(t); err != nil {
			return nil, fmt.Errorf("template %q: %w", t.Name, err)
		}
		if _, exists := r.byName[t.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, t.Name)
		}
		r.byName[t.Name] = t
	}
	return r, nil
}

// Load reads a template file. An empty path yields an empty registry.
func Load(path string) (*Registry, error) {
	if path == "" {
		return NewRegistry()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Registry, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return NewRegistry(f.Templates...)
}

func (r *Registry) Get(name string) (Template, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// List returns templates sorted by name.
func (r *Registry) List() []Template {
	out := make([]Template, 0, len(r.byName))
	for _, t := range r.byName {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type TaskPlan struct {
	Title       string
	Description string
	StartDate   civil.Date
	Duration    int
}

type MaterialPlan struct {
	Title       string
	Description string
	DueDate     civil.Date
}

type PhasePlan struct {
	Title       string
	Description string
	StartDate   civil.Date
	Tasks       []TaskPlan
	Materials   []MaterialPlan
}

// Blueprint is a template with every offset resolved to a date.
type Blueprint struct {
	StartDate civil.Date
	Phases    []PhasePlan
}

func (t Template) Instantiate(start civil.Date) Blueprint {
	bp := Blueprint{StartDate: start, Phases: make([]PhasePlan, 0, len(t.Phases))}
	for _, p := range t.Phases {
		phaseStart := calendar.AddBusinessDays(start, p.OffsetDays)
		pp := PhasePlan{
			Title:       p.Title,
			Description: p.Description,
			StartDate:   phaseStart,
			Tasks:       make([]TaskPlan, 0, len(p.Tasks)),
			Materials:   make([]MaterialPlan, 0, len(p.Materials)),
		}
		for _, item := range p.Tasks {
			pp.Tasks = append(pp.Tasks, TaskPlan{
				Title:       item.Title,
				Description: item.Description,
				StartDate:   calendar.AddBusinessDays(phaseStart, item.OffsetDays),
				Duration:    item.Duration,
			})
		}
		for _, item := range p.Materials {
			pp.Materials = append(pp.Materials, MaterialPlan{
				Title:       item.Title,
				Description: item.Description,
				DueDate:     calendar.AddBusinessDays(phaseStart, item.OffsetDays),
			})
		}
		bp.Phases = append(bp.Phases, pp)
	}
	return bp
}
