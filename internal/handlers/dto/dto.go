package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"jobTracker/internal/calendar"
	"jobTracker/internal/models"
	"jobTracker/internal/schedule"
	"jobTracker/internal/service"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("localdate", func(fl validator.FieldLevel) bool {
		_, err := calendar.ParseLocalDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("itemstatus", func(fl validator.FieldLevel) bool {
		return models.Status(fl.Field().String()).Valid()
	})
	return v
}

// FieldError names the first request field that failed validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid value of field '%s': %s", e.Field, e.Reason)
}

// Validate checks a decoded request against its validate tags.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &FieldError{Field: fieldPath(fe.Namespace()), Reason: reason(fe)}
}

// fieldPath drops the root struct name: "CreateJobRequest.phases[0].title" -> "phases[0].title".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "localdate":
		return "must be a date in YYYY-MM-DD format"
	case "itemstatus":
		return "must be one of Incomplete, In Progress, Complete"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// date is only called on values that already passed the localdate check.
func date(s string) civil.Date {
	d, _ := calendar.ParseLocalDate(s)
	return d
}

func optionalDate(s *string) *civil.Date {
	if s == nil {
		return nil
	}
	d := date(*s)
	return &d
}

func optionalStatus(s *string) *models.Status {
	if s == nil {
		return nil
	}
	st := models.Status(*s)
	return &st
}

type CreateTaskRequest struct {
	Title         string      `json:"title" validate:"required,max=200"`
	Description   string      `json:"description" validate:"max=2000"`
	StartDate     string      `json:"start_date" validate:"required,localdate"`
	Duration      int         `json:"duration" validate:"required,min=1,max=3650"`
	Status        string      `json:"status" validate:"omitempty,itemstatus"`
	AssignedUsers []uuid.UUID `json:"assigned_users"`
}

func (r CreateTaskRequest) ToInput() service.CreateTaskInput {
	return service.CreateTaskInput{
		Title:         r.Title,
		Description:   r.Description,
		StartDate:     date(r.StartDate),
		Duration:      r.Duration,
		Status:        models.Status(r.Status),
		AssignedUsers: r.AssignedUsers,
	}
}

type UpdateTaskRequest struct {
	Title         *string     `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description   *string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	StartDate     *string     `json:"start_date,omitempty" validate:"omitempty,localdate"`
	Duration      *int        `json:"duration,omitempty" validate:"omitempty,min=1,max=3650"`
	Status        *string     `json:"status,omitempty" validate:"omitempty,itemstatus"`
	AssignedUsers []uuid.UUID `json:"assigned_users,omitempty"`
}

func (r UpdateTaskRequest) Options() []models.TaskOption {
	return []models.TaskOption{
		models.WithTaskTitle(r.Title),
		models.WithTaskDescription(r.Description),
		models.WithTaskStartDate(optionalDate(r.StartDate)),
		models.WithTaskDuration(r.Duration),
		models.WithTaskStatus(optionalStatus(r.Status)),
		models.WithTaskAssignees(r.AssignedUsers),
	}
}

type CreateMaterialRequest struct {
	Title         string      `json:"title" validate:"required,max=200"`
	Description   string      `json:"description" validate:"max=2000"`
	DueDate       string      `json:"due_date" validate:"required,localdate"`
	Status        string      `json:"status" validate:"omitempty,itemstatus"`
	AssignedUsers []uuid.UUID `json:"assigned_users"`
}

func (r CreateMaterialRequest) ToInput() service.CreateMaterialInput {
	return service.CreateMaterialInput{
		Title:         r.Title,
		Description:   r.Description,
		DueDate:       date(r.DueDate),
		Status:        models.Status(r.Status),
		AssignedUsers: r.AssignedUsers,
	}
}

type UpdateMaterialRequest struct {
	Title         *string     `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description   *string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	DueDate       *string     `json:"due_date,omitempty" validate:"omitempty,localdate"`
	Status        *string     `json:"status,omitempty" validate:"omitempty,itemstatus"`
	AssignedUsers []uuid.UUID `json:"assigned_users,omitempty"`
}

func (r UpdateMaterialRequest) Options() []models.MaterialOption {
	return []models.MaterialOption{
		models.WithMaterialTitle(r.Title),
		models.WithMaterialDescription(r.Description),
		models.WithMaterialDueDate(optionalDate(r.DueDate)),
		models.WithMaterialStatus(optionalStatus(r.Status)),
		models.WithMaterialAssignees(r.AssignedUsers),
	}
}

type CreatePhaseRequest struct {
	Title       string                  `json:"title" validate:"required,max=200"`
	Description string                  `json:"description" validate:"max=2000"`
	StartDate   string                  `json:"start_date" validate:"required,localdate"`
	Tasks       []CreateTaskRequest     `json:"tasks" validate:"dive"`
	Materials   []CreateMaterialRequest `json:"materials" validate:"dive"`
	Notes       []string                `json:"notes" validate:"dive,required"`
}

func (r CreatePhaseRequest) ToInput() service.CreatePhaseInput {
	in := service.CreatePhaseInput{
		Title:       r.Title,
		Description: r.Description,
		StartDate:   date(r.StartDate),
		Notes:       r.Notes,
	}
	for _, t := range r.Tasks {
		in.Tasks = append(in.Tasks, t.ToInput())
	}
	for _, m := range r.Materials {
		in.Materials = append(in.Materials, m.ToInput())
	}
	return in
}

// UpdatePhaseRequest is the phase edit command. ExtendDays lengthens every task in the
// phase; with ExtendFuturePhases the later phases move by the same amount.
type UpdatePhaseRequest struct {
	Title              *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description        *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	StartDate          *string `json:"start_date,omitempty" validate:"omitempty,localdate"`
	ExtendDays         int     `json:"extend_days" validate:"min=0,max=3650"`
	ExtendFuturePhases bool    `json:"extend_future_phases"`
}

func (r UpdatePhaseRequest) ToEdit(phaseID uuid.UUID) schedule.PhaseEdit {
	return schedule.PhaseEdit{
		PhaseID:            phaseID,
		Title:              r.Title,
		Description:        r.Description,
		StartDate:          optionalDate(r.StartDate),
		ExtendDays:         r.ExtendDays,
		ExtendFuturePhases: r.ExtendFuturePhases,
	}
}

type CreateJobRequest struct {
	Title       string               `json:"title" validate:"required,max=200"`
	StartDate   string               `json:"start_date" validate:"required,localdate"`
	Location    string               `json:"location" validate:"max=500"`
	Description string               `json:"description" validate:"max=2000"`
	ClientID    *uuid.UUID           `json:"client_id,omitempty"`
	Phases      []CreatePhaseRequest `json:"phases" validate:"dive"`
}

func (r CreateJobRequest) ToInput() service.CreateJobInput {
	in := service.CreateJobInput{
		Title:       r.Title,
		StartDate:   date(r.StartDate),
		Location:    r.Location,
		Description: r.Description,
		ClientID:    r.ClientID,
	}
	for _, p := range r.Phases {
		in.Phases = append(in.Phases, p.ToInput())
	}
	return in
}

type CreateFromTemplateRequest struct {
	Template    string     `json:"template" validate:"required"`
	Title       string     `json:"title" validate:"max=200"`
	StartDate   string     `json:"start_date" validate:"required,localdate"`
	Location    string     `json:"location" validate:"max=500"`
	Description string     `json:"description" validate:"max=2000"`
	ClientID    *uuid.UUID `json:"client_id,omitempty"`
}

func (r CreateFromTemplateRequest) ToInput() service.CreateFromTemplateInput {
	return service.CreateFromTemplateInput{
		Template:    r.Template,
		Title:       r.Title,
		StartDate:   date(r.StartDate),
		Location:    r.Location,
		Description: r.Description,
		ClientID:    r.ClientID,
	}
}

type UpdateJobRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	StartDate   *string `json:"start_date,omitempty" validate:"omitempty,localdate"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=500"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

func (r UpdateJobRequest) ToUpdate() service.JobUpdate {
	return service.JobUpdate{
		Title:       r.Title,
		StartDate:   optionalDate(r.StartDate),
		Location:    r.Location,
		Description: r.Description,
	}
}

type CreateNoteRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}

type ListJobsQuery struct {
	Status string `json:"status" validate:"omitempty,oneof=active closed"`
	Page   int    `json:"page" validate:"min=0"`
	Limit  int    `json:"limit" validate:"min=0,max=100"`
}
