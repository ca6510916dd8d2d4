package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobTracker/internal/calendar"
	"jobTracker/internal/models"
	repo "jobTracker/internal/repository"
	"jobTracker/internal/repository/inmemory"
	"jobTracker/internal/schedule"
	"jobTracker/internal/service"
	"jobTracker/internal/templates"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var d = calendar.MustParse

// fixedClock pins "today" to Wednesday 2024-01-17.
func fixedClock() time.Time {
	return time.Date(2024, 1, 17, 9, 30, 0, 0, time.UTC)
}

func newService(t *testing.T, r service.Repository, opts ...service.Option) *service.Service {
	t.Helper()
	return service.New(r, append([]service.Option{service.WithClock(fixedClock)}, opts...)...)
}

func threePhaseJob() service.CreateJobInput {
	return service.CreateJobInput{
		Title:     "Kitchen remodel",
		StartDate: d("2024-01-08"),
		Location:  "12 Elm St",
		Phases: []service.CreatePhaseInput{
			{
				Title:     "A",
				StartDate: d("2024-01-08"),
				Tasks:     []service.CreateTaskInput{{Title: "t1", StartDate: d("2024-01-08"), Duration: 3}},
				Notes:     []string{"key under the mat"},
			},
			{
				Title:     "B",
				StartDate: d("2024-01-15"),
				Tasks:     []service.CreateTaskInput{{Title: "t2", StartDate: d("2024-01-15"), Duration: 5}},
				Materials: []service.CreateMaterialInput{{Title: "m1", DueDate: d("2024-01-19")}},
			},
			{
				Title:     "C",
				StartDate: d("2024-01-22"),
				Tasks:     []service.CreateTaskInput{{Title: "t3", StartDate: d("2024-01-22"), Duration: 2}},
				Materials: []service.CreateMaterialInput{{Title: "m2", DueDate: d("2024-01-24")}},
			},
		},
	}
}

func phaseByTitle(t *testing.T, detail *service.JobDetail, title string) service.PhaseDetail {
	t.Helper()
	for _, p := range detail.Phases {
		if p.Title == title {
			return p
		}
	}
	t.Fatalf("phase %q not found", title)
	return service.PhaseDetail{}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var be *service.BusinessError
	require.True(t, errors.As(err, &be), "expected BusinessError, got %v", err)
	assert.Equal(t, code, be.Code)
}

// mockRepository overrides HealthCheck on top of a real store.
type mockRepository struct {
	*inmemory.Storage
	mock.Mock
}

func (m *mockRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var errBoom = errors.New("disk full")

// failingRepository fails every material update made inside a transaction.
type failingRepository struct {
	*inmemory.Storage
}

type failingStore struct {
	repo.Store
}

func (failingStore) UpdateMaterial(context.Context, *models.Material) error {
	return errBoom
}

func (f failingRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repo.Store) error) error {
	return f.Storage.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		return fn(ctx, failingStore{Store: tx})
	})
}

func TestService_HealthCheck(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(*mockRepository)
		expectError bool
	}{
		{
			name: "success - health check passes",
			setupMock: func(m *mockRepository) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
		},
		{
			name: "error - health check fails",
			setupMock: func(m *mockRepository) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("db connection failed"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockRepository{Storage: inmemory.NewStorage()}
			tt.setupMock(mockRepo)

			svc := newService(t, mockRepo)
			err := svc.HealthCheck(context.Background())

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "service health check")
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_CreateJob(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, inmemory.NewStorage())

	detail, err := svc.CreateJob(ctx, threePhaseJob())
	require.NoError(t, err)

	assert.Equal(t, models.JobActive, detail.Status)
	require.Len(t, detail.Phases, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{detail.Phases[0].Title, detail.Phases[1].Title, detail.Phases[2].Title})
	assert.Equal(t, schedule.Range{StartDate: d("2024-01-08"), EndDate: d("2024-01-24")}, detail.Range)

	a := phaseByTitle(t, detail, "A")
	require.Len(t, a.Tasks, 1)
	assert.Equal(t, d("2024-01-10"), a.Tasks[0].EndDate)
	assert.Equal(t, models.StatusIncomplete, a.Tasks[0].Status)
	assert.Len(t, a.Notes, 1)

	b := phaseByTitle(t, detail, "B")
	assert.Equal(t, d("2024-01-22"), b.Range.EndDate)

	assert.Equal(t, schedule.StatusBuckets{Overdue: 1, NextSevenDays: 4}, detail.Buckets)
}

func TestService_CreateJob_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*service.CreateJobInput)
		field  string
	}{
		{"empty title", func(in *service.CreateJobInput) { in.Title = " " }, "title"},
		{"missing start", func(in *service.CreateJobInput) { in.StartDate = civil.Date{} }, "start_date"},
		{"phase before job", func(in *service.CreateJobInput) { in.Phases[1].StartDate = d("2024-01-05") }, "start_date"},
		{"task before phase", func(in *service.CreateJobInput) { in.Phases[2].Tasks[0].StartDate = d("2024-01-19") }, "start_date"},
		{"zero duration", func(in *service.CreateJobInput) { in.Phases[0].Tasks[0].Duration = 0 }, "duration"},
		{"bad status", func(in *service.CreateJobInput) { in.Phases[0].Tasks[0].Status = "Done" }, "status"},
		{"material before phase", func(in *service.CreateJobInput) { in.Phases[1].Materials[0].DueDate = d("2024-01-12") }, "due_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := inmemory.NewStorage()
			svc := newService(t, store)

			in := threePhaseJob()
			tt.mutate(&in)

			_, err := svc.CreateJob(ctx, in)
			assertCode(t, err, service.CodeValidation)
			var be *service.BusinessError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, tt.field, be.Details["field"])

			jobs, err := store.ListJobs(ctx, repo.JobFilter{})
			require.NoError(t, err)
			assert.Empty(t, jobs, "nothing is written when validation fails")
		})
	}
}

func TestService_UpdatePhase_ExtendFuture(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, inmemory.NewStorage())

	created, err := svc.CreateJob(ctx, threePhaseJob())
	require.NoError(t, err)
	b := phaseByTitle(t, created, "B")

	detail, err := svc.UpdatePhase(ctx, schedule.PhaseEdit{PhaseID: b.ID, ExtendDays: 2, ExtendFuturePhases: true})
	require.NoError(t, err)

	b = phaseByTitle(t, detail, "B")
	assert.Equal(t, d("2024-01-15"), b.StartDate)
	assert.Equal(t, 7, b.Tasks[0].Duration)
	assert.Equal(t, d("2024-01-23"), b.Materials[0].DueDate)

	c := phaseByTitle(t, detail, "C")
	assert.Equal(t, d("2024-01-24"), c.StartDate)
	assert.Equal(t, d("2024-01-24"), c.Tasks[0].StartDate)
	assert.Equal(t, d("2024-01-26"), c.Materials[0].DueDate)

	a := phaseByTitle(t, detail, "A")
	assert.Equal(t, 3, a.Tasks[0].Duration)
}

func TestService_UpdatePhase_Rejected(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, inmemory.NewStorage())

	created, err := svc.CreateJob(ctx, threePhaseJob())
	require.NoError(t, err)
	b := phaseByTitle(t, created, "B")

	_, err = svc.UpdatePhase(ctx, schedule.PhaseEdit{PhaseID: b.ID, ExtendDays: -1})
	assertCode(t, err, service.CodeValidation)

	early := d("2024-01-01")
	_, err = svc.UpdatePhase(ctx, schedule.PhaseEdit{PhaseID: b.ID, StartDate: &early})
	assertCode(t, err, service.CodeValidation)

	_, err = svc.UpdatePhase(ctx, schedule.PhaseEdit{PhaseID: uuid.New(), ExtendDays: 1})
	assertCode(t, err, service.CodeNotFound)

	detail, err := svc.GetJobDetail(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Phases, detail.Phases)
}

func TestService_UpdatePhase_Atomic(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStorage()

	created, err := newService(t, store).CreateJob(ctx, threePhaseJob())
	require.NoError(t, err)
	b := phaseByTitle(t, created, "B")

	failing := newService(t, failingRepository{Storage: store})
	_, err = failing.UpdatePhase(ctx, schedule.PhaseEdit{PhaseID: b.ID, ExtendDays: 2, ExtendFuturePhases: true})
	assert.ErrorIs(t, err, errBoom)

	detail, err := newService(t, store).GetJobDetail(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, phaseByTitle(t, detail, "B").Tasks[0].Duration)
	assert.Equal(t, d("2024-01-22"), phaseByTitle(t, detail, "C").StartDate)
}

func TestService_UpdateJob_StartDateCascade(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, inmemory.NewStorage())

	created, err := svc.CreateJob(ctx, threePhaseJob())
	require.NoError(t, err)

	title := "Kitchen and pantry"
	start := d("2024-01-10")
	detail, err := svc.UpdateJob(ctx, created.ID, service.JobUpdate{Title: &title, StartDate: &start})
	require.NoError(t, err)

	assert.Equal(t, title, detail.Title)
	assert.Equal(t, start, detail.StartDate)

	assert.Equal(t, start, phaseByTitle(t, detail, "A").StartDate)

	b := phaseByTitle(t, detail, "B")
	assert.Equal(t, d("2024-01-17"), b.Tasks[0].StartDate)
	assert.Equal(t, d("2024-01-22"), b.Materials[0].DueDate)
	assert.Equal(t, d("2024-01-17"), b.StartDate)

	c := phaseByTitle(t, detail, "C")
	assert.Equal(t, d("2024-01-24"), c.StartDate)
	assert.Equal(t, d("2024-01-26"), c.Materials[0].DueDate)

	// The first phase follows the job start but its task stays put.
	a := phaseByTitle(t, detail, "A")
	require.Len(t, a.Tasks, 1)
	t1 := a.Tasks[0]
	assert.Equal(t, d("2024-01-08"), t1.StartDate)

	status := models.StatusComplete
	updated, err := svc.UpdateTask(ctx, t1.ID, models.WithTaskStatus(&status))
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, updated.Status)
	assert.Equal(t, d("2024-01-08"), updated.StartDate)

	title = "Tear out cabinets"
	duration := 4
	_, err = svc.UpdateTask(ctx, t1.ID, models.WithTaskTitle(&title), models.WithTaskDuration(&duration))
	require.NoError(t, err)

	stillEarly := d("2024-01-09")
	_, err = svc.UpdateTask(ctx, t1.ID, models.WithTaskStartDate(&stillEarly))
	assertCode(t, err, service.CodeValidation)

	inside := d("2024-01-11")
	moved, err := svc.UpdateTask(ctx, t1.ID, models.WithTaskStartDate(&inside))
	require.NoError(t, err)
	assert.Equal(t, inside, moved.StartDate)
}

func TestService_UpdatePhase_MoveBackKeepsChildrenEditable(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, inmemory.NewStorage())

	created, err := svc.CreateJob(ctx, threePhaseJob())
	require.NoError(t, err)
	c := phaseByTitle(t, created, "C")

	// Two calendar days back from Monday lands the children two business days back.
	saturday := d("2024-01-20")
	detail, err := svc.UpdatePhase(ctx, schedule.PhaseEdit{PhaseID: c.ID, StartDate: &saturday})
	require.NoError(t, err)

	c = phaseByTitle(t, detail, "C")
	assert.Equal(t, saturday, c.StartDate)
	require.Len(t, c.Tasks, 1)
	t3 := c.Tasks[0]
	assert.Equal(t, d("2024-01-18"), t3.StartDate)

	status := models.StatusComplete
	updated, err := svc.UpdateTask(ctx, t3.ID, models.WithTaskStatus(&status))
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, updated.Status)

	inProgress := models.StatusInProgress
	material, err := svc.UpdateMaterial(ctx, c.Materials[0].ID, models.WithMaterialStatus(&inProgress))
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, material.Status)
}

func TestService_UpdateJob_LegacyMaterialSnap(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, inmemory.NewStorage(), service.WithEngine(schedule.NewEngine(calendar.SnapLegacySundayBack)))

	created, err := svc.CreateJob(ctx, threePhaseJob())
	require.NoError(t, err)

	start := d("2024-01-10")
	detail, err := svc.UpdateJob(ctx, created.ID, service.JobUpdate{StartDate: &start})
	require.NoError(t, err)

	// m1 lands on Sunday 01-21; the legacy rule moves it back one day.
	assert.Equal(t, d("2024-01-20"), phaseByTitle(t, detail, "B").Materials[0].DueDate)
}

func TestService_ClosedJob(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, inmemory.NewStorage())

	created, err := svc.CreateJob(ctx, threePhaseJob())
	require.NoError(t, err)
	b := phaseByTitle(t, created, "B")

	closed, err := svc.CloseJob(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobClosed, closed.Status)

	_, err = svc.CloseJob(ctx, created.ID)
	assertCode(t, err, service.CodeJobClosed)

	_, err = svc.UpdatePhase(ctx, schedule.PhaseEdit{PhaseID: b.ID, ExtendDays: 1})
	assertCode(t, err, service.CodeJobClosed)

	_, err = svc.CreateTask(ctx, b.ID, service.CreateTaskInput{Title: "late", StartDate: d("2024-01-16"), Duration: 1})
	assertCode(t, err, service.CodeJobClosed)

	_, err = svc.AddNote(ctx, b.ID, "too late")
	assertCode(t, err, service.CodeJobClosed)

	note := phaseByTitle(t, created, "A").Notes[0]
	assertCode(t, svc.DeleteNote(ctx, note.ID), service.CodeJobClosed)

	title := "renamed"
	_, err = svc.UpdateJob(ctx, created.ID, service.JobUpdate{Title: &title})
	assertCode(t, err, service.CodeJobClosed)

	require.NoError(t, svc.DeleteJob(ctx, created.ID))
}

func TestService_TaskLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, inmemory.NewStorage())

	created, err := svc.CreateJob(ctx, threePhaseJob())
	require.NoError(t, err)
	c := phaseByTitle(t, created, "C")
	user := uuid.New()

	task, err := svc.CreateTask(ctx, c.ID, service.CreateTaskInput{
		Title:         "Paint",
		StartDate:     d("2024-01-23"),
		Duration:      2,
		AssignedUsers: []uuid.UUID{user},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusIncomplete, task.Status)

	_, err = svc.CreateTask(ctx, c.ID, service.CreateTaskInput{Title: "Early", StartDate: d("2024-01-19"), Duration: 1})
	assertCode(t, err, service.CodeValidation)

	status := models.StatusComplete
	duration := 4
	updated, err := svc.UpdateTask(ctx, task.ID,
		models.WithTaskStatus(&status),
		models.WithTaskDuration(&duration),
		models.WithTaskTitle(nil),
	)
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, updated.Status)
	assert.Equal(t, 4, updated.Duration)
	assert.Equal(t, "Paint", updated.Title)
	assert.Equal(t, []uuid.UUID{user}, updated.AssignedUsers)

	zero := 0
	_, err = svc.UpdateTask(ctx, task.ID, models.WithTaskDuration(&zero))
	assertCode(t, err, service.CodeValidation)

	require.NoError(t, svc.DeleteTask(ctx, task.ID))
	assertCode(t, svc.DeleteTask(ctx, task.ID), service.CodeNotFound)
}

func TestService_MaterialLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, inmemory.NewStorage())

	created, err := svc.CreateJob(ctx, threePhaseJob())
	require.NoError(t, err)
	a := phaseByTitle(t, created, "A")

	material, err := svc.CreateMaterial(ctx, a.ID, service.CreateMaterialInput{Title: "Cabinets", DueDate: d("2024-01-09")})
	require.NoError(t, err)

	due := d("2024-01-12")
	updated, err := svc.UpdateMaterial(ctx, material.ID, models.WithMaterialDueDate(&due))
	require.NoError(t, err)
	assert.Equal(t, due, updated.DueDate)

	early := d("2024-01-05")
	_, err = svc.UpdateMaterial(ctx, material.ID, models.WithMaterialDueDate(&early))
	assertCode(t, err, service.CodeValidation)

	require.NoError(t, svc.DeleteMaterial(ctx, material.ID))
	_, err = svc.UpdateMaterial(ctx, material.ID)
	assertCode(t, err, service.CodeNotFound)
}

func TestService_PhasesAndNotes(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, inmemory.NewStorage())

	created, err := svc.CreateJob(ctx, threePhaseJob())
	require.NoError(t, err)

	_, err = svc.CreatePhase(ctx, created.ID, service.CreatePhaseInput{Title: "Early", StartDate: d("2024-01-01")})
	assertCode(t, err, service.CodeValidation)

	phase, err := svc.CreatePhase(ctx, created.ID, service.CreatePhaseInput{Title: "D", StartDate: d("2024-01-29")})
	require.NoError(t, err)
	assert.Equal(t, 3, phase.Position)

	note, err := svc.AddNote(ctx, phase.ID, "order paint")
	require.NoError(t, err)

	_, err = svc.AddNote(ctx, phase.ID, "")
	assertCode(t, err, service.CodeValidation)

	require.NoError(t, svc.DeleteNote(ctx, note.ID))
	assertCode(t, svc.DeleteNote(ctx, note.ID), service.CodeNotFound)

	require.NoError(t, svc.DeletePhase(ctx, phase.ID))
	detail, err := svc.GetJobDetail(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Phases, 3)
}

func TestService_ListJobsAndDashboard(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, inmemory.NewStorage())

	first, err := svc.CreateJob(ctx, threePhaseJob())
	require.NoError(t, err)
	_, err = svc.CreateJob(ctx, threePhaseJob())
	require.NoError(t, err)
	_, err = svc.CloseJob(ctx, first.ID)
	require.NoError(t, err)

	all, err := svc.ListJobs(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.ListJobs(ctx, models.JobActive, 1, 10)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, d("2024-01-24"), active[0].Range.EndDate)

	_, err = svc.ListJobs(ctx, "archived", 1, 10)
	assertCode(t, err, service.CodeValidation)

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dash.ActiveJobs)
	assert.Equal(t, schedule.StatusBuckets{Overdue: 1, NextSevenDays: 4}, dash.Buckets)
}

func TestService_Templates(t *testing.T) {
	ctx := context.Background()

	reg, err := templates.NewRegistry(templates.Template{
		Name: "deck",
		Phases: []templates.Phase{
			{Title: "Footings", Tasks: []templates.TaskItem{{Title: "Dig", Duration: 2}}},
			{Title: "Framing", OffsetDays: 3, Materials: []templates.MaterialItem{{Title: "Lumber", OffsetDays: 1}}},
		},
	})
	require.NoError(t, err)

	svc := newService(t, inmemory.NewStorage(), service.WithTemplates(reg))
	assert.Len(t, svc.ListTemplates(), 1)

	detail, err := svc.CreateJobFromTemplate(ctx, service.CreateFromTemplateInput{Template: "deck", StartDate: d("2024-01-08")})
	require.NoError(t, err)
	assert.Equal(t, "deck", detail.Title)
	require.Len(t, detail.Phases, 2)

	framing := phaseByTitle(t, detail, "Framing")
	assert.Equal(t, d("2024-01-11"), framing.StartDate)
	assert.Equal(t, d("2024-01-12"), framing.Materials[0].DueDate)

	_, err = svc.CreateJobFromTemplate(ctx, service.CreateFromTemplateInput{Template: "pergola", StartDate: d("2024-01-08")})
	assertCode(t, err, service.CodeTemplateNotFound)
}

func TestService_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, inmemory.NewStorage())

	_, err := svc.GetJobDetail(ctx, uuid.New())
	assertCode(t, err, service.CodeNotFound)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	assertCode(t, svc.DeleteJob(ctx, uuid.New()), service.CodeNotFound)
	_, err = svc.CreatePhase(ctx, uuid.New(), service.CreatePhaseInput{Title: "x", StartDate: d("2024-01-08")})
	assertCode(t, err, service.CodeNotFound)
}

func TestService_ListNotifications(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStorage()
	svc := newService(t, store)

	created, err := svc.CreateJob(ctx, threePhaseJob())
	require.NoError(t, err)
	_, err = store.CreateNotification(ctx, &models.Notification{ID: uuid.New(), JobID: created.ID, Key: "overdue:a"})
	require.NoError(t, err)

	list, err := svc.ListNotifications(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
