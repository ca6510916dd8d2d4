package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"jobTracker/internal/calendar"
	"jobTracker/internal/models"
	repo "jobTracker/internal/repository"
	"jobTracker/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PostgresTestSuite struct {
	suite.Suite
	container  testcontainers.Container
	storage    *postgres.Storage
	connString string
	ctx        context.Context
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test needs docker")
	}
	suite.Run(t, new(PostgresTestSuite))
}

func (s *PostgresTestSuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(s.ctx, "5432")
	s.Require().NoError(err)

	s.connString = fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	// the port opens before postgres accepts connections
	s.Require().Eventually(func() bool {
		return postgres.Migrate(s.connString) == nil
	}, 30*time.Second, time.Second)

	s.storage, err = postgres.New(s.ctx, s.connString, postgres.WithMaxConns(4))
	s.Require().NoError(err)
}

func (s *PostgresTestSuite) TearDownSuite() {
	if s.storage != nil {
		s.storage.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresTestSuite) SetupTest() {
	conn, err := pgx.Connect(s.ctx, s.connString)
	s.Require().NoError(err)
	defer conn.Close(s.ctx)

	_, err = conn.Exec(s.ctx, "TRUNCATE jobs CASCADE")
	s.Require().NoError(err)
}

func (s *PostgresTestSuite) seed() (*models.Job, *models.Phase) {
	job := &models.Job{
		ID:        uuid.New(),
		Title:     "Deck build",
		StartDate: calendar.MustParse("2024-01-08"),
	}
	s.Require().NoError(s.storage.CreateJob(s.ctx, job))

	phase := &models.Phase{
		ID:        uuid.New(),
		JobID:     job.ID,
		Title:     "Footings",
		StartDate: job.StartDate,
	}
	s.Require().NoError(s.storage.CreatePhase(s.ctx, phase))
	return job, phase
}

func (s *PostgresTestSuite) TestHealthCheck() {
	s.NoError(s.storage.HealthCheck(s.ctx))
}

func (s *PostgresTestSuite) TestJobRoundTrip() {
	job, _ := s.seed()

	got, err := s.storage.GetJob(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal("Deck build", got.Title)
	s.Equal(calendar.MustParse("2024-01-08"), got.StartDate)
	s.Equal(models.JobActive, got.Status)
	s.Nil(got.ClientID)

	got.Status = models.JobClosed
	s.Require().NoError(s.storage.UpdateJob(s.ctx, got))
	s.NotNil(got.UpdatedAt)

	closed, err := s.storage.ListJobs(s.ctx, repo.JobFilter{Status: models.JobClosed})
	s.Require().NoError(err)
	s.Len(closed, 1)

	_, err = s.storage.GetJob(s.ctx, uuid.New())
	s.ErrorIs(err, repo.ErrNotFound)
}

func (s *PostgresTestSuite) TestTaskAssignees() {
	job, phase := s.seed()
	users := []uuid.UUID{uuid.New(), uuid.New()}

	task := &models.Task{
		ID:            uuid.New(),
		PhaseID:       phase.ID,
		Title:         "Pour concrete",
		StartDate:     calendar.MustParse("2024-01-09"),
		Duration:      2,
		Status:        models.StatusIncomplete,
		AssignedUsers: users,
	}
	s.Require().NoError(s.storage.CreateTask(s.ctx, task))

	got, err := s.storage.GetTask(s.ctx, task.ID)
	s.Require().NoError(err)
	s.ElementsMatch(users, got.AssignedUsers)
	s.Equal(task.StartDate, got.StartDate)

	got.AssignedUsers = users[:1]
	got.Duration = 4
	s.Require().NoError(s.storage.UpdateTask(s.ctx, got))

	tasks, err := s.storage.ListTasks(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Require().Len(tasks, 1)
	s.Equal(4, tasks[0].Duration)
	s.Equal(users[:1], tasks[0].AssignedUsers)
}

func (s *PostgresTestSuite) TestMaterialsAndNotes() {
	job, phase := s.seed()

	material := &models.Material{
		ID:      uuid.New(),
		PhaseID: phase.ID,
		Title:   "Rebar",
		DueDate: calendar.MustParse("2024-01-12"),
		Status:  models.StatusIncomplete,
	}
	s.Require().NoError(s.storage.CreateMaterial(s.ctx, material))
	note := &models.Note{ID: uuid.New(), PhaseID: phase.ID, Body: "gate code 1234"}
	s.Require().NoError(s.storage.CreateNote(s.ctx, note))

	got, err := s.storage.GetNote(s.ctx, note.ID)
	s.Require().NoError(err)
	s.Equal("gate code 1234", got.Body)
	s.Equal(phase.ID, got.PhaseID)

	materials, err := s.storage.ListMaterials(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Require().Len(materials, 1)
	s.Equal(material.DueDate, materials[0].DueDate)
	s.Empty(materials[0].AssignedUsers)

	notes, err := s.storage.ListNotes(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Len(notes, 1)

	_, err = s.storage.GetNote(s.ctx, uuid.New())
	s.ErrorIs(err, repo.ErrNotFound)
}

func (s *PostgresTestSuite) TestCreateUnderMissingPhase() {
	err := s.storage.CreateTask(s.ctx, &models.Task{
		ID:        uuid.New(),
		PhaseID:   uuid.New(),
		StartDate: calendar.MustParse("2024-01-09"),
		Duration:  1,
		Status:    models.StatusIncomplete,
	})
	s.ErrorIs(err, repo.ErrNotFound)
}

func (s *PostgresTestSuite) TestDeleteJobCascades() {
	job, phase := s.seed()
	task := &models.Task{
		ID:        uuid.New(),
		PhaseID:   phase.ID,
		StartDate: job.StartDate,
		Duration:  1,
		Status:    models.StatusIncomplete,
	}
	s.Require().NoError(s.storage.CreateTask(s.ctx, task))

	s.Require().NoError(s.storage.DeleteJob(s.ctx, job.ID))

	_, err := s.storage.GetPhase(s.ctx, phase.ID)
	s.ErrorIs(err, repo.ErrNotFound)
	_, err = s.storage.GetTask(s.ctx, task.ID)
	s.ErrorIs(err, repo.ErrNotFound)
	s.ErrorIs(s.storage.DeleteJob(s.ctx, job.ID), repo.ErrNotFound)
}

func (s *PostgresTestSuite) TestNotificationDedupe() {
	job, _ := s.seed()
	key := "overdue:" + job.ID.String() + ":2024-01-15"

	created, err := s.storage.CreateNotification(s.ctx, &models.Notification{ID: uuid.New(), JobID: job.ID, Key: key})
	s.Require().NoError(err)
	s.True(created)

	created, err = s.storage.CreateNotification(s.ctx, &models.Notification{ID: uuid.New(), JobID: job.ID, Key: key})
	s.Require().NoError(err)
	s.False(created)

	list, err := s.storage.ListNotifications(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *PostgresTestSuite) TestWithinTxRollback() {
	job, phase := s.seed()
	boom := errors.New("boom")

	err := s.storage.WithinTx(s.ctx, func(ctx context.Context, tx repo.Store) error {
		phase.StartDate = calendar.MustParse("2024-01-15")
		if err := tx.UpdatePhase(ctx, phase); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	got, err := s.storage.GetPhase(s.ctx, phase.ID)
	s.Require().NoError(err)
	s.Equal(job.StartDate, got.StartDate)
}

func (s *PostgresTestSuite) TestWithinTxCommit() {
	job, phase := s.seed()

	err := s.storage.WithinTx(s.ctx, func(ctx context.Context, tx repo.Store) error {
		job.Title = "Deck and stairs"
		if err := tx.UpdateJob(ctx, job); err != nil {
			return err
		}
		return tx.CreateNote(ctx, &models.Note{ID: uuid.New(), PhaseID: phase.ID, Body: "stairs added"})
	})
	s.Require().NoError(err)

	got, err := s.storage.GetJob(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal("Deck and stairs", got.Title)
}
