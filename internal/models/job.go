package models

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

type Job struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	StartDate   civil.Date `json:"start_date" db:"start_date"`
	Status      JobStatus  `json:"status" db:"status"`
	Location    string     `json:"location" db:"location"`
	Description string     `json:"description" db:"description"`
	ClientID    *uuid.UUID `json:"client_id,omitempty" db:"client_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

type JobStatus string

const JobActive JobStatus = "active"
const JobClosed JobStatus = "closed"

func (s JobStatus) Valid() bool {
	return s == JobActive || s == JobClosed
}

type Phase struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	JobID       uuid.UUID  `json:"job_id" db:"job_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	StartDate   civil.Date `json:"start_date" db:"start_date"`
	Position    int        `json:"position" db:"position"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

type Note struct {
	ID        uuid.UUID `json:"id" db:"id"`
	PhaseID   uuid.UUID `json:"phase_id" db:"phase_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Notification struct {
	ID        uuid.UUID `json:"id" db:"id"`
	JobID     uuid.UUID `json:"job_id" db:"job_id"`
	Key       string    `json:"key" db:"key"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
