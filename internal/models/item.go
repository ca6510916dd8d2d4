package models

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

type Status string

const StatusIncomplete Status = "Incomplete"
const StatusInProgress Status = "In Progress"
const StatusComplete Status = "Complete"

func (s Status) Valid() bool {
	switch s {
	case StatusIncomplete, StatusInProgress, StatusComplete:
		return true
	}
	return false
}

type Task struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	PhaseID       uuid.UUID   `json:"phase_id" db:"phase_id"`
	Title         string      `json:"title" db:"title"`
	Description   string      `json:"description" db:"description"`
	StartDate     civil.Date  `json:"start_date" db:"start_date"`
	Duration      int         `json:"duration" db:"duration"`
	Status        Status      `json:"status" db:"status"`
	AssignedUsers []uuid.UUID `json:"assigned_users" db:"-"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     *time.Time  `json:"updated_at,omitempty" db:"updated_at"`
}

type Material struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	PhaseID       uuid.UUID   `json:"phase_id" db:"phase_id"`
	Title         string      `json:"title" db:"title"`
	Description   string      `json:"description" db:"description"`
	DueDate       civil.Date  `json:"due_date" db:"due_date"`
	Status        Status      `json:"status" db:"status"`
	AssignedUsers []uuid.UUID `json:"assigned_users" db:"-"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     *time.Time  `json:"updated_at,omitempty" db:"updated_at"`
}
