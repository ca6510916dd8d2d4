package postgres

import (
	"context"
	"time"

	"jobTracker/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const phaseColumns = `id, job_id, title, description, start_date, position, created_at`

func scanPhase(row pgx.Row) (*models.Phase, error) {
	phase := &models.Phase{}
	var start time.Time
	err := row.Scan(
		&phase.ID,
		&phase.JobID,
		&phase.Title,
		&phase.Description,
		&start,
		&phase.Position,
		&phase.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	phase.StartDate = scanDate(start)
	return phase, nil
}

func (s *Storage) CreatePhase(ctx context.Context, phase *models.Phase) error {
	start := time.Now()
	defer observe("create phase", start)

	query := `INSERT INTO phases
				(id, job_id, title, description, start_date, position)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING created_at`

	err := s.db.QueryRow(ctx, query,
		phase.ID,
		phase.JobID,
		phase.Title,
		phase.Description,
		dateParam(phase.StartDate),
		phase.Position,
	).Scan(&phase.CreatedAt)
	if err != nil {
		return wrap("create phase", err)
	}
	return nil
}

func (s *Storage) GetPhase(ctx context.Context, id uuid.UUID) (*models.Phase, error) {
	start := time.Now()
	defer observe("get phase", start)

	query := `SELECT ` + phaseColumns + ` FROM phases WHERE id = $1`

	phase, err := scanPhase(s.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, wrap("get phase", err)
	}
	return phase, nil
}

func (s *Storage) ListPhases(ctx context.Context, jobID uuid.UUID) ([]*models.Phase, error) {
	start := time.Now()
	defer observe("list phases", start)

	query := `SELECT ` + phaseColumns + `
				FROM phases
				WHERE job_id = $1
				ORDER BY start_date, position, id`

	rows, err := s.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, wrap("list phases", err)
	}
	defer rows.Close()

	phases := []*models.Phase{}
	for rows.Next() {
		phase, err := scanPhase(rows)
		if err != nil {
			return nil, wrap("scan phase", err)
		}
		phases = append(phases, phase)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate phases", err)
	}
	return phases, nil
}

func (s *Storage) UpdatePhase(ctx context.Context, phase *models.Phase) error {
	start := time.Now()
	defer observe("update phase", start)

	query := `UPDATE phases
			SET title = $1,
				description = $2,
				start_date = $3,
				position = $4
			WHERE id = $5`

	tag, err := s.db.Exec(ctx, query,
		phase.Title,
		phase.Description,
		dateParam(phase.StartDate),
		phase.Position,
		phase.ID,
	)
	if err != nil {
		return wrap("update phase", err)
	}
	return affected(tag)
}

func (s *Storage) DeletePhase(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	defer observe("delete phase", start)

	tag, err := s.db.Exec(ctx, `DELETE FROM phases WHERE id = $1`, id)
	if err != nil {
		return wrap("delete phase", err)
	}
	return affected(tag)
}

func (s *Storage) CreateNote(ctx context.Context, note *models.Note) error {
	start := time.Now()
	defer observe("create note", start)

	query := `INSERT INTO notes (id, phase_id, body)
				VALUES ($1, $2, $3)
				RETURNING created_at`

	err := s.db.QueryRow(ctx, query, note.ID, note.PhaseID, note.Body).Scan(&note.CreatedAt)
	if err != nil {
		return wrap("create note", err)
	}
	return nil
}

func (s *Storage) GetNote(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	start := time.Now()
	defer observe("get note", start)

	note := &models.Note{}
	err := s.db.QueryRow(ctx, `SELECT id, phase_id, body, created_at FROM notes WHERE id = $1`, id).
		Scan(&note.ID, &note.PhaseID, &note.Body, &note.CreatedAt)
	if err != nil {
		return nil, wrap("get note", err)
	}
	return note, nil
}

func (s *Storage) ListNotes(ctx context.Context, jobID uuid.UUID) ([]*models.Note, error) {
	start := time.Now()
	defer observe("list notes", start)

	query := `SELECT n.id, n.phase_id, n.body, n.created_at
				FROM notes n
				JOIN phases p ON p.id = n.phase_id
				WHERE p.job_id = $1
				ORDER BY n.created_at, n.id`

	rows, err := s.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, wrap("list notes", err)
	}
	defer rows.Close()

	notes := []*models.Note{}
	for rows.Next() {
		note := &models.Note{}
		if err := rows.Scan(&note.ID, &note.PhaseID, &note.Body, &note.CreatedAt); err != nil {
			return nil, wrap("scan note", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate notes", err)
	}
	return notes, nil
}

func (s *Storage) DeleteNote(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	defer observe("delete note", start)

	tag, err := s.db.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return wrap("delete note", err)
	}
	return affected(tag)
}
