package postgres

import (
	"context"
	"time"

	"jobTracker/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const taskSelect = `SELECT t.id, t.phase_id, t.title, t.description, t.start_date, t.duration, t.status,
				t.created_at, t.updated_at,
				COALESCE((SELECT array_agg(a.user_id::text ORDER BY a.user_id)
					FROM task_assignees a WHERE a.task_id = t.id), '{}')
				FROM tasks t`

const materialSelect = `SELECT m.id, m.phase_id, m.title, m.description, m.due_date, m.status,
				m.created_at, m.updated_at,
				COALESCE((SELECT array_agg(a.user_id::text ORDER BY a.user_id)
					FROM material_assignees a WHERE a.material_id = m.id), '{}')
				FROM materials m`

func scanTask(row pgx.Row) (*models.Task, error) {
	task := &models.Task{}
	var start time.Time
	var users []string
	err := row.Scan(
		&task.ID,
		&task.PhaseID,
		&task.Title,
		&task.Description,
		&start,
		&task.Duration,
		&task.Status,
		&task.CreatedAt,
		&task.UpdatedAt,
		&users,
	)
	if err != nil {
		return nil, err
	}
	task.StartDate = scanDate(start)
	task.AssignedUsers, err = parseUsers(users)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func scanMaterial(row pgx.Row) (*models.Material, error) {
	material := &models.Material{}
	var due time.Time
	var users []string
	err := row.Scan(
		&material.ID,
		&material.PhaseID,
		&material.Title,
		&material.Description,
		&due,
		&material.Status,
		&material.CreatedAt,
		&material.UpdatedAt,
		&users,
	)
	if err != nil {
		return nil, err
	}
	material.DueDate = scanDate(due)
	material.AssignedUsers, err = parseUsers(users)
	if err != nil {
		return nil, err
	}
	return material, nil
}

// replaceAssignees rewrites the junction rows for one owner. table and column are constants.
func (s *Storage) replaceAssignees(ctx context.Context, table, column string, owner uuid.UUID, users []uuid.UUID) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM `+table+` WHERE `+column+` = $1`, owner); err != nil {
		return wrap("clear assignees", err)
	}
	for _, user := range users {
		_, err := s.db.Exec(ctx,
			`INSERT INTO `+table+` (`+column+`, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			owner, user)
		if err != nil {
			return wrap("add assignee", err)
		}
	}
	return nil
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	start := time.Now()
	defer observe("create task", start)

	query := `INSERT INTO tasks
				(id, phase_id, title, description, start_date, duration, status)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING created_at`

	err := s.db.QueryRow(ctx, query,
		task.ID,
		task.PhaseID,
		task.Title,
		task.Description,
		dateParam(task.StartDate),
		task.Duration,
		task.Status,
	).Scan(&task.CreatedAt)
	if err != nil {
		return wrap("create task", err)
	}
	return s.replaceAssignees(ctx, "task_assignees", "task_id", task.ID, task.AssignedUsers)
}

func (s *Storage) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	start := time.Now()
	defer observe("get task", start)

	task, err := scanTask(s.db.QueryRow(ctx, taskSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, wrap("get task", err)
	}
	return task, nil
}

func (s *Storage) ListTasks(ctx context.Context, jobID uuid.UUID) ([]*models.Task, error) {
	start := time.Now()
	defer observe("list tasks", start)

	query := taskSelect + `
				JOIN phases p ON p.id = t.phase_id
				WHERE p.job_id = $1
				ORDER BY t.start_date, t.created_at, t.id`

	rows, err := s.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, wrap("list tasks", err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, wrap("scan task", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate tasks", err)
	}
	return tasks, nil
}

func (s *Storage) UpdateTask(ctx context.Context, task *models.Task) error {
	start := time.Now()
	defer observe("update task", start)

	query := `UPDATE tasks
			SET phase_id = $1,
				title = $2,
				description = $3,
				start_date = $4,
				duration = $5,
				status = $6,
				updated_at = NOW()
			WHERE id = $7
			RETURNING updated_at`

	err := s.db.QueryRow(ctx, query,
		task.PhaseID,
		task.Title,
		task.Description,
		dateParam(task.StartDate),
		task.Duration,
		task.Status,
		task.ID,
	).Scan(&task.UpdatedAt)
	if err != nil {
		return wrap("update task", err)
	}
	return s.replaceAssignees(ctx, "task_assignees", "task_id", task.ID, task.AssignedUsers)
}

func (s *Storage) DeleteTask(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	defer observe("delete task", start)

	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return wrap("delete task", err)
	}
	return affected(tag)
}

func (s *Storage) CreateMaterial(ctx context.Context, material *models.Material) error {
	start := time.Now()
	defer observe("create material", start)

	query := `INSERT INTO materials
				(id, phase_id, title, description, due_date, status)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING created_at`

	err := s.db.QueryRow(ctx, query,
		material.ID,
		material.PhaseID,
		material.Title,
		material.Description,
		dateParam(material.DueDate),
		material.Status,
	).Scan(&material.CreatedAt)
	if err != nil {
		return wrap("create material", err)
	}
	return s.replaceAssignees(ctx, "material_assignees", "material_id", material.ID, material.AssignedUsers)
}

func (s *Storage) GetMaterial(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	start := time.Now()
	defer observe("get material", start)

	material, err := scanMaterial(s.db.QueryRow(ctx, materialSelect+` WHERE m.id = $1`, id))
	if err != nil {
		return nil, wrap("get material", err)
	}
	return material, nil
}

func (s *Storage) ListMaterials(ctx context.Context, jobID uuid.UUID) ([]*models.Material, error) {
	start := time.Now()
	defer observe("list materials", start)

	query := materialSelect + `
				JOIN phases p ON p.id = m.phase_id
				WHERE p.job_id = $1
				ORDER BY m.due_date, m.created_at, m.id`

	rows, err := s.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, wrap("list materials", err)
	}
	defer rows.Close()

	materials := []*models.Material{}
	for rows.Next() {
		material, err := scanMaterial(rows)
		if err != nil {
			return nil, wrap("scan material", err)
		}
		materials = append(materials, material)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate materials", err)
	}
	return materials, nil
}

func (s *Storage) UpdateMaterial(ctx context.Context, material *models.Material) error {
	start := time.Now()
	defer observe("update material", start)

	query := `UPDATE materials
			SET phase_id = $1,
				title = $2,
				description = $3,
				due_date = $4,
				status = $5,
				updated_at = NOW()
			WHERE id = $6
			RETURNING updated_at`

	err := s.db.QueryRow(ctx, query,
		material.PhaseID,
		material.Title,
		material.Description,
		dateParam(material.DueDate),
		material.Status,
		material.ID,
	).Scan(&material.UpdatedAt)
	if err != nil {
		return wrap("update material", err)
	}
	return s.replaceAssignees(ctx, "material_assignees", "material_id", material.ID, material.AssignedUsers)
}

func (s *Storage) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	defer observe("delete material", start)

	tag, err := s.db.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return wrap("delete material", err)
	}
	return affected(tag)
}
