package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-crm/internal/models"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

const taskColumns = `t.id,
       t.title,
       t.description,
       t.status,
       t.priority,
       t.due_date,
       t.project_id,
       t.assigned_to_id,
       t.created_at,
       t.updated_at`

func scanTask(row pgx.Row, extra ...any) (*models.Task, error) {
	task := new(models.Task)
	dest := []any{
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&task.ProjectID,
		&task.AssignedToID,
		&task.CreatedAt,
		&task.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) GetTasks(ctx context.Context) ([]*models.Task, error) {
	const selectTasksQuery = `
SELECT ` + taskColumns + `,
       p.name,
       p.client_id,
       u.name,
       u.email
FROM tasks t
JOIN projects p ON p.id = t.project_id
LEFT JOIN users u ON u.id = t.assigned_to_id
ORDER BY t.due_date ASC NULLS LAST, t.created_at ASC
`
	rows, err := s.pgPool.Query(ctx, selectTasksQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		var (
			project       models.ProjectSummary
			assigneeName  *string
			assigneeEmail *string
		)
		task, err := scanTask(
			rows,
			&project.Name,
			&project.ClientID,
			&assigneeName,
			&assigneeEmail,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}

		project.ID = task.ProjectID
		task.Project = &project
		if task.AssignedToID != nil && assigneeName != nil && assigneeEmail != nil {
			task.AssignedTo = &models.UserSummary{
				ID:    *task.AssignedToID,
				Name:  *assigneeName,
				Email: *assigneeEmail,
			}
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Msg("selected tasks")
	return tasks, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	if !isValidID(params.ProjectID) {
		s.logger.Error().
			Str("project_id", params.ProjectID).
			Msg("malformed project id")
		return nil, ErrProjectNotFound
	}
	if params.AssignedToID != nil && !isValidID(*params.AssignedToID) {
		s.logger.Error().
			Str("assigned_to_id", *params.AssignedToID).
			Msg("malformed assignee id")
		return nil, ErrAssigneeNotFound
	}

	id, err := newID()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	createdAt := now()
	task := &models.Task{
		ID:           id,
		Title:        params.Title,
		Description:  params.Description,
		Status:       params.Status,
		Priority:     params.Priority,
		DueDate:      params.DueDate,
		ProjectID:    params.ProjectID,
		AssignedToID: params.AssignedToID,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   title,
                   description,
                   status,
                   priority,
                   due_date,
                   project_id,
                   assigned_to_id,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		task.ProjectID,
		task.AssignedToID,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return nil, s.translateTaskWriteError(err, task.ID, "failed to insert task")
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("project_id", task.ProjectID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	if !isValidID(params.ID) {
		s.logger.Error().
			Str("task_id", params.ID).
			Msg("malformed task id")
		return nil, ErrTaskNotFound
	}
	if params.ProjectID != nil && !isValidID(*params.ProjectID) {
		return nil, ErrProjectNotFound
	}
	if params.SetAssignedTo && params.AssignedToID != nil && !isValidID(*params.AssignedToID) {
		return nil, ErrAssigneeNotFound
	}

	const updateTaskQuery = `
UPDATE tasks t
SET title = COALESCE($1, t.title),
    description = COALESCE($2, t.description),
    project_id = COALESCE($3::uuid, t.project_id),
    priority = COALESCE($4, t.priority),
    status = COALESCE($5, t.status),
    assigned_to_id = CASE WHEN $6::boolean THEN $7::uuid ELSE t.assigned_to_id END,
    due_date = CASE WHEN $8::boolean THEN $9::timestamptz ELSE t.due_date END,
    updated_at = $10
WHERE t.id = $11
RETURNING ` + taskColumns

	task, err := scanTask(s.pgPool.QueryRow(
		ctx,
		updateTaskQuery,
		params.Title,
		params.Description,
		params.ProjectID,
		params.Priority,
		params.Status,
		params.SetAssignedTo,
		params.AssignedToID,
		params.SetDueDate,
		params.DueDate,
		now(),
		params.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", params.ID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}
		return nil, s.translateTaskWriteError(err, params.ID, "failed to update task")
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, taskID string) error {
	if !isValidID(taskID) {
		s.logger.Error().
			Str("task_id", taskID).
			Msg("malformed task id")
		return ErrTaskNotFound
	}

	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		taskID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("task_id", taskID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Info().
		Str("task_id", taskID).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) translateTaskWriteError(err error, taskID, msg string) error {
	switch {
	case isForeignKeyViolation(err, "tasks_project_id_fkey"):
		s.logger.Error().
			Str("task_id", taskID).
			Msg("project not found")
		return ErrProjectNotFound
	case isForeignKeyViolation(err, "tasks_assigned_to_id_fkey"):
		s.logger.Error().
			Str("task_id", taskID).
			Msg("assignee not found")
		return ErrAssigneeNotFound
	}

	s.logger.Error().
		Err(err).
		Str("task_id", taskID).
		Msg(msg)
	return err
}
