package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-crm/internal/models"
)

type projectServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewProjectService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) ProjectService {
	return &projectServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

const projectWithClientColumns = `p.id,
       p.name,
       p.description,
       p.status,
       p.priority,
       p.start_date,
       p.due_date,
       p.client_id,
       p.created_at,
       p.updated_at,
       c.id,
       c.name,
       c.company,
       c.email,
       c.phone,
       c.status,
       c.notes,
       c.tags,
       c.created_at,
       c.updated_at`

// projectClientRow holds the nullable side of the LEFT JOIN on clients.
type projectClientRow struct {
	ID        *string
	Name      *string
	Company   *string
	Email     *string
	Phone     *string
	Status    *string
	Notes     *string
	Tags      []string
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

func (r *projectClientRow) toModel() *models.Client {
	if r.ID == nil {
		return nil
	}

	client := &models.Client{
		ID:      *r.ID,
		Company: r.Company,
		Phone:   r.Phone,
		Notes:   r.Notes,
		Tags:    r.Tags,
	}
	if r.Name != nil {
		client.Name = *r.Name
	}
	if r.Email != nil {
		client.Email = *r.Email
	}
	if r.Status != nil {
		client.Status = *r.Status
	}
	if r.CreatedAt != nil {
		client.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		client.UpdatedAt = *r.UpdatedAt
	}
	if client.Tags == nil {
		client.Tags = []string{}
	}
	return client
}

func scanProjectWithClient(row pgx.Row) (*models.Project, error) {
	project := new(models.Project)
	var client projectClientRow
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.Status,
		&project.Priority,
		&project.StartDate,
		&project.DueDate,
		&project.ClientID,
		&project.CreatedAt,
		&project.UpdatedAt,
		&client.ID,
		&client.Name,
		&client.Company,
		&client.Email,
		&client.Phone,
		&client.Status,
		&client.Notes,
		&client.Tags,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	project.Client = client.toModel()
	project.Tasks = []*models.Task{}
	return project, nil
}

func (s *projectServiceImpl) GetProjects(ctx context.Context) ([]*models.Project, error) {
	const selectProjectsQuery = `
SELECT ` + projectWithClientColumns + `
FROM projects p
LEFT JOIN clients c ON c.id = p.client_id
ORDER BY p.created_at DESC
`
	rows, err := s.pgPool.Query(ctx, selectProjectsQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select projects")
		return nil, err
	}
	defer rows.Close()

	projects := make([]*models.Project, 0)
	byID := make(map[string]*models.Project)
	for rows.Next() {
		project, err := scanProjectWithClient(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan project")
			return nil, err
		}
		projects = append(projects, project)
		byID[project.ID] = project
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	if len(projects) == 0 {
		s.logger.Debug().Msg("no projects found")
		return projects, nil
	}

	ids := make([]string, 0, len(projects))
	for _, project := range projects {
		ids = append(ids, project.ID)
	}

	tasks, err := s.selectTasksByProjectIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, task := range tasks {
		if project, ok := byID[task.ProjectID]; ok {
			project.Tasks = append(project.Tasks, task)
		}
	}

	s.logger.Debug().
		Int("count", len(projects)).
		Int("tasks", len(tasks)).
		Msg("selected projects")
	return projects, nil
}

func (s *projectServiceImpl) GetProjectByID(ctx context.Context, projectID string) (*models.Project, error) {
	if !isValidID(projectID) {
		s.logger.Warn().
			Str("project_id", projectID).
			Msg("malformed project id")
		return nil, ErrProjectNotFound
	}

	const selectProjectByIDQuery = `
SELECT ` + projectWithClientColumns + `
FROM projects p
LEFT JOIN clients c ON c.id = p.client_id
WHERE p.id = $1
`
	project, err := scanProjectWithClient(s.pgPool.QueryRow(ctx, selectProjectByIDQuery, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("project_id", projectID).
				Msg("project not found")
			return nil, ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to select project by id")
		return nil, err
	}

	tasks, err := s.selectTasksByProjectIDs(ctx, []string{project.ID})
	if err != nil {
		return nil, err
	}
	project.Tasks = tasks

	s.logger.Debug().
		Str("project_id", project.ID).
		Int("tasks", len(tasks)).
		Msg("selected project by id")
	return project, nil
}

func (s *projectServiceImpl) selectTasksByProjectIDs(ctx context.Context, projectIDs []string) ([]*models.Task, error) {
	const selectTasksByProjectIDsQuery = `
SELECT ` + taskColumns + `
FROM tasks t
WHERE t.project_id = ANY($1::uuid[])
ORDER BY t.due_date ASC NULLS LAST, t.created_at ASC
`
	rows, err := s.pgPool.Query(ctx, selectTasksByProjectIDsQuery, projectIDs)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks by project ids")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
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
	return tasks, nil
}

func (s *projectServiceImpl) CreateProject(ctx context.Context, params CreateProjectParams) (*models.Project, error) {
	if !isValidID(params.ClientID) {
		s.logger.Error().
			Str("client_id", params.ClientID).
			Msg("malformed client id")
		return nil, ErrClientNotFound
	}

	id, err := newID()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate project uuid")
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	createdAt := now()
	clientID := params.ClientID
	project := &models.Project{
		ID:          id,
		Name:        params.Name,
		Description: params.Description,
		Status:      params.Status,
		Priority:    params.Priority,
		StartDate:   params.StartDate,
		DueDate:     params.DueDate,
		ClientID:    &clientID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if project.Status == "" {
		project.Status = models.ProjectStatusPlanning
	}
	if project.Priority == "" {
		project.Priority = models.PriorityMedium
	}

	const insertProjectQuery = `
INSERT INTO projects (id,
                      name,
                      description,
                      status,
                      priority,
                      start_date,
                      due_date,
                      client_id,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertProjectQuery,
		project.ID,
		project.Name,
		project.Description,
		project.Status,
		project.Priority,
		project.StartDate,
		project.DueDate,
		project.ClientID,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err, "projects_client_id_fkey") {
			s.logger.Error().
				Str("client_id", clientID).
				Msg("client not found")
			return nil, ErrClientNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert project")
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("client_id", clientID).
		Msg("created project")
	return project, nil
}
