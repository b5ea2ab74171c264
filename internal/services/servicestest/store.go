// Package servicestest provides an in-memory implementation of the CRM
// services for handler tests. It mirrors the ordering, defaults and
// reference checks of the Postgres implementation.
package servicestest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adanyl0v/go-crm/internal/models"
	"github.com/adanyl0v/go-crm/internal/services"
)

var (
	_ services.ClientService    = (*Store)(nil)
	_ services.ProjectService   = (*Store)(nil)
	_ services.TaskService      = (*Store)(nil)
	_ services.DashboardService = (*Store)(nil)
	_ services.UserService      = (*Store)(nil)
)

type Store struct {
	mu       sync.Mutex
	clock    time.Time
	clients  map[string]*models.Client
	projects map[string]*models.Project
	tasks    map[string]*models.Task
	users    map[string]*models.UserSummary

	// Err, when set, is returned by every call, as if the
	// database were unreachable.
	Err error
}

func NewStore() *Store {
	return &Store{
		clock:    time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		clients:  make(map[string]*models.Client),
		projects: make(map[string]*models.Project),
		tasks:    make(map[string]*models.Task),
		users:    make(map[string]*models.UserSummary),
	}
}

// tick returns a strictly increasing timestamp so that
// creation order is observable in the listings.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *Store) AddUser(name, email string) *models.UserSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := &models.UserSummary{ID: uuid.NewString(), Name: name, Email: email}
	s.users[user.ID] = user
	return user
}

func (s *Store) GetAssignees(_ context.Context) ([]*models.UserSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	users := make([]*models.UserSummary, 0, len(s.users))
	for _, user := range s.users {
		u := *user
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (s *Store) GetClients(_ context.Context) ([]*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	clients := make([]*models.Client, 0, len(s.clients))
	for _, client := range s.clients {
		clients = append(clients, copyClient(client))
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].CreatedAt.After(clients[j].CreatedAt) })
	return clients, nil
}

func (s *Store) GetClientByID(_ context.Context, clientID string) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	client, ok := s.clients[clientID]
	if !ok {
		return nil, services.ErrClientNotFound
	}
	return copyClient(client), nil
}

func (s *Store) CreateClient(_ context.Context, params services.CreateClientParams) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	createdAt := s.tick()
	client := &models.Client{
		ID:        uuid.NewString(),
		Name:      params.Name,
		Company:   params.Company,
		Email:     params.Email,
		Phone:     params.Phone,
		Status:    params.Status,
		Notes:     params.Notes,
		Tags:      params.Tags,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if client.Status == "" {
		client.Status = models.ClientStatusNew
	}
	if client.Tags == nil {
		client.Tags = []string{}
	}
	s.clients[client.ID] = client
	return copyClient(client), nil
}

func (s *Store) UpdateClient(_ context.Context, params services.UpdateClientParams) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	client, ok := s.clients[params.ID]
	if !ok {
		return nil, services.ErrClientNotFound
	}
	if params.Name != nil {
		client.Name = *params.Name
	}
	if params.Company != nil {
		client.Company = clearable(*params.Company)
	}
	if params.Email != nil {
		client.Email = *params.Email
	}
	if params.Phone != nil {
		client.Phone = clearable(*params.Phone)
	}
	if params.Status != nil {
		client.Status = *params.Status
	}
	if params.Notes != nil {
		client.Notes = clearable(*params.Notes)
	}
	if params.Tags != nil {
		client.Tags = params.Tags
	}
	client.UpdatedAt = s.tick()
	return copyClient(client), nil
}

func (s *Store) GetProjects(_ context.Context) ([]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	projects := make([]*models.Project, 0, len(s.projects))
	for _, project := range s.projects {
		projects = append(projects, s.loadProject(project))
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].CreatedAt.After(projects[j].CreatedAt) })
	return projects, nil
}

func (s *Store) GetProjectByID(_ context.Context, projectID string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	project, ok := s.projects[projectID]
	if !ok {
		return nil, services.ErrProjectNotFound
	}
	return s.loadProject(project), nil
}

func (s *Store) CreateProject(_ context.Context, params services.CreateProjectParams) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	if _, ok := s.clients[params.ClientID]; !ok {
		return nil, services.ErrClientNotFound
	}

	createdAt := s.tick()
	clientID := params.ClientID
	project := &models.Project{
		ID:          uuid.NewString(),
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
	s.projects[project.ID] = project

	p := *project
	return &p, nil
}

func (s *Store) loadProject(project *models.Project) *models.Project {
	p := *project
	if p.ClientID != nil {
		if client, ok := s.clients[*p.ClientID]; ok {
			p.Client = copyClient(client)
		}
	}

	p.Tasks = make([]*models.Task, 0)
	for _, task := range s.tasks {
		if task.ProjectID == p.ID {
			t := *task
			p.Tasks = append(p.Tasks, &t)
		}
	}
	sortByDueDate(p.Tasks)
	return &p
}

func (s *Store) GetTasks(_ context.Context) ([]*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	tasks := make([]*models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		t := *task
		if project, ok := s.projects[t.ProjectID]; ok {
			t.Project = &models.ProjectSummary{
				ID:       project.ID,
				Name:     project.Name,
				ClientID: project.ClientID,
			}
		}
		if t.AssignedToID != nil {
			if user, ok := s.users[*t.AssignedToID]; ok {
				u := *user
				t.AssignedTo = &u
			}
		}
		tasks = append(tasks, &t)
	}
	sortByDueDate(tasks)
	return tasks, nil
}

func (s *Store) CreateTask(_ context.Context, params services.CreateTaskParams) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	if _, ok := s.projects[params.ProjectID]; !ok {
		return nil, services.ErrProjectNotFound
	}
	if params.AssignedToID != nil {
		if _, ok := s.users[*params.AssignedToID]; !ok {
			return nil, services.ErrAssigneeNotFound
		}
	}

	createdAt := s.tick()
	task := &models.Task{
		ID:           uuid.NewString(),
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
	s.tasks[task.ID] = task

	t := *task
	return &t, nil
}

func (s *Store) UpdateTask(_ context.Context, params services.UpdateTaskParams) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	task, ok := s.tasks[params.ID]
	if !ok {
		return nil, services.ErrTaskNotFound
	}
	if params.ProjectID != nil {
		if _, ok := s.projects[*params.ProjectID]; !ok {
			return nil, services.ErrProjectNotFound
		}
		task.ProjectID = *params.ProjectID
	}
	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.Status != nil {
		task.Status = *params.Status
	}
	if params.SetAssignedTo {
		task.AssignedToID = params.AssignedToID
	}
	if params.SetDueDate {
		task.DueDate = params.DueDate
	}
	task.UpdatedAt = s.tick()

	t := *task
	return &t, nil
}

func (s *Store) DeleteTask(_ context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if _, ok := s.tasks[taskID]; !ok {
		return services.ErrTaskNotFound
	}
	delete(s.tasks, taskID)
	return nil
}

func (s *Store) GetStats(_ context.Context) (*models.DashboardStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	stats := &models.DashboardStats{
		TotalClients:  int64(len(s.clients)),
		TotalProjects: int64(len(s.projects)),
		TotalTasks:    int64(len(s.tasks)),
	}
	for _, client := range s.clients {
		if client.Status == models.ClientStatusActive {
			stats.ActiveClients++
		}
	}
	for _, project := range s.projects {
		if project.Status == models.ProjectStatusInProgress {
			stats.OpenProjects++
		}
	}
	for _, task := range s.tasks {
		if task.Status == models.TaskStatusPending {
			stats.PendingTasks++
		}
	}
	return stats, nil
}

// Services returns a bundle backed by the store. Auth and sessions
// are left nil.
func (s *Store) Services() *services.Services {
	return &services.Services{
		Users:     s,
		Clients:   s,
		Projects:  s,
		Tasks:     s,
		Dashboard: s,
	}
}

// clearable maps an empty update value to NULL.
func clearable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func copyClient(client *models.Client) *models.Client {
	c := *client
	c.Tags = append([]string{}, client.Tags...)
	return &c
}

// sortByDueDate orders tasks by due date with undated tasks
// last, then by creation time.
func sortByDueDate(tasks []*models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return a.CreatedAt.Before(b.CreatedAt)
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		case a.DueDate.Equal(*b.DueDate):
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.DueDate.Before(*b.DueDate)
		}
	})
}
