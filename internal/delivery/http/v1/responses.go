package v1

import (
	"time"

	"github.com/adanyl0v/go-crm/internal/models"
)

type clientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Company   *string   `json:"company"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Status    string    `json:"status"`
	Notes     *string   `json:"notes"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newClientResponse(client *models.Client) clientResponse {
	tags := client.Tags
	if tags == nil {
		tags = []string{}
	}
	return clientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Company:   client.Company,
		Email:     client.Email,
		Phone:     client.Phone,
		Status:    client.Status,
		Notes:     client.Notes,
		Tags:      tags,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}

type projectResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   *time.Time `json:"startDate"`
	DueDate     *time.Time `json:"dueDate"`
	ClientID    *string    `json:"clientId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func newProjectResponse(project *models.Project) projectResponse {
	return projectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		Priority:    project.Priority,
		StartDate:   project.StartDate,
		DueDate:     project.DueDate,
		ClientID:    project.ClientID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

type projectWithRelationsResponse struct {
	projectResponse
	Client   *clientResponse `json:"client"`
	Tasks    []taskResponse  `json:"tasks"`
	Progress int             `json:"progress"`
}

func newProjectWithRelationsResponse(project *models.Project) projectWithRelationsResponse {
	response := projectWithRelationsResponse{
		projectResponse: newProjectResponse(project),
		Tasks:           make([]taskResponse, len(project.Tasks)),
		Progress:        project.Progress(),
	}
	if project.Client != nil {
		client := newClientResponse(project.Client)
		response.Client = &client
	}
	for i, task := range project.Tasks {
		response.Tasks[i] = newTaskResponse(task)
	}
	return response
}

type taskResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"dueDate"`
	ProjectID    string     `json:"projectId"`
	AssignedToID *string    `json:"assignedToId"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       task.Status,
		Priority:     task.Priority,
		DueDate:      task.DueDate,
		ProjectID:    task.ProjectID,
		AssignedToID: task.AssignedToID,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}

type projectSummaryResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ClientID *string `json:"clientId"`
}

type userSummaryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newUserSummaryResponse(user *models.UserSummary) userSummaryResponse {
	return userSummaryResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

type taskWithRelationsResponse struct {
	taskResponse
	Project    *projectSummaryResponse `json:"project"`
	AssignedTo *userSummaryResponse    `json:"assignedTo"`
}

func newTaskWithRelationsResponse(task *models.Task) taskWithRelationsResponse {
	response := taskWithRelationsResponse{
		taskResponse: newTaskResponse(task),
	}
	if task.Project != nil {
		response.Project = &projectSummaryResponse{
			ID:       task.Project.ID,
			Name:     task.Project.Name,
			ClientID: task.Project.ClientID,
		}
	}
	if task.AssignedTo != nil {
		assignee := newUserSummaryResponse(task.AssignedTo)
		response.AssignedTo = &assignee
	}
	return response
}

type dashboardResponse struct {
	TotalClients  int64 `json:"totalClients"`
	ActiveClients int64 `json:"activeClients"`
	TotalProjects int64 `json:"totalProjects"`
	OpenProjects  int64 `json:"openProjects"`
	TotalTasks    int64 `json:"totalTasks"`
	PendingTasks  int64 `json:"pendingTasks"`
}

func newDashboardResponse(stats *models.DashboardStats) dashboardResponse {
	return dashboardResponse{
		TotalClients:  stats.TotalClients,
		ActiveClients: stats.ActiveClients,
		TotalProjects: stats.TotalProjects,
		OpenProjects:  stats.OpenProjects,
		TotalTasks:    stats.TotalTasks,
		PendingTasks:  stats.PendingTasks,
	}
}
