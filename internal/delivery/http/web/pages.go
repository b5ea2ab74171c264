package web

import "github.com/adanyl0v/go-crm/internal/models"

type layout struct {
	Title string
	// Toast is a one-off notice shown above the page content.
	Toast string
}

type messagePage struct {
	layout
	Message string
}

type dashboardPage struct {
	layout
	Stats *models.DashboardStats
	Error string
}

type clientsPage struct {
	layout
	Clients []*models.Client
	Error   string
}

type clientFormPage struct {
	layout
	// ClientID is empty on the create page.
	ClientID string
	Form     clientForm
	Errors   map[string]string
}

type projectsPage struct {
	layout
	Projects []*models.Project
	Error    string
}

type projectFormPage struct {
	layout
	Clients []*models.Client
	Form    projectForm
	Errors  map[string]string
}

type projectPage struct {
	layout
	Project   *models.Project
	Assignees []*models.UserSummary
	Form      taskForm
	Errors    map[string]string
}

type tasksPage struct {
	layout
	Tasks []*models.Task
	Error string
}
