package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-crm/internal/models"
	"github.com/adanyl0v/go-crm/internal/services"
)

func (h *handlerImpl) HandleProjects(c *gin.Context) {
	page := projectsPage{layout: layout{Title: "Projetos"}}

	projects, err := h.projects.GetProjects(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get projects")
		page.Error = "Erro ao carregar projetos"
		c.HTML(http.StatusInternalServerError, "projects.html", page)
		return
	}

	page.Projects = projects
	c.HTML(http.StatusOK, "projects.html", page)
}

// loadClientOptions fills the client select, leaving a toast when
// the clients can't be loaded.
func (h *handlerImpl) loadClientOptions(c *gin.Context, page *projectFormPage) {
	clients, err := h.clients.GetClients(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get clients")
		page.Toast = "Erro ao carregar clientes"
		return
	}
	page.Clients = clients
}

func (h *handlerImpl) HandleNewProject(c *gin.Context) {
	page := projectFormPage{
		layout: layout{Title: "Novo Projeto"},
		Form: projectForm{
			Status:   models.ProjectStatusPlanning,
			Priority: models.PriorityMedium,
		},
	}
	h.loadClientOptions(c, &page)
	c.HTML(http.StatusOK, "project_form.html", page)
}

func (h *handlerImpl) HandleCreateProject(c *gin.Context) {
	page := projectFormPage{layout: layout{Title: "Novo Projeto"}}

	err := c.ShouldBind(&page.Form)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("invalid project form")
		page.Errors = fieldErrors(err, projectFormMessages)
		h.loadClientOptions(c, &page)
		c.HTML(http.StatusBadRequest, "project_form.html", page)
		return
	}

	project, err := h.projects.CreateProject(c, page.Form.createParams())
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create project")
		h.loadClientOptions(c, &page)
		page.Toast = "Erro ao criar projeto"
		c.HTML(http.StatusInternalServerError, "project_form.html", page)
		return
	}

	h.logger.Info().
		Str("project_id", project.ID).
		Msg("created project from form")
	c.Redirect(http.StatusSeeOther, "/projects")
}

// loadProjectPage fetches the project with its assignee options. It
// renders the failure itself and reports whether the caller can go on.
func (h *handlerImpl) loadProjectPage(c *gin.Context, page *projectPage) bool {
	projectID := c.Param("id")
	project, err := h.projects.GetProjectByID(c, projectID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			h.renderNotFound(c, "Projeto não encontrado.")
			return false
		}

		h.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to get project")
		h.renderMessage(c, http.StatusInternalServerError, "Erro", "Erro ao carregar projeto.")
		return false
	}
	page.Title = project.Name
	page.Project = project

	assignees, err := h.users.GetAssignees(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get assignees")
		page.Toast = "Erro ao carregar responsáveis"
		return true
	}
	page.Assignees = assignees
	return true
}

func (h *handlerImpl) HandleProject(c *gin.Context) {
	page := projectPage{
		Form: taskForm{Priority: models.PriorityMedium},
	}
	if !h.loadProjectPage(c, &page) {
		return
	}
	c.HTML(http.StatusOK, "project.html", page)
}

func (h *handlerImpl) HandleCreateProjectTask(c *gin.Context) {
	var page projectPage
	bindErr := c.ShouldBind(&page.Form)
	if !h.loadProjectPage(c, &page) {
		return
	}

	if bindErr != nil {
		h.logger.Debug().
			Err(bindErr).
			Msg("invalid task form")
		page.Errors = fieldErrors(bindErr, taskFormMessages)
		c.HTML(http.StatusBadRequest, "project.html", page)
		return
	}

	_, err := h.tasks.CreateTask(c, page.Form.createParams(page.Project.ID))
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("project_id", page.Project.ID).
			Msg("failed to create task")
		page.Toast = "Erro ao criar tarefa"
		c.HTML(http.StatusInternalServerError, "project.html", page)
		return
	}

	c.Redirect(http.StatusSeeOther, "/projects/"+page.Project.ID)
}
