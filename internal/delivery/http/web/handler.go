// Package web serves the server rendered CRM pages.
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-crm/internal/services"
)

type Handler interface {
	HandleDashboard(c *gin.Context)

	HandleClients(c *gin.Context)
	HandleNewClient(c *gin.Context)
	HandleCreateClient(c *gin.Context)
	HandleClient(c *gin.Context)
	HandleUpdateClient(c *gin.Context)

	HandleProjects(c *gin.Context)
	HandleNewProject(c *gin.Context)
	HandleCreateProject(c *gin.Context)
	HandleProject(c *gin.Context)
	HandleCreateProjectTask(c *gin.Context)

	HandleTasks(c *gin.Context)
}

type handlerImpl struct {
	logger    zerolog.Logger
	users     services.UserService
	clients   services.ClientService
	projects  services.ProjectService
	tasks     services.TaskService
	dashboard services.DashboardService
}

func New(
	logger zerolog.Logger,
	svc *services.Services,
) Handler {
	return &handlerImpl{
		logger:    logger,
		users:     svc.Users,
		clients:   svc.Clients,
		projects:  svc.Projects,
		tasks:     svc.Tasks,
		dashboard: svc.Dashboard,
	}
}

// RegisterRoutes installs the page templates on the engine and mounts the pages.
func RegisterRoutes(router *gin.Engine, h Handler) {
	router.SetHTMLTemplate(mustParseTemplates())

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})
	router.GET("/dashboard", h.HandleDashboard)

	router.GET("/clients", h.HandleClients)
	router.GET("/clients/new", h.HandleNewClient)
	router.POST("/clients/new", h.HandleCreateClient)
	router.GET("/clients/:id", h.HandleClient)
	router.POST("/clients/:id", h.HandleUpdateClient)

	router.GET("/projects", h.HandleProjects)
	router.GET("/projects/new", h.HandleNewProject)
	router.POST("/projects/new", h.HandleCreateProject)
	router.GET("/projects/:id", h.HandleProject)
	router.POST("/projects/:id/tasks", h.HandleCreateProjectTask)

	router.GET("/tasks", h.HandleTasks)
}

func (h *handlerImpl) renderMessage(c *gin.Context, status int, title, message string) {
	c.HTML(status, "message.html", messagePage{
		layout:  layout{Title: title},
		Message: message,
	})
}

func (h *handlerImpl) renderNotFound(c *gin.Context, message string) {
	h.renderMessage(c, http.StatusNotFound, "Não encontrado", message)
}
