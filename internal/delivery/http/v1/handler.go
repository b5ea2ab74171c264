package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-crm/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleGetUsers(c *gin.Context)

	HandleGetClients(c *gin.Context)
	HandleGetClient(c *gin.Context)
	HandleCreateClient(c *gin.Context)
	HandleUpdateClient(c *gin.Context)

	HandleGetProjects(c *gin.Context)
	HandleGetProject(c *gin.Context)
	HandleCreateProject(c *gin.Context)

	HandleGetTasks(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleGetDashboard(c *gin.Context)
}

type handlerImpl struct {
	logger    zerolog.Logger
	auth      services.AuthService
	sessions  services.SessionService
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
		auth:      svc.Auth,
		sessions:  svc.Sessions,
		users:     svc.Users,
		clients:   svc.Clients,
		projects:  svc.Projects,
		tasks:     svc.Tasks,
		dashboard: svc.Dashboard,
	}
}

// RegisterRoutes mounts the handler on the router under the API version group.
func RegisterRoutes(router gin.IRouter, h Handler) {
	router = router.Group("/api/v1")

	authRouter := router.Group("/auth")
	authRouter.POST("/login", h.HandleLogin)
	authRouter.POST("/refresh", h.HandleRefresh)
	authRouter.POST("/register", h.HandleRegister)
	authRouter.POST("/logout", h.HandleAuthMiddleware, h.HandleLogout)

	router.GET("/users", h.HandleAuthMiddleware, h.HandleGetUsers)

	router.GET("/clients", h.HandleGetClients)
	router.POST("/clients", h.HandleCreateClient)
	router.PUT("/clients", h.HandleUpdateClient)
	router.GET("/clients/:id", h.HandleGetClient)

	router.GET("/projects", h.HandleGetProjects)
	router.POST("/projects", h.HandleCreateProject)
	router.GET("/projects/:id", h.HandleGetProject)

	router.GET("/tasks", h.HandleGetTasks)
	router.POST("/tasks", h.HandleCreateTask)
	router.PUT("/tasks", h.HandleUpdateTask)
	router.DELETE("/tasks", h.HandleDeleteTask)

	router.GET("/dashboard", h.HandleGetDashboard)
}
