package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-crm/internal/services"
)

type createProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	ClientID    string  `json:"clientId" binding:"required"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	StartDate   *string `json:"startDate"`
	DueDate     *string `json:"dueDate"`
}

func (h *handlerImpl) HandleGetProjects(c *gin.Context) {
	projects, err := h.projects.GetProjects(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get projects")
		abort(c, newInternalError(msgFetchProjectsFailed))
		return
	}

	response := make([]projectWithRelationsResponse, len(projects))
	for i, project := range projects {
		response[i] = newProjectWithRelationsResponse(project)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetProject(c *gin.Context) {
	projectID := c.Param("id")
	project, err := h.projects.GetProjectByID(c, projectID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			abort(c, newNotFoundError(msgProjectNotFound))
			return
		}

		h.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to get project")
		abort(c, newInternalError(msgFetchProjectFailed))
		return
	}

	c.JSON(http.StatusOK, newProjectWithRelationsResponse(project))
}

func (h *handlerImpl) HandleCreateProject(c *gin.Context) {
	var req createProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgProjectFieldsRequired))
		return
	}

	project, err := h.projects.CreateProject(c, services.CreateProjectParams{
		Name:        req.Name,
		Description: nilIfEmpty(req.Description),
		ClientID:    req.ClientID,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   parseOptionalDate(req.StartDate),
		DueDate:     parseOptionalDate(req.DueDate),
	})
	if err != nil {
		// An unknown client is reported like any other store failure.
		h.logger.Error().
			Err(err).
			Str("client_id", req.ClientID).
			Msg("failed to create project")
		abort(c, newInternalError(msgCreateProjectFailed))
		return
	}

	c.JSON(http.StatusCreated, newProjectResponse(project))
}
