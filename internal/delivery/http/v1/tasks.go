package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-crm/internal/services"
)

type createTaskRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  *string `json:"description"`
	ProjectID    string  `json:"projectId" binding:"required"`
	AssignedToID *string `json:"assignedToId"`
	Priority     string  `json:"priority"`
	Status       string  `json:"status"`
	DueDate      *string `json:"dueDate"`
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	tasks, err := h.tasks.GetTasks(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get tasks")
		abort(c, newInternalError(msgFetchTasksFailed))
		return
	}

	response := make([]taskWithRelationsResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskWithRelationsResponse(task)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgTaskFieldsRequired))
		return
	}

	var description string
	if req.Description != nil {
		description = *req.Description
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		Title:        req.Title,
		Description:  description,
		ProjectID:    req.ProjectID,
		AssignedToID: nilIfEmpty(req.AssignedToID),
		Priority:     req.Priority,
		Status:       req.Status,
		DueDate:      parseOptionalDate(req.DueDate),
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("project_id", req.ProjectID).
			Msg("failed to create task")
		abort(c, newInternalError(msgCreateTaskFailed))
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

type updateTaskRequest struct {
	ID           string  `json:"id" binding:"required"`
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	ProjectID    *string `json:"projectId"`
	AssignedToID *string `json:"assignedToId"`
	Priority     *string `json:"priority"`
	Status       *string `json:"status"`
	DueDate      *string `json:"dueDate"`
}

func (req updateTaskRequest) params() services.UpdateTaskParams {
	params := services.UpdateTaskParams{
		ID:          req.ID,
		Title:       nilIfEmpty(req.Title),
		Description: req.Description,
		ProjectID:   nilIfEmpty(req.ProjectID),
		Priority:    nilIfEmpty(req.Priority),
		Status:      nilIfEmpty(req.Status),
	}

	// Present but empty clears the column.
	if req.AssignedToID != nil {
		params.SetAssignedTo = true
		params.AssignedToID = nilIfEmpty(req.AssignedToID)
	}
	if req.DueDate != nil {
		params.SetDueDate = true
		params.DueDate = parseDate(*req.DueDate)
	}
	return params
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgTaskIDRequired))
		return
	}

	task, err := h.tasks.UpdateTask(c, req.params())
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", req.ID).
			Msg("failed to update task")
		abort(c, newInternalError(msgUpdateTaskFailed))
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	taskID := c.Query("id")
	if taskID == "" {
		h.logger.Error().Msg("no task id provided")
		abort(c, newBadRequestError(msgTaskIDRequired))
		return
	}

	err := h.tasks.DeleteTask(c, taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		abort(c, newInternalError(msgDeleteTaskFailed))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgTaskDeleted})
}
