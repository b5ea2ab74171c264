package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlerImpl) HandleTasks(c *gin.Context) {
	page := tasksPage{layout: layout{Title: "Tarefas"}}

	tasks, err := h.tasks.GetTasks(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get tasks")
		page.Error = "Erro ao carregar tarefas"
		c.HTML(http.StatusInternalServerError, "tasks.html", page)
		return
	}

	page.Tasks = tasks
	c.HTML(http.StatusOK, "tasks.html", page)
}
