package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlerImpl) HandleDashboard(c *gin.Context) {
	page := dashboardPage{layout: layout{Title: "Dashboard"}}

	stats, err := h.dashboard.GetStats(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get dashboard stats")
		page.Error = "Erro ao carregar dados do dashboard."
		c.HTML(http.StatusInternalServerError, "dashboard.html", page)
		return
	}

	page.Stats = stats
	c.HTML(http.StatusOK, "dashboard.html", page)
}
