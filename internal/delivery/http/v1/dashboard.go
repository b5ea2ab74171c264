package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlerImpl) HandleGetDashboard(c *gin.Context) {
	stats, err := h.dashboard.GetStats(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get dashboard stats")
		abort(c, newInternalError(msgFetchDashboardFailed))
		return
	}

	c.JSON(http.StatusOK, newDashboardResponse(stats))
}
