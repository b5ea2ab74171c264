package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlerImpl) HandleGetUsers(c *gin.Context) {
	users, err := h.users.GetAssignees(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get assignees")
		abort(c, newInternalError(msgFetchUsersFailed))
		return
	}

	response := make([]userSummaryResponse, len(users))
	for i, user := range users {
		response[i] = newUserSummaryResponse(user)
	}
	c.JSON(http.StatusOK, response)
}
