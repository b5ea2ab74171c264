package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-crm/internal/models"
	"github.com/adanyl0v/go-crm/internal/services"
)

var errInvalidTags = errors.New("tags must be an array or a comma separated string")

// tagList accepts either a JSON array or a comma separated string.
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err == nil {
		*t = tags
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errInvalidTags
	}
	*t = models.ParseTags(raw)
	return nil
}

type createClientRequest struct {
	Name    string  `json:"name" binding:"required"`
	Company *string `json:"company"`
	Email   string  `json:"email" binding:"required"`
	Phone   *string `json:"phone"`
	Status  string  `json:"status"`
	Notes   *string `json:"notes"`
	Tags    tagList `json:"tags"`
}

func (h *handlerImpl) HandleGetClients(c *gin.Context) {
	clients, err := h.clients.GetClients(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get clients")
		abort(c, newInternalError(msgFetchClientsFailed))
		return
	}

	response := make([]clientResponse, len(clients))
	for i, client := range clients {
		response[i] = newClientResponse(client)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetClient(c *gin.Context) {
	clientID := c.Param("id")
	client, err := h.clients.GetClientByID(c, clientID)
	if err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			abort(c, newNotFoundError(msgClientNotFound))
			return
		}

		h.logger.Error().
			Err(err).
			Str("client_id", clientID).
			Msg("failed to get client")
		abort(c, newInternalError(msgFetchClientFailed))
		return
	}

	c.JSON(http.StatusOK, newClientResponse(client))
}

func (h *handlerImpl) HandleCreateClient(c *gin.Context) {
	var req createClientRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(bindClientMessage(err, msgClientFieldsRequired)))
		return
	}

	client, err := h.clients.CreateClient(c, services.CreateClientParams{
		Name:    req.Name,
		Company: nilIfEmpty(req.Company),
		Email:   req.Email,
		Phone:   nilIfEmpty(req.Phone),
		Status:  req.Status,
		Notes:   nilIfEmpty(req.Notes),
		Tags:    req.Tags,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create client")
		abort(c, newInternalError(msgCreateClientFailed))
		return
	}

	c.JSON(http.StatusCreated, newClientResponse(client))
}

type updateClientRequest struct {
	ID      string  `json:"id" binding:"required"`
	Name    *string `json:"name"`
	Company *string `json:"company"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Status  *string `json:"status"`
	Notes   *string `json:"notes"`
	Tags    tagList `json:"tags"`
}

func (h *handlerImpl) HandleUpdateClient(c *gin.Context) {
	var req updateClientRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(bindClientMessage(err, msgClientIDRequired)))
		return
	}

	client, err := h.clients.UpdateClient(c, services.UpdateClientParams{
		ID:      req.ID,
		Name:    nilIfEmpty(req.Name),
		Company: req.Company,
		Email:   nilIfEmpty(req.Email),
		Phone:   req.Phone,
		Status:  nilIfEmpty(req.Status),
		Notes:   req.Notes,
		Tags:    req.Tags,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("client_id", req.ID).
			Msg("failed to update client")
		abort(c, newInternalError(msgUpdateClientFailed))
		return
	}

	c.JSON(http.StatusOK, newClientResponse(client))
}

// bindClientMessage tells a malformed tags value apart from missing
// required fields.
func bindClientMessage(err error, fallback string) string {
	if errors.Is(err, errInvalidTags) {
		return msgInvalidTags
	}
	return fallback
}
