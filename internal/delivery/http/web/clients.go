package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-crm/internal/models"
	"github.com/adanyl0v/go-crm/internal/services"
)

func (h *handlerImpl) HandleClients(c *gin.Context) {
	page := clientsPage{layout: layout{Title: "Clientes"}}

	clients, err := h.clients.GetClients(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get clients")
		page.Error = "Erro ao carregar clientes"
		c.HTML(http.StatusInternalServerError, "clients.html", page)
		return
	}

	page.Clients = clients
	c.HTML(http.StatusOK, "clients.html", page)
}

func (h *handlerImpl) HandleNewClient(c *gin.Context) {
	c.HTML(http.StatusOK, "client_form.html", clientFormPage{
		layout: layout{Title: "Novo Cliente"},
		Form:   clientForm{Status: models.ClientStatusNew},
	})
}

func (h *handlerImpl) HandleCreateClient(c *gin.Context) {
	page := clientFormPage{layout: layout{Title: "Novo Cliente"}}

	err := c.ShouldBind(&page.Form)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("invalid client form")
		page.Errors = fieldErrors(err, clientFormMessages)
		c.HTML(http.StatusBadRequest, "client_form.html", page)
		return
	}

	client, err := h.clients.CreateClient(c, page.Form.createParams())
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create client")
		page.Toast = "Erro ao criar cliente"
		c.HTML(http.StatusInternalServerError, "client_form.html", page)
		return
	}

	h.logger.Info().
		Str("client_id", client.ID).
		Msg("created client from form")
	c.Redirect(http.StatusSeeOther, "/clients")
}

func (h *handlerImpl) HandleClient(c *gin.Context) {
	clientID := c.Param("id")
	client, err := h.clients.GetClientByID(c, clientID)
	if err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			h.renderNotFound(c, "Cliente não encontrado.")
			return
		}

		h.logger.Error().
			Err(err).
			Str("client_id", clientID).
			Msg("failed to get client")
		h.renderMessage(c, http.StatusInternalServerError, "Erro", "Erro ao carregar cliente.")
		return
	}

	c.HTML(http.StatusOK, "client_form.html", clientFormPage{
		layout:   layout{Title: "Editar Cliente"},
		ClientID: client.ID,
		Form:     newClientForm(client),
	})
}

func (h *handlerImpl) HandleUpdateClient(c *gin.Context) {
	page := clientFormPage{
		layout:   layout{Title: "Editar Cliente"},
		ClientID: c.Param("id"),
	}

	err := c.ShouldBind(&page.Form)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("invalid client form")
		page.Errors = fieldErrors(err, clientFormMessages)
		c.HTML(http.StatusBadRequest, "client_form.html", page)
		return
	}

	_, err = h.clients.UpdateClient(c, page.Form.updateParams(page.ClientID))
	if err != nil {
		if errors.Is(err, services.ErrClientNotFound) {
			h.renderNotFound(c, "Cliente não encontrado.")
			return
		}

		h.logger.Error().
			Err(err).
			Str("client_id", page.ClientID).
			Msg("failed to update client")
		page.Toast = "Erro ao atualizar cliente"
		c.HTML(http.StatusInternalServerError, "client_form.html", page)
		return
	}

	c.Redirect(http.StatusSeeOther, "/clients")
}
