package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// User facing messages of the CRM endpoints.
const (
	msgInvalidAuthData       = "Dados inválidos."
	msgInvalidCredentials    = "Email ou senha incorretos."
	msgUserAlreadyExists     = "Usuário já cadastrado."
	msgUnauthorized          = "Não autorizado."
	msgSessionCookieRequired = "Sessão não informada."
	msgSessionExpired        = "Sessão expirada. Faça login novamente."
	msgAuthFailed            = "Erro ao autenticar."
	msgLogoutFailed          = "Erro ao encerrar sessão."
	msgInvalidTags           = "Tags devem ser uma lista ou texto separado por vírgulas."
	msgClientFieldsRequired  = "Nome e email são obrigatórios."
	msgClientIDRequired      = "ID do cliente é obrigatório."
	msgClientNotFound        = "Cliente não encontrado."
	msgFetchClientsFailed    = "Erro ao buscar clientes."
	msgFetchClientFailed     = "Erro ao buscar cliente."
	msgCreateClientFailed    = "Erro ao criar cliente."
	msgUpdateClientFailed    = "Erro ao atualizar cliente."
	msgProjectFieldsRequired = "Nome e cliente são obrigatórios."
	msgProjectNotFound       = "Projeto não encontrado."
	msgFetchProjectsFailed   = "Erro ao buscar projetos."
	msgFetchProjectFailed    = "Erro ao buscar projeto."
	msgCreateProjectFailed   = "Erro ao criar projeto."
	msgTaskFieldsRequired    = "Título e projeto são obrigatórios."
	msgTaskIDRequired        = "ID da tarefa é obrigatório."
	msgFetchTasksFailed      = "Erro ao buscar tarefas."
	msgCreateTaskFailed      = "Erro ao criar tarefa."
	msgUpdateTaskFailed      = "Erro ao atualizar tarefa."
	msgDeleteTaskFailed      = "Erro ao deletar tarefa."
	msgTaskDeleted           = "Tarefa deletada com sucesso."
	msgFetchDashboardFailed  = "Erro ao buscar dados do dashboard."
	msgFetchUsersFailed      = "Erro ao buscar usuários."
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

func newInternalError(message string) apiError {
	return newAPIError(http.StatusInternalServerError, message)
}
