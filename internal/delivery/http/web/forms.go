package web

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/adanyl0v/go-crm/internal/models"
	"github.com/adanyl0v/go-crm/internal/services"
)

const formErrorKey = "Form"

type clientForm struct {
	Name    string `form:"name" binding:"required,min=2"`
	Company string `form:"company"`
	Email   string `form:"email" binding:"required,email"`
	Phone   string `form:"phone"`
	Status  string `form:"status" binding:"required,oneof=novo ativo inativo"`
	Notes   string `form:"notes"`
	Tags    string `form:"tags"`
}

var clientFormMessages = map[string]string{
	"Name":   "Nome é obrigatório",
	"Email":  "Email inválido",
	"Status": "Status inválido",
}

func newClientForm(client *models.Client) clientForm {
	return clientForm{
		Name:    client.Name,
		Company: deref(client.Company),
		Email:   client.Email,
		Phone:   deref(client.Phone),
		Status:  client.Status,
		Notes:   deref(client.Notes),
		Tags:    strings.Join(client.Tags, ", "),
	}
}

func (f clientForm) createParams() services.CreateClientParams {
	return services.CreateClientParams{
		Name:    f.Name,
		Company: optional(f.Company),
		Email:   f.Email,
		Phone:   optional(f.Phone),
		Status:  f.Status,
		Notes:   optional(f.Notes),
		Tags:    models.ParseTags(f.Tags),
	}
}

// updateParams overwrites every field, since the edit form always
// submits the whole client. Blank optional fields are sent as empty
// strings so that the update clears them.
func (f clientForm) updateParams(clientID string) services.UpdateClientParams {
	return services.UpdateClientParams{
		ID:      clientID,
		Name:    &f.Name,
		Company: &f.Company,
		Email:   &f.Email,
		Phone:   &f.Phone,
		Status:  &f.Status,
		Notes:   &f.Notes,
		Tags:    models.ParseTags(f.Tags),
	}
}

type projectForm struct {
	Name        string `form:"name" binding:"required,min=3"`
	Description string `form:"description"`
	ClientID    string `form:"clientId" binding:"required"`
	Status      string `form:"status" binding:"required,oneof=planning in_progress paused completed"`
	Priority    string `form:"priority" binding:"required,oneof=low medium high"`
	StartDate   string `form:"startDate"`
	DueDate     string `form:"dueDate"`
}

var projectFormMessages = map[string]string{
	"Name":     "Nome do projeto deve ter ao menos 3 caracteres",
	"ClientID": "Cliente é obrigatório",
	"Status":   "Status inválido",
	"Priority": "Prioridade inválida",
}

func (f projectForm) createParams() services.CreateProjectParams {
	return services.CreateProjectParams{
		Name:        f.Name,
		Description: optional(f.Description),
		ClientID:    f.ClientID,
		Status:      f.Status,
		Priority:    f.Priority,
		StartDate:   parseFormDate(f.StartDate),
		DueDate:     parseFormDate(f.DueDate),
	}
}

type taskForm struct {
	Title        string `form:"title" binding:"required"`
	Description  string `form:"description"`
	AssignedToID string `form:"assignedToId"`
	Priority     string `form:"priority" binding:"required,oneof=low medium high"`
	DueDate      string `form:"dueDate"`
}

var taskFormMessages = map[string]string{
	"Title":    "Título é obrigatório",
	"Priority": "Prioridade inválida",
}

func (f taskForm) createParams(projectID string) services.CreateTaskParams {
	return services.CreateTaskParams{
		Title:        f.Title,
		Description:  f.Description,
		ProjectID:    projectID,
		AssignedToID: optional(f.AssignedToID),
		Priority:     f.Priority,
		DueDate:      parseFormDate(f.DueDate),
	}
}

// fieldErrors maps binding failures to a message per form field. A body
// that could not be bound at all is reported under formErrorKey.
func fieldErrors(err error, messages map[string]string) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{formErrorKey: "Dados inválidos."}
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		message, ok := messages[fe.Field()]
		if !ok {
			message = "Valor inválido"
		}
		fields[fe.Field()] = message
	}
	return fields
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

// parseFormDate reads the value of a date input.
func parseFormDate(value string) *time.Time {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(value))
	if err != nil {
		return nil
	}
	return &t
}
