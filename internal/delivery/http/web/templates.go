package web

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/adanyl0v/go-crm/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

var (
	clientStatusLabels = map[string]string{
		models.ClientStatusNew:      "Novo",
		models.ClientStatusActive:   "Ativo",
		models.ClientStatusInactive: "Inativo",
	}
	projectStatusLabels = map[string]string{
		models.ProjectStatusPlanning:   "Planejamento",
		models.ProjectStatusInProgress: "Em andamento",
		models.ProjectStatusPaused:     "Pausado",
		models.ProjectStatusCompleted:  "Concluído",
	}
	taskStatusLabels = map[string]string{
		models.TaskStatusPending:    "Pendente",
		models.TaskStatusInProgress: "Em andamento",
		models.TaskStatusCompleted:  "Concluída",
	}
	priorityLabels = map[string]string{
		models.PriorityLow:    "Baixa",
		models.PriorityMedium: "Média",
		models.PriorityHigh:   "Alta",
	}
)

func label(labels map[string]string) func(string) string {
	return func(value string) string {
		if l, ok := labels[value]; ok {
			return l
		}
		return value
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("02/01/2006")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func mustParseTemplates() *template.Template {
	funcs := template.FuncMap{
		"clientStatus":  label(clientStatusLabels),
		"projectStatus": label(projectStatusLabels),
		"taskStatus":    label(taskStatusLabels),
		"priority":      label(priorityLabels),
		"formatDate":    formatDate,
		"deref":         deref,
		"join":          strings.Join,
		"year":          func() int { return time.Now().Year() },
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html"))
}
