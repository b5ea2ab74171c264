package models

import (
	"math"
	"time"
)

const (
	ProjectStatusPlanning   = "planning"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusPaused     = "paused"
	ProjectStatusCompleted  = "completed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Project struct {
	ID          string
	Name        string
	Description *string
	Status      string
	Priority    string
	StartDate   *time.Time
	DueDate     *time.Time
	ClientID    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Populated only by queries that load relations.
	Client *Client
	Tasks  []*Task
}

// Progress returns the share of completed tasks as a whole percentage.
func (p *Project) Progress() int {
	if len(p.Tasks) == 0 {
		return 0
	}

	completed := 0
	for _, task := range p.Tasks {
		if task.Status == TaskStatusCompleted {
			completed++
		}
	}
	return int(math.Round(float64(completed) * 100 / float64(len(p.Tasks))))
}
