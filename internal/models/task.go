package models

import "time"

const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

type Task struct {
	ID           string
	Title        string
	Description  string
	Status       string
	Priority     string
	DueDate      *time.Time
	ProjectID    string
	AssignedToID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Project    *ProjectSummary
	AssignedTo *UserSummary
}

type ProjectSummary struct {
	ID       string
	Name     string
	ClientID *string
}
