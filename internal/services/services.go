package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/go-crm/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrClientNotFound       = errors.New("client not found")
	ErrProjectNotFound      = errors.New("project not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrAssigneeNotFound     = errors.New("assignee not found")
)

type AuthService interface {
	// Login authenticates the user by email and password.
	//
	// It deletes all sessions with the same user ID and creates
	// a new session and generates a new JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given
	// email doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the user's password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh updates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register a user with the given name, email and password.
	//
	// It hashes the password, generates a unique ID and creates a
	// session with the given fingerprint and a fresh JWT token pair.
	//
	// It returns ErrUserAlreadyExists if the user
	// with the given email already exists.
	Register(ctx context.Context, params RegisterParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
}

type UserService interface {
	// GetAssignees returns every user that a task can be assigned to,
	// ordered by name.
	GetAssignees(ctx context.Context) ([]*models.UserSummary, error)
}

type ClientService interface {
	// GetClients returns all clients, newest first.
	GetClients(ctx context.Context) ([]*models.Client, error)

	// GetClientByID returns ErrClientNotFound if there is no
	// client with the given ID or the ID is not a valid UUID.
	GetClientByID(ctx context.Context, clientID string) (*models.Client, error)

	CreateClient(ctx context.Context, params CreateClientParams) (*models.Client, error)

	// UpdateClient overwrites the non-nil fields of params.
	//
	// It returns ErrClientNotFound if there is no such client.
	UpdateClient(ctx context.Context, params UpdateClientParams) (*models.Client, error)
}

type ProjectService interface {
	// GetProjects returns all projects, newest first, with their
	// client and tasks loaded.
	GetProjects(ctx context.Context) ([]*models.Project, error)

	// GetProjectByID loads the project with its client and its tasks
	// ordered by due date.
	//
	// It returns ErrProjectNotFound if there is no such project.
	GetProjectByID(ctx context.Context, projectID string) (*models.Project, error)

	// CreateProject returns ErrClientNotFound if the referenced
	// client doesn't exist.
	CreateProject(ctx context.Context, params CreateProjectParams) (*models.Project, error)
}

type TaskService interface {
	// GetTasks returns all tasks ordered by due date, undated last,
	// with project and assignee summaries attached.
	GetTasks(ctx context.Context) ([]*models.Task, error)

	// CreateTask returns ErrProjectNotFound or ErrAssigneeNotFound
	// if a referenced row doesn't exist.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// UpdateTask overwrites the fields of params that are set and
	// leaves the rest untouched.
	//
	// It returns ErrTaskNotFound if there is no such task.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// DeleteTask returns ErrTaskNotFound if nothing was deleted.
	DeleteTask(ctx context.Context, taskID string) error
}

type DashboardService interface {
	GetStats(ctx context.Context) (*models.DashboardStats, error)
}

type LoginParams struct {
	Email       string
	Password    string
	Fingerprint string
}

type RegisterParams struct {
	Name string
	LoginParams
}

type LoginResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}

type CreateClientParams struct {
	Name    string
	Company *string
	Email   string
	Phone   *string
	Status  string
	Notes   *string
	Tags    []string
}

// UpdateClientParams leaves nil fields untouched. An empty Company,
// Phone or Notes clears the column.
type UpdateClientParams struct {
	ID      string
	Name    *string
	Company *string
	Email   *string
	Phone   *string
	Status  *string
	Notes   *string
	Tags    []string
}

type CreateProjectParams struct {
	Name        string
	Description *string
	ClientID    string
	Status      string
	Priority    string
	StartDate   *time.Time
	DueDate     *time.Time
}

type CreateTaskParams struct {
	Title        string
	Description  string
	ProjectID    string
	AssignedToID *string
	Priority     string
	Status       string
	DueDate      *time.Time
}

// UpdateTaskParams carries a partial update. Nil pointers leave
// the column as is. SetAssignedTo and SetDueDate switch the nullable
// columns to the paired value, which may itself be nil to clear them.
type UpdateTaskParams struct {
	ID          string
	Title       *string
	Description *string
	ProjectID   *string
	Priority    *string
	Status      *string

	SetAssignedTo bool
	AssignedToID  *string

	SetDueDate bool
	DueDate    *time.Time
}

// Services bundles the implementations the HTTP layers depend on.
type Services struct {
	Auth      AuthService
	Sessions  SessionService
	Users     UserService
	Clients   ClientService
	Projects  ProjectService
	Tasks     TaskService
	Dashboard DashboardService
}
