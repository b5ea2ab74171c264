//go:build e2e

package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/adanyl0v/go-crm/internal/migrations"
	"github.com/adanyl0v/go-crm/internal/models"
)

func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "crm",
			"POSTGRES_PASSWORD": "secret",
			"POSTGRES_DB":       "crm",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(90 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })

	host, err := pgC.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := pgC.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	connURL := fmt.Sprintf("postgres://crm:secret@%s:%s/crm?sslmode=disable", host, port.Port())
	pool, err := pgxpool.New(ctx, connURL)
	if err != nil {
		t.Fatalf("pgxpool.New() failed: %v", err)
	}
	t.Cleanup(pool.Close)

	err = migrations.Up(ctx, zerolog.Nop(), pool)
	if err != nil {
		t.Fatalf("migrations.Up() failed: %v", err)
	}
	return pool
}

func ptr[T any](v T) *T {
	return &v
}

func mustCreateClient(t *testing.T, s ClientService, name string) *models.Client {
	t.Helper()

	client, err := s.CreateClient(context.Background(), CreateClientParams{
		Name:  name,
		Email: name + "@example.com",
	})
	if err != nil {
		t.Fatalf("creating client %s: %v", name, err)
	}
	return client
}

func mustCreateProject(t *testing.T, s ProjectService, clientID, name string) *models.Project {
	t.Helper()

	project, err := s.CreateProject(context.Background(), CreateProjectParams{
		Name:     name,
		ClientID: clientID,
	})
	if err != nil {
		t.Fatalf("creating project %s: %v", name, err)
	}
	return project
}

func TestServices_Postgres(t *testing.T) {
	pool := setupTestPool(t)
	logger := zerolog.Nop()
	ctx := context.Background()

	clients := NewClientService(logger, pool)
	projects := NewProjectService(logger, pool)
	tasks := NewTaskService(logger, pool)
	dashboard := NewDashboardService(logger, pool)
	users := NewUserService(logger, pool)
	auth := NewAuthService(logger, pool, "go-crm-test", []byte("key"), time.Minute, time.Hour)

	t.Run("should default client status and tags", func(t *testing.T) {
		client := mustCreateClient(t, clients, "defaults")

		got, err := clients.GetClientByID(ctx, client.ID)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if got.Status != models.ClientStatusNew {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", models.ClientStatusNew, got.Status)
		}
		if got.Tags == nil || len(got.Tags) != 0 {
			t.Fatalf("\nwanted:\nempty tags\ngot:\n%v", got.Tags)
		}
		if got.Company != nil {
			t.Fatalf("\nwanted:\nnil company\ngot:\n%v", *got.Company)
		}
	})

	t.Run("should list clients newest first", func(t *testing.T) {
		first := mustCreateClient(t, clients, "older")
		time.Sleep(5 * time.Millisecond)
		second := mustCreateClient(t, clients, "newer")

		got, err := clients.GetClients(ctx)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		indexOf := func(id string) int {
			for i, c := range got {
				if c.ID == id {
					return i
				}
			}
			return -1
		}
		if indexOf(second.ID) > indexOf(first.ID) {
			t.Fatalf("\nwanted:\n%s before %s\ngot:\n%v", second.ID, first.ID, got)
		}
	})

	t.Run("should return ErrClientNotFound for unknown or malformed ids", func(t *testing.T) {
		id, _ := newID()
		for _, clientID := range []string{id, "not-a-uuid"} {
			_, err := clients.GetClientByID(ctx, clientID)
			if !errors.Is(err, ErrClientNotFound) {
				t.Fatalf("\nwanted:\n%v\ngot:\n%v", ErrClientNotFound, err)
			}
		}
	})

	t.Run("should update only the given client fields", func(t *testing.T) {
		client := mustCreateClient(t, clients, "partial")

		got, err := clients.UpdateClient(ctx, UpdateClientParams{
			ID:     client.ID,
			Status: ptr(models.ClientStatusActive),
		})
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if got.Status != models.ClientStatusActive {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", models.ClientStatusActive, got.Status)
		}
		if got.Name != client.Name || got.Email != client.Email {
			t.Fatalf("\nwanted:\n%s %s\ngot:\n%s %s", client.Name, client.Email, got.Name, got.Email)
		}
	})

	t.Run("should clear optional client fields set to empty", func(t *testing.T) {
		client, err := clients.CreateClient(ctx, CreateClientParams{
			Name:    "clearable",
			Company: ptr("Acme"),
			Email:   "clearable@example.com",
			Phone:   ptr("11 97777-0000"),
		})
		if err != nil {
			t.Fatalf("creating client: %v", err)
		}

		got, err := clients.UpdateClient(ctx, UpdateClientParams{
			ID:      client.ID,
			Company: ptr(""),
		})
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if got.Company != nil {
			t.Fatalf("\nwanted:\nnil company\ngot:\n%q", *got.Company)
		}
		if got.Phone == nil || *got.Phone != "11 97777-0000" {
			t.Fatalf("\nwanted:\nphone kept\ngot:\n%v", got.Phone)
		}
	})

	t.Run("should reject a project for an unknown client", func(t *testing.T) {
		id, _ := newID()
		_, err := projects.CreateProject(ctx, CreateProjectParams{
			Name:     "orphan",
			ClientID: id,
		})
		if !errors.Is(err, ErrClientNotFound) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", ErrClientNotFound, err)
		}
	})

	t.Run("should load project client and tasks", func(t *testing.T) {
		client := mustCreateClient(t, clients, "with-projects")
		project := mustCreateProject(t, projects, client.ID, "website")
		if project.Status != models.ProjectStatusPlanning || project.Priority != models.PriorityMedium {
			t.Fatalf("\nwanted:\nplanning/medium\ngot:\n%s/%s", project.Status, project.Priority)
		}

		later := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
		sooner := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		for _, p := range []CreateTaskParams{
			{Title: "undated", ProjectID: project.ID},
			{Title: "later", ProjectID: project.ID, DueDate: &later},
			{Title: "sooner", ProjectID: project.ID, DueDate: &sooner},
		} {
			_, err := tasks.CreateTask(ctx, p)
			if err != nil {
				t.Fatalf("creating task %s: %v", p.Title, err)
			}
		}

		got, err := projects.GetProjectByID(ctx, project.ID)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if got.Client == nil || got.Client.ID != client.ID {
			t.Fatalf("\nwanted:\nclient %s\ngot:\n%v", client.ID, got.Client)
		}

		want := []string{"sooner", "later", "undated"}
		if len(got.Tasks) != len(want) {
			t.Fatalf("\nwanted:\n%d tasks\ngot:\n%d", len(want), len(got.Tasks))
		}
		for i, title := range want {
			if got.Tasks[i].Title != title {
				t.Fatalf("\nwanted:\n%q at %d\ngot:\n%q", title, i, got.Tasks[i].Title)
			}
		}

		all, err := projects.GetProjects(ctx)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if all[0].ID != project.ID {
			t.Fatalf("\nwanted:\n%s first\ngot:\n%s", project.ID, all[0].ID)
		}
		if len(all[0].Tasks) != 3 {
			t.Fatalf("\nwanted:\n3\ngot:\n%d", len(all[0].Tasks))
		}
	})

	t.Run("should keep untouched task fields on a partial update", func(t *testing.T) {
		client := mustCreateClient(t, clients, "partial-task")
		project := mustCreateProject(t, projects, client.ID, "campaign")
		due := time.Date(2031, 5, 1, 0, 0, 0, 0, time.UTC)

		task, err := tasks.CreateTask(ctx, CreateTaskParams{
			Title:       "write copy",
			Description: "landing page",
			ProjectID:   project.ID,
			Priority:    models.PriorityHigh,
			DueDate:     &due,
		})
		if err != nil {
			t.Fatalf("creating task: %v", err)
		}

		got, err := tasks.UpdateTask(ctx, UpdateTaskParams{
			ID:     task.ID,
			Status: ptr(models.TaskStatusCompleted),
		})
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if got.Status != models.TaskStatusCompleted {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", models.TaskStatusCompleted, got.Status)
		}
		if got.Title != task.Title || got.Description != task.Description || got.Priority != task.Priority {
			t.Fatalf("\nwanted:\n%+v\ngot:\n%+v", task, got)
		}
		if got.DueDate == nil || !got.DueDate.Equal(due) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", due, got.DueDate)
		}

		got, err = tasks.UpdateTask(ctx, UpdateTaskParams{
			ID:         task.ID,
			SetDueDate: true,
		})
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if got.DueDate != nil {
			t.Fatalf("\nwanted:\nnil due date\ngot:\n%v", got.DueDate)
		}
	})

	t.Run("should delete a task once", func(t *testing.T) {
		client := mustCreateClient(t, clients, "delete-task")
		project := mustCreateProject(t, projects, client.ID, "cleanup")

		task, err := tasks.CreateTask(ctx, CreateTaskParams{Title: "temporary", ProjectID: project.ID})
		if err != nil {
			t.Fatalf("creating task: %v", err)
		}

		err = tasks.DeleteTask(ctx, task.ID)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		all, err := tasks.GetTasks(ctx)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		for _, other := range all {
			if other.ID == task.ID {
				t.Fatalf("\nwanted:\ntask %s gone\ngot:\nstill listed", task.ID)
			}
		}

		err = tasks.DeleteTask(ctx, task.ID)
		if !errors.Is(err, ErrTaskNotFound) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", ErrTaskNotFound, err)
		}
	})

	t.Run("should attach assignee summaries to tasks", func(t *testing.T) {
		result, err := auth.Register(ctx, RegisterParams{
			Name: "Ana",
			LoginParams: LoginParams{
				Email:       "ana@agency.test",
				Password:    "password",
				Fingerprint: "fp",
			},
		})
		if err != nil {
			t.Fatalf("registering user: %v", err)
		}

		client := mustCreateClient(t, clients, "assigned")
		project := mustCreateProject(t, projects, client.ID, "assigned")
		task, err := tasks.CreateTask(ctx, CreateTaskParams{
			Title:        "review",
			ProjectID:    project.ID,
			AssignedToID: &result.UserID,
		})
		if err != nil {
			t.Fatalf("creating task: %v", err)
		}

		all, err := tasks.GetTasks(ctx)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		for _, got := range all {
			if got.ID != task.ID {
				continue
			}
			if got.AssignedTo == nil || got.AssignedTo.Name != "Ana" {
				t.Fatalf("\nwanted:\nassignee Ana\ngot:\n%+v", got.AssignedTo)
			}
			if got.Project == nil || got.Project.Name != "assigned" {
				t.Fatalf("\nwanted:\nproject assigned\ngot:\n%+v", got.Project)
			}
		}

		assignees, err := users.GetAssignees(ctx)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if len(assignees) == 0 {
			t.Fatalf("\nwanted:\nat least one assignee\ngot:\nnone")
		}

		_, err = auth.Register(ctx, RegisterParams{
			Name:        "Ana again",
			LoginParams: LoginParams{Email: "ana@agency.test", Password: "password"},
		})
		if !errors.Is(err, ErrUserAlreadyExists) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", ErrUserAlreadyExists, err)
		}

		_, err = auth.Login(ctx, LoginParams{Email: "ana@agency.test", Password: "wrong"})
		if !errors.Is(err, ErrUserPasswordMismatch) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", ErrUserPasswordMismatch, err)
		}
	})

	t.Run("should list projects newest first", func(t *testing.T) {
		client := mustCreateClient(t, clients, "project-order")
		older := mustCreateProject(t, projects, client.ID, "older")
		time.Sleep(5 * time.Millisecond)
		newer := mustCreateProject(t, projects, client.ID, "newer")

		all, err := projects.GetProjects(ctx)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if len(all) < 2 || all[0].ID != newer.ID || all[1].ID != older.ID {
			t.Fatalf("\nwanted:\n%s then %s\ngot:\n%v", newer.ID, older.ID, all)
		}
		for i := 1; i < len(all); i++ {
			if all[i].CreatedAt.After(all[i-1].CreatedAt) {
				t.Fatalf("\nwanted:\ncreated_at descending\ngot:\n%v after %v", all[i].CreatedAt, all[i-1].CreatedAt)
			}
		}
	})

	t.Run("should list dated tasks before undated ones", func(t *testing.T) {
		client := mustCreateClient(t, clients, "task-order")
		project := mustCreateProject(t, projects, client.ID, "task-order")
		due := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)

		undated, err := tasks.CreateTask(ctx, CreateTaskParams{Title: "undated", ProjectID: project.ID})
		if err != nil {
			t.Fatalf("creating task: %v", err)
		}
		dated, err := tasks.CreateTask(ctx, CreateTaskParams{Title: "dated", ProjectID: project.ID, DueDate: &due})
		if err != nil {
			t.Fatalf("creating task: %v", err)
		}

		all, err := tasks.GetTasks(ctx)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		datedAt, undatedAt := -1, -1
		seenUndated := false
		for i, task := range all {
			switch task.ID {
			case dated.ID:
				datedAt = i
			case undated.ID:
				undatedAt = i
			}
			if task.DueDate == nil {
				seenUndated = true
			} else if seenUndated {
				t.Fatalf("\nwanted:\nundated tasks last\ngot:\n%q after an undated task", task.Title)
			}
		}
		if datedAt == -1 || undatedAt == -1 || datedAt > undatedAt {
			t.Fatalf("\nwanted:\ndated before undated\ngot:\n%d %d", datedAt, undatedAt)
		}
	})

	t.Run("should count dashboard stats", func(t *testing.T) {
		stats, err := dashboard.GetStats(ctx)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if stats.TotalClients == 0 || stats.TotalProjects == 0 || stats.TotalTasks == 0 {
			t.Fatalf("\nwanted:\nnon-zero totals\ngot:\n%+v", stats)
		}
		if stats.ActiveClients > stats.TotalClients || stats.PendingTasks > stats.TotalTasks {
			t.Fatalf("\nwanted:\nsubsets within totals\ngot:\n%+v", stats)
		}
	})
}
