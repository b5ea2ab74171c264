package v1

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHandler_Tasks(t *testing.T) {
	router, store := newTestRouter(t)
	client := createClient(t, router, `{"name":"Ana","email":"ana@example.com"}`)
	project := createProject(t, router, `{"name":"Site","clientId":"`+client.ID+`"}`)
	assignee := store.AddUser("Carla", "carla@example.com")

	t.Run("should apply defaults on create", func(t *testing.T) {
		task := createTask(t, router, `{"title":"Briefing","projectId":"`+project.ID+`","assignedToId":""}`)
		if task.Status != "pending" || task.Priority != "medium" || task.Description != "" {
			t.Fatalf("unexpected defaults: %+v", task)
		}
		if task.AssignedToID != nil {
			t.Fatalf("\nwanted:\n<nil>\ngot:\n%v", *task.AssignedToID)
		}
	})

	t.Run("should reject a task without project", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/v1/tasks", `{"title":"Briefing"}`)
		assertError(t, w, http.StatusBadRequest, msgTaskFieldsRequired)
	})

	t.Run("should fail for an unknown project", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/v1/tasks",
			`{"title":"Briefing","projectId":"`+uuid.NewString()+`"}`)
		assertError(t, w, http.StatusInternalServerError, msgCreateTaskFailed)
	})

	t.Run("should attach project and assignee summaries", func(t *testing.T) {
		createTask(t, router, `{"title":"Layout","projectId":"`+project.ID+`","assignedToId":"`+assignee.ID+`","dueDate":"2025-05-01"}`)

		w := doRequest(t, router, http.MethodGet, "/api/v1/tasks", "")
		assertStatus(t, w, http.StatusOK)

		tasks := decode[[]taskWithRelationsResponse](t, w)
		if len(tasks) != 2 {
			t.Fatalf("\nwanted:\n%d\ngot:\n%d", 2, len(tasks))
		}
		first := tasks[0]
		if first.Title != "Layout" {
			t.Fatalf("dated task should come first, got %s", first.Title)
		}
		if first.Project == nil || first.Project.Name != "Site" || first.Project.ClientID == nil {
			t.Fatalf("unexpected project summary: %+v", first.Project)
		}
		if first.AssignedTo == nil || first.AssignedTo.Name != "Carla" {
			t.Fatalf("unexpected assignee: %+v", first.AssignedTo)
		}
		if tasks[1].AssignedTo != nil {
			t.Fatalf("unassigned task has an assignee: %+v", tasks[1].AssignedTo)
		}
	})

	t.Run("should update only the given fields", func(t *testing.T) {
		task := createTask(t, router,
			`{"title":"Revisão","description":"v1","projectId":"`+project.ID+`","assignedToId":"`+assignee.ID+`","dueDate":"2025-07-01"}`)

		w := doRequest(t, router, http.MethodPut, "/api/v1/tasks", `{"id":"`+task.ID+`","status":"completed","title":null}`)
		assertStatus(t, w, http.StatusOK)

		got := decode[taskResponse](t, w)
		if got.Status != "completed" || got.Title != "Revisão" || got.Description != "v1" {
			t.Fatalf("unexpected update result: %+v", got)
		}
		want := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
		if got.DueDate == nil || !got.DueDate.Equal(want) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got.DueDate)
		}
		if got.AssignedToID == nil || *got.AssignedToID != assignee.ID {
			t.Fatalf("assignee was cleared")
		}
	})

	t.Run("should clear due date and assignee given empty strings", func(t *testing.T) {
		task := createTask(t, router,
			`{"title":"Entrega","projectId":"`+project.ID+`","assignedToId":"`+assignee.ID+`","dueDate":"2025-08-01"}`)

		w := doRequest(t, router, http.MethodPut, "/api/v1/tasks", `{"id":"`+task.ID+`","dueDate":"","assignedToId":""}`)
		assertStatus(t, w, http.StatusOK)

		got := decode[taskResponse](t, w)
		if got.DueDate != nil || got.AssignedToID != nil {
			t.Fatalf("expected cleared columns, got %+v", got)
		}
	})

	t.Run("should require an id on update", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPut, "/api/v1/tasks", `{"title":"X"}`)
		assertError(t, w, http.StatusBadRequest, msgTaskIDRequired)
	})

	t.Run("should fail to update an unknown task", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPut, "/api/v1/tasks", `{"id":"`+uuid.NewString()+`","title":"X"}`)
		assertError(t, w, http.StatusInternalServerError, msgUpdateTaskFailed)
	})

	t.Run("should delete a task", func(t *testing.T) {
		task := createTask(t, router, `{"title":"Descartar","projectId":"`+project.ID+`"}`)

		w := doRequest(t, router, http.MethodDelete, "/api/v1/tasks?id="+task.ID, "")
		assertStatus(t, w, http.StatusOK)
		if got := decode[map[string]string](t, w); got["message"] != msgTaskDeleted {
			t.Fatalf("\nwanted:\n%s\ngot:\n%s", msgTaskDeleted, got["message"])
		}

		w = doRequest(t, router, http.MethodGet, "/api/v1/tasks", "")
		for _, remaining := range decode[[]taskWithRelationsResponse](t, w) {
			if remaining.ID == task.ID {
				t.Fatalf("deleted task is still listed")
			}
		}

		w = doRequest(t, router, http.MethodDelete, "/api/v1/tasks?id="+task.ID, "")
		assertError(t, w, http.StatusInternalServerError, msgDeleteTaskFailed)
	})

	t.Run("should require an id on delete", func(t *testing.T) {
		w := doRequest(t, router, http.MethodDelete, "/api/v1/tasks", "")
		assertError(t, w, http.StatusBadRequest, msgTaskIDRequired)
	})
}
