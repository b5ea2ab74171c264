package v1

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
)

func TestHandler_Clients(t *testing.T) {
	router, store := newTestRouter(t)

	t.Run("should apply defaults on create", func(t *testing.T) {
		client := createClient(t, router, `{"name":"Ana","email":"ana@example.com","company":""}`)
		if client.Status != "novo" {
			t.Fatalf("\nwanted:\n%s\ngot:\n%s", "novo", client.Status)
		}
		if client.Company != nil || client.Phone != nil || client.Notes != nil {
			t.Fatalf("expected empty optional fields to be null, got %+v", client)
		}
		if client.Tags == nil || len(client.Tags) != 0 {
			t.Fatalf("\nwanted:\n[]\ngot:\n%v", client.Tags)
		}
	})

	t.Run("should accept tags as a comma separated string", func(t *testing.T) {
		client := createClient(t, router, `{"name":"Bia","email":"bia@example.com","tags":"vip, recorrente"}`)
		if len(client.Tags) != 2 || client.Tags[0] != "vip" || client.Tags[1] != "recorrente" {
			t.Fatalf("\nwanted:\n[vip recorrente]\ngot:\n%v", client.Tags)
		}
	})

	t.Run("should reject a client without email", func(t *testing.T) {
		before := doRequest(t, router, http.MethodGet, "/api/v1/clients", "")
		w := doRequest(t, router, http.MethodPost, "/api/v1/clients", `{"name":"Caio"}`)
		assertError(t, w, http.StatusBadRequest, msgClientFieldsRequired)

		after := doRequest(t, router, http.MethodGet, "/api/v1/clients", "")
		if len(decode[[]clientResponse](t, before)) != len(decode[[]clientResponse](t, after)) {
			t.Fatalf("rejected client was persisted")
		}
	})

	t.Run("should reject a body that is not json", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/v1/clients", `name=Caio`)
		assertError(t, w, http.StatusBadRequest, msgClientFieldsRequired)
	})

	t.Run("should list newest first", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/clients", "")
		assertStatus(t, w, http.StatusOK)

		clients := decode[[]clientResponse](t, w)
		if len(clients) != 2 {
			t.Fatalf("\nwanted:\n%d\ngot:\n%d", 2, len(clients))
		}
		if clients[0].Name != "Bia" || clients[1].Name != "Ana" {
			t.Fatalf("\nwanted:\n[Bia Ana]\ngot:\n[%s %s]", clients[0].Name, clients[1].Name)
		}
	})

	t.Run("should get a client by id", func(t *testing.T) {
		created := createClient(t, router, `{"name":"Davi","email":"davi@example.com"}`)

		w := doRequest(t, router, http.MethodGet, "/api/v1/clients/"+created.ID, "")
		assertStatus(t, w, http.StatusOK)
		if got := decode[clientResponse](t, w); got.ID != created.ID {
			t.Fatalf("\nwanted:\n%s\ngot:\n%s", created.ID, got.ID)
		}
	})

	t.Run("should return not found for an unknown id", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/clients/"+uuid.NewString(), "")
		assertError(t, w, http.StatusNotFound, msgClientNotFound)
	})

	t.Run("should update only the given fields", func(t *testing.T) {
		created := createClient(t, router, `{"name":"Eva","email":"eva@example.com","phone":"11 99999-0000"}`)

		w := doRequest(t, router, http.MethodPut, "/api/v1/clients",
			`{"id":"`+created.ID+`","status":"ativo","tags":["vip"]}`)
		assertStatus(t, w, http.StatusOK)

		got := decode[clientResponse](t, w)
		if got.Status != "ativo" || got.Name != "Eva" || got.Email != "eva@example.com" {
			t.Fatalf("unexpected update result: %+v", got)
		}
		if got.Phone == nil || *got.Phone != "11 99999-0000" {
			t.Fatalf("phone was overwritten: %v", got.Phone)
		}
		if len(got.Tags) != 1 || got.Tags[0] != "vip" {
			t.Fatalf("\nwanted:\n[vip]\ngot:\n%v", got.Tags)
		}
	})

	t.Run("should clear optional fields sent empty on update", func(t *testing.T) {
		created := createClient(t, router, `{"name":"Fabi","email":"fabi@example.com","company":"Acme","notes":"antigo"}`)

		w := doRequest(t, router, http.MethodPut, "/api/v1/clients",
			`{"id":"`+created.ID+`","company":""}`)
		assertStatus(t, w, http.StatusOK)

		got := decode[clientResponse](t, w)
		if got.Company != nil {
			t.Fatalf("\nwanted:\nnil company\ngot:\n%q", *got.Company)
		}
		if got.Notes == nil || *got.Notes != "antigo" {
			t.Fatalf("notes were overwritten: %v", got.Notes)
		}
	})

	t.Run("should tell malformed tags from missing fields", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/v1/clients",
			`{"name":"Gil","email":"gil@example.com","tags":5}`)
		assertError(t, w, http.StatusBadRequest, msgInvalidTags)

		created := createClient(t, router, `{"name":"Gil","email":"gil@example.com"}`)
		w = doRequest(t, router, http.MethodPut, "/api/v1/clients",
			`{"id":"`+created.ID+`","tags":{"vip":true}}`)
		assertError(t, w, http.StatusBadRequest, msgInvalidTags)
	})

	t.Run("should require an id on update", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPut, "/api/v1/clients", `{"name":"Eva"}`)
		assertError(t, w, http.StatusBadRequest, msgClientIDRequired)
	})

	t.Run("should fail to update an unknown client", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPut, "/api/v1/clients", `{"id":"`+uuid.NewString()+`","name":"X"}`)
		assertError(t, w, http.StatusInternalServerError, msgUpdateClientFailed)
	})

	t.Run("should report a store failure", func(t *testing.T) {
		store.Err = errors.New("connection refused")
		defer func() { store.Err = nil }()

		w := doRequest(t, router, http.MethodGet, "/api/v1/clients", "")
		assertError(t, w, http.StatusInternalServerError, msgFetchClientsFailed)

		w = doRequest(t, router, http.MethodPost, "/api/v1/clients", `{"name":"Ana","email":"ana@example.com"}`)
		assertError(t, w, http.StatusInternalServerError, msgCreateClientFailed)
	})
}
