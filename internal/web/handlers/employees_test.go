package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/face-clock/internal/database/mock"
)

func TestEmployeesHandler_List(t *testing.T) {
	t.Run("returns roster newest first", func(t *testing.T) {
		store := mock.NewEmployeeStore(128)
		seedEmployee(t, store, 1, "Alice", 0.1)
		seedEmployee(t, store, 1, "Bob", 0.2)
		handler := NewEmployeesHandler(store)

		req := requestWithSession(t, http.MethodGet, "/api/v1/employees", nil, 1)
		recorder := httptest.NewRecorder()
		handler.List(recorder, req)

		assertStatusCode(t, recorder, http.StatusOK)

		var employees []EmployeeResponse
		parseJSONResponse(t, recorder, &employees)
		if len(employees) != 2 {
			t.Fatalf("expected 2 employees, got %d", len(employees))
		}
		if employees[0].Name != "Bob" || employees[1].Name != "Alice" {
			t.Errorf("expected [Bob, Alice], got [%s, %s]", employees[0].Name, employees[1].Name)
		}
	})

	t.Run("hides other companies", func(t *testing.T) {
		store := mock.NewEmployeeStore(128)
		seedEmployee(t, store, 1, "Alice", 0.1)
		seedEmployee(t, store, 2, "Eve", 0.2)
		handler := NewEmployeesHandler(store)

		req := requestWithSession(t, http.MethodGet, "/api/v1/employees", nil, 1)
		recorder := httptest.NewRecorder()
		handler.List(recorder, req)

		assertStatusCode(t, recorder, http.StatusOK)

		var employees []EmployeeResponse
		parseJSONResponse(t, recorder, &employees)
		if len(employees) != 1 {
			t.Fatalf("expected 1 employee, got %d", len(employees))
		}
		if employees[0].Name != "Alice" {
			t.Errorf("expected Alice, got %s", employees[0].Name)
		}
	})

	t.Run("filters by normalized name query", func(t *testing.T) {
		store := mock.NewEmployeeStore(128)
		seedEmployee(t, store, 1, "José García", 0.1)
		seedEmployee(t, store, 1, "Suzuki Taro", 0.2)
		handler := NewEmployeesHandler(store)

		req := requestWithSession(t, http.MethodGet, "/api/v1/employees?q=jose", nil, 1)
		recorder := httptest.NewRecorder()
		handler.List(recorder, req)

		assertStatusCode(t, recorder, http.StatusOK)

		var employees []EmployeeResponse
		parseJSONResponse(t, recorder, &employees)
		if len(employees) != 1 {
			t.Fatalf("expected 1 employee, got %d", len(employees))
		}
		if employees[0].Name != "José García" {
			t.Errorf("expected José García, got %s", employees[0].Name)
		}
	})

	t.Run("returns empty array not null", func(t *testing.T) {
		store := mock.NewEmployeeStore(128)
		handler := NewEmployeesHandler(store)

		req := requestWithSession(t, http.MethodGet, "/api/v1/employees", nil, 1)
		recorder := httptest.NewRecorder()
		handler.List(recorder, req)

		assertStatusCode(t, recorder, http.StatusOK)
		if recorder.Body.String() == "null\n" {
			t.Error("expected empty JSON array, got null")
		}
	})

	t.Run("without session", func(t *testing.T) {
		handler := NewEmployeesHandler(mock.NewEmployeeStore(128))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
		recorder := httptest.NewRecorder()
		handler.List(recorder, req)

		assertStatusCode(t, recorder, http.StatusUnauthorized)
	})

	t.Run("storage error", func(t *testing.T) {
		store := mock.NewEmployeeStore(128)
		store.ListError = errors.New("connection refused")
		handler := NewEmployeesHandler(store)

		req := requestWithSession(t, http.MethodGet, "/api/v1/employees", nil, 1)
		recorder := httptest.NewRecorder()
		handler.List(recorder, req)

		assertStatusCode(t, recorder, http.StatusInternalServerError)
		assertJSONError(t, recorder, "internal error")
	})
}

func TestEmployeesHandler_Descriptors(t *testing.T) {
	t.Run("returns descriptors for matching", func(t *testing.T) {
		store := mock.NewEmployeeStore(128)
		alice := seedEmployee(t, store, 1, "Alice", 0.1)
		seedEmployee(t, store, 2, "Eve", 0.9)
		handler := NewEmployeesHandler(store)

		req := requestWithSession(t, http.MethodGet, "/api/v1/employees/descriptors", nil, 1)
		recorder := httptest.NewRecorder()
		handler.Descriptors(recorder, req)

		assertStatusCode(t, recorder, http.StatusOK)

		var descriptors []DescriptorResponse
		parseJSONResponse(t, recorder, &descriptors)
		if len(descriptors) != 1 {
			t.Fatalf("expected 1 descriptor, got %d", len(descriptors))
		}
		if descriptors[0].ID != alice.ID {
			t.Errorf("expected id %d, got %d", alice.ID, descriptors[0].ID)
		}
		if len(descriptors[0].Descriptor) != 128 {
			t.Errorf("expected 128 components, got %d", len(descriptors[0].Descriptor))
		}
	})
}

func TestEmployeesHandler_Register(t *testing.T) {
	t.Run("registers employee", func(t *testing.T) {
		store := mock.NewEmployeeStore(128)
		handler := NewEmployeesHandler(store)

		body := jsonBody(t, map[string]any{
			"name":      "Alice",
			"embedding": testEmbedding(0.1),
		})
		req := requestWithSession(t, http.MethodPost, "/api/v1/employees", body, 1)
		recorder := httptest.NewRecorder()
		handler.Register(recorder, req)

		assertStatusCode(t, recorder, http.StatusCreated)

		var emp EmployeeResponse
		parseJSONResponse(t, recorder, &emp)
		if emp.Name != "Alice" {
			t.Errorf("expected Alice, got %s", emp.Name)
		}
		if emp.ID == 0 {
			t.Error("expected a non-zero employee id")
		}
	})

	t.Run("rejects wrong descriptor length", func(t *testing.T) {
		store := mock.NewEmployeeStore(128)
		handler := NewEmployeesHandler(store)

		body := jsonBody(t, map[string]any{
			"name":      "Alice",
			"embedding": []float32{0.1, 0.2},
		})
		req := requestWithSession(t, http.MethodPost, "/api/v1/employees", body, 1)
		recorder := httptest.NewRecorder()
		handler.Register(recorder, req)

		assertStatusCode(t, recorder, http.StatusBadRequest)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		store := mock.NewEmployeeStore(128)
		handler := NewEmployeesHandler(store)

		body := jsonBody(t, map[string]any{
			"embedding": testEmbedding(0.1),
		})
		req := requestWithSession(t, http.MethodPost, "/api/v1/employees", body, 1)
		recorder := httptest.NewRecorder()
		handler.Register(recorder, req)

		assertStatusCode(t, recorder, http.StatusBadRequest)
	})

	t.Run("rejects invalid body", func(t *testing.T) {
		handler := NewEmployeesHandler(mock.NewEmployeeStore(128))

		req := requestWithSession(t, http.MethodPost, "/api/v1/employees", jsonBody(t, "not-an-object"), 1)
		recorder := httptest.NewRecorder()
		handler.Register(recorder, req)

		assertStatusCode(t, recorder, http.StatusBadRequest)
		assertJSONError(t, recorder, errInvalidRequestBody)
	})
}

func TestEmployeesHandler_Delete(t *testing.T) {
	t.Run("deletes own employee", func(t *testing.T) {
		store := mock.NewEmployeeStore(128)
		alice := seedEmployee(t, store, 1, "Alice", 0.1)
		handler := NewEmployeesHandler(store)

		req := requestWithSession(t, http.MethodDelete, "/api/v1/employees/1", nil, 1)
		req = requestWithChiParams(req, map[string]string{"id": "1"})
		recorder := httptest.NewRecorder()
		handler.Delete(recorder, req)

		assertStatusCode(t, recorder, http.StatusOK)

		if _, err := store.Get(req.Context(), 1, alice.ID); err == nil {
			t.Error("expected employee to be gone after delete")
		}
	})

	t.Run("cannot delete another company's employee", func(t *testing.T) {
		store := mock.NewEmployeeStore(128)
		seedEmployee(t, store, 2, "Eve", 0.1)
		handler := NewEmployeesHandler(store)

		req := requestWithSession(t, http.MethodDelete, "/api/v1/employees/1", nil, 1)
		req = requestWithChiParams(req, map[string]string{"id": "1"})
		recorder := httptest.NewRecorder()
		handler.Delete(recorder, req)

		assertStatusCode(t, recorder, http.StatusNotFound)
		assertJSONError(t, recorder, "not found")
	})

	t.Run("invalid id", func(t *testing.T) {
		handler := NewEmployeesHandler(mock.NewEmployeeStore(128))

		req := requestWithSession(t, http.MethodDelete, "/api/v1/employees/abc", nil, 1)
		req = requestWithChiParams(req, map[string]string{"id": "abc"})
		recorder := httptest.NewRecorder()
		handler.Delete(recorder, req)

		assertStatusCode(t, recorder, http.StatusBadRequest)
	})
}
