package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/kozaktomas/face-clock/internal/database"
	"github.com/kozaktomas/face-clock/internal/database/mock"
	"github.com/kozaktomas/face-clock/internal/web/middleware"
)

func authFixtures(t *testing.T) (*mock.AdminStore, *middleware.SessionManager, *AuthHandler) {
	t.Helper()
	admins := mock.NewAdminStore()
	sm := middleware.NewSessionManager("test-secret", nil)
	t.Cleanup(sm.Stop)
	return admins, sm, NewAuthHandler(admins, sm)
}

func seedAdmin(t *testing.T, admins *mock.AdminStore, companyID int64, username, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	admins.Add(database.Admin{
		CompanyID:    companyID,
		Username:     username,
		PasswordHash: string(hash),
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		admins, sm, handler := authFixtures(t)
		seedAdmin(t, admins, 1, "acme-admin", "correct horse")

		body := jsonBody(t, map[string]string{"username": "acme-admin", "password": "correct horse"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
		recorder := httptest.NewRecorder()
		handler.Login(recorder, req)

		assertStatusCode(t, recorder, http.StatusOK)

		var resp LoginResponse
		parseJSONResponse(t, recorder, &resp)
		if !resp.Success {
			t.Fatalf("expected success, got error %q", resp.Error)
		}
		if resp.SessionID == "" {
			t.Fatal("expected a session id")
		}

		session := sm.GetSession(req.Context(), resp.SessionID)
		if session == nil {
			t.Fatal("expected session to exist")
		}
		if session.CompanyID != 1 {
			t.Errorf("expected session scoped to company 1, got %d", session.CompanyID)
		}

		cookies := recorder.Result().Cookies()
		if len(cookies) == 0 {
			t.Error("expected a session cookie")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		admins, _, handler := authFixtures(t)
		seedAdmin(t, admins, 1, "acme-admin", "correct horse")

		body := jsonBody(t, map[string]string{"username": "acme-admin", "password": "wrong"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
		recorder := httptest.NewRecorder()
		handler.Login(recorder, req)

		assertStatusCode(t, recorder, http.StatusUnauthorized)

		var resp LoginResponse
		parseJSONResponse(t, recorder, &resp)
		if resp.Success {
			t.Error("expected failure")
		}
	})

	t.Run("unknown username looks like wrong password", func(t *testing.T) {
		_, _, handler := authFixtures(t)

		body := jsonBody(t, map[string]string{"username": "nobody", "password": "whatever"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
		recorder := httptest.NewRecorder()
		handler.Login(recorder, req)

		assertStatusCode(t, recorder, http.StatusUnauthorized)

		var resp LoginResponse
		parseJSONResponse(t, recorder, &resp)
		if resp.Error != "invalid credentials" {
			t.Errorf("expected generic error, got %q", resp.Error)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		_, _, handler := authFixtures(t)

		body := jsonBody(t, map[string]string{"username": "acme-admin"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
		recorder := httptest.NewRecorder()
		handler.Login(recorder, req)

		assertStatusCode(t, recorder, http.StatusBadRequest)
	})

	t.Run("storage error", func(t *testing.T) {
		admins, _, handler := authFixtures(t)
		admins.GetError = errors.New("connection refused")

		body := jsonBody(t, map[string]string{"username": "acme-admin", "password": "correct horse"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
		recorder := httptest.NewRecorder()
		handler.Login(recorder, req)

		assertStatusCode(t, recorder, http.StatusInternalServerError)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	admins, sm, handler := authFixtures(t)
	seedAdmin(t, admins, 1, "acme-admin", "correct horse")

	session, err := sm.CreateSession(t.Context(), 1, "acme-admin")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+session.ID)
	recorder := httptest.NewRecorder()
	handler.Logout(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	if sm.GetSession(req.Context(), session.ID) != nil {
		t.Error("expected session to be deleted")
	}
}

func TestAuthHandler_Status(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		_, sm, handler := authFixtures(t)
		session, err := sm.CreateSession(t.Context(), 1, "acme-admin")
		if err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/status", nil)
		req.Header.Set("Authorization", "Bearer "+session.ID)
		recorder := httptest.NewRecorder()
		handler.Status(recorder, req)

		assertStatusCode(t, recorder, http.StatusOK)

		var resp StatusResponse
		parseJSONResponse(t, recorder, &resp)
		if !resp.Authenticated {
			t.Error("expected authenticated status")
		}
		if resp.Username != "acme-admin" {
			t.Errorf("expected username acme-admin, got %s", resp.Username)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		_, _, handler := authFixtures(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/status", nil)
		recorder := httptest.NewRecorder()
		handler.Status(recorder, req)

		assertStatusCode(t, recorder, http.StatusOK)

		var resp StatusResponse
		parseJSONResponse(t, recorder, &resp)
		if resp.Authenticated {
			t.Error("expected anonymous status")
		}
	})
}
