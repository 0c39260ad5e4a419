package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-clock/internal/database"
	"github.com/kozaktomas/face-clock/internal/facematch"
	"github.com/kozaktomas/face-clock/internal/web/middleware"
)

// EmployeesHandler handles employee registration, listing and deletion.
type EmployeesHandler struct {
	employees database.EmployeeWriter
}

// NewEmployeesHandler creates a new employees handler.
func NewEmployeesHandler(employees database.EmployeeWriter) *EmployeesHandler {
	return &EmployeesHandler{employees: employees}
}

// EmployeeResponse is the JSON shape of a roster entry.
type EmployeeResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	RegisteredAt string `json:"registered_at"`
}

// DescriptorResponse is the JSON shape the kiosk client loads at startup
// for its local matching loop.
type DescriptorResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Descriptor []float32 `json:"descriptor"`
}

type registerRequest struct {
	Name      string    `json:"name"`
	Embedding []float32 `json:"embedding"`
}

// List returns the company's roster, optionally filtered by a ?q= name
// search (case- and diacritic-insensitive).
func (h *EmployeesHandler) List(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	employees, err := h.employees.List(r.Context(), session.CompanyID)
	if err != nil {
		respondStorageError(w, err)
		return
	}

	query := facematch.NormalizeEmployeeName(r.URL.Query().Get("q"))
	out := make([]EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		if query != "" && !strings.Contains(facematch.NormalizeEmployeeName(emp.Name), query) {
			continue
		}
		out = append(out, EmployeeResponse{
			ID:           emp.ID,
			Name:         emp.Name,
			RegisteredAt: emp.CreatedAt.Format(time.RFC3339),
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// Descriptors returns the full (id, name, descriptor) roster for the
// company. The kiosk matches captured frames against this list locally.
func (h *EmployeesHandler) Descriptors(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	descriptors, err := h.employees.ListDescriptors(r.Context(), session.CompanyID)
	if err != nil {
		respondStorageError(w, err)
		return
	}

	out := make([]DescriptorResponse, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, DescriptorResponse{ID: d.ID, Name: d.Name, Descriptor: d.Embedding})
	}
	respondJSON(w, http.StatusOK, out)
}

// Register stores a new employee with its face descriptor.
func (h *EmployeesHandler) Register(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	emp, err := h.employees.Register(r.Context(), session.CompanyID, req.Name, req.Embedding)
	if err != nil {
		respondStorageError(w, err)
		return
	}

	log.Printf("registered employee %q (id %d) for company %d", sanitizeForLog(emp.Name), emp.ID, session.CompanyID)
	respondJSON(w, http.StatusCreated, EmployeeResponse{
		ID:           emp.ID,
		Name:         emp.Name,
		RegisteredAt: emp.CreatedAt.Format(time.RFC3339),
	})
}

// Delete removes an employee and all its attendance records. The repository
// verifies the employee belongs to the caller's company before deleting.
func (h *EmployeesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	if err := h.employees.Delete(r.Context(), session.CompanyID, id); err != nil {
		respondStorageError(w, err)
		return
	}

	log.Printf("deleted employee %d for company %d", id, session.CompanyID)
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
