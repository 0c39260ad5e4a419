package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kozaktomas/face-clock/internal/database"
	"github.com/kozaktomas/face-clock/internal/facematch"
	"github.com/kozaktomas/face-clock/internal/web/middleware"
)

// MatchHandler finds the registered employee closest to a probe descriptor.
type MatchHandler struct {
	employees database.EmployeeReader
	threshold float64
	dim       int
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(employees database.EmployeeReader, threshold float64, dim int) *MatchHandler {
	return &MatchHandler{employees: employees, threshold: threshold, dim: dim}
}

type matchRequest struct {
	Embedding []float32 `json:"embedding"`
	// Threshold optionally tightens (never loosens) the configured value.
	Threshold float64 `json:"threshold,omitempty"`
}

// MatchResponse reports the nearest registered employee, or matched=false.
// A miss is a normal answer, not an error status.
type MatchResponse struct {
	Matched  bool    `json:"matched"`
	ID       int64   `json:"id,omitempty"`
	Name     string  `json:"name,omitempty"`
	Distance float64 `json:"distance,omitempty"`
}

// Match runs the nearest-neighbor search against the company's roster.
func (h *MatchHandler) Match(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	if err := facematch.ValidateProbe(req.Embedding, h.dim); err != nil {
		respondStorageError(w, err)
		return
	}

	threshold := h.threshold
	if req.Threshold > 0 && req.Threshold < threshold {
		threshold = req.Threshold
	}

	emp, dist, err := h.employees.FindNearest(r.Context(), session.CompanyID, req.Embedding, threshold)
	if err != nil {
		respondStorageError(w, err)
		return
	}
	if emp == nil {
		respondJSON(w, http.StatusOK, MatchResponse{Matched: false})
		return
	}

	respondJSON(w, http.StatusOK, MatchResponse{
		Matched:  true,
		ID:       emp.ID,
		Name:     emp.Name,
		Distance: dist,
	})
}
