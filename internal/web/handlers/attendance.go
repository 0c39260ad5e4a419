package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/kozaktomas/face-clock/internal/constants"
	"github.com/kozaktomas/face-clock/internal/database"
	"github.com/kozaktomas/face-clock/internal/export"
	"github.com/kozaktomas/face-clock/internal/web/middleware"
)

// AttendanceHandler handles clock-in/clock-out recording, history and the
// CSV export.
type AttendanceHandler struct {
	attendance database.AttendanceWriter
	location   *time.Location
}

// NewAttendanceHandler creates a new attendance handler. loc is the zone
// used to bucket records into calendar days for export.
func NewAttendanceHandler(attendance database.AttendanceWriter, loc *time.Location) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, location: loc}
}

type recordRequest struct {
	EmployeeID int64  `json:"employee_id"`
	Kind       string `json:"kind"`
}

// RecordResponse is the JSON shape of a stored attendance event. The
// timestamp is the server's, never the client's.
type RecordResponse struct {
	ID           int64  `json:"id"`
	EmployeeID   int64  `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Kind         string `json:"kind"`
	Timestamp    string `json:"timestamp"`
}

// Record appends one attendance event. Rapid repeated calls each produce a
// row; the export's min/max aggregation absorbs double-submits.
func (h *AttendanceHandler) Record(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	rec, err := h.attendance.Record(r.Context(), session.CompanyID, req.EmployeeID, database.EventKind(req.Kind))
	if err != nil {
		respondStorageError(w, err)
		return
	}

	log.Printf("recorded %s for employee %d (company %d)", rec.Kind, rec.EmployeeID, session.CompanyID)
	respondJSON(w, http.StatusCreated, RecordResponse{
		ID:         rec.ID,
		EmployeeID: rec.EmployeeID,
		Kind:       string(rec.Kind),
		Timestamp:  rec.Timestamp.Format(time.RFC3339),
	})
}

// List returns the company's most recent records, newest first.
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	records, err := h.attendance.Recent(r.Context(), session.CompanyID, constants.RecentAttendanceLimit)
	if err != nil {
		respondStorageError(w, err)
		return
	}

	out := make([]RecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, RecordResponse{
			ID:           rec.ID,
			EmployeeID:   rec.EmployeeID,
			EmployeeName: rec.EmployeeName,
			Kind:         string(rec.Kind),
			Timestamp:    rec.Timestamp.Format(time.RFC3339),
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// Export streams the company's aggregated attendance summary as CSV.
func (h *AttendanceHandler) Export(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	records, err := h.attendance.AllOrdered(r.Context(), session.CompanyID)
	if err != nil {
		respondStorageError(w, err)
		return
	}

	rows := export.Aggregate(records, h.location)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", constants.ExportFilename))
	if err := export.WriteCSV(w, rows); err != nil {
		// Headers are out the door; all that is left is logging.
		log.Printf("writing CSV export for company %d: %v", session.CompanyID, err)
	}
}
