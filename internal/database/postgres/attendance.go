package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-clock/internal/database"
)

// AttendanceRepository provides PostgreSQL-backed attendance storage.
type AttendanceRepository struct {
	pool *Pool
}

// NewAttendanceRepository creates a new PostgreSQL attendance repository.
func NewAttendanceRepository(pool *Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Record appends one event. The INSERT only fires when the employee belongs
// to the caller's company, so a guessed cross-tenant ID answers with
// ErrNotFound. The timestamp comes from the database clock.
func (r *AttendanceRepository) Record(ctx context.Context, companyID, employeeID int64, kind database.EventKind) (*database.AttendanceRecord, error) {
	if !kind.Valid() {
		return nil, database.Validationf("kind must be %q or %q, got %q", database.ClockIn, database.ClockOut, kind)
	}

	var rec database.AttendanceRecord
	err := r.pool.QueryRow(ctx, `
		INSERT INTO attendance_records (employee_id, kind)
		SELECT e.id, $3
		FROM employees e
		WHERE e.id = $1 AND e.company_id = $2
		RETURNING id, employee_id, kind, timestamp
	`, employeeID, companyID, string(kind)).Scan(&rec.ID, &rec.EmployeeID, &rec.Kind, &rec.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("insert attendance record: %w", err)
	}
	return &rec, nil
}

// Recent returns the company's latest records joined with employee names,
// newest first.
func (r *AttendanceRepository) Recent(ctx context.Context, companyID int64, limit int) ([]database.AttendanceRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.employee_id, e.name, r.kind, r.timestamp
		FROM attendance_records r
		JOIN employees e ON r.employee_id = e.id
		WHERE e.company_id = $1
		ORDER BY r.timestamp DESC, r.id DESC
		LIMIT $2
	`, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent attendance: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// AllOrdered returns the company's entire history ordered by timestamp
// ascending, the order the CSV aggregation expects.
func (r *AttendanceRepository) AllOrdered(ctx context.Context, companyID int64) ([]database.AttendanceRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.employee_id, e.name, r.kind, r.timestamp
		FROM attendance_records r
		JOIN employees e ON r.employee_id = e.id
		WHERE e.company_id = $1
		ORDER BY r.timestamp ASC, r.id ASC
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("query attendance history: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]database.AttendanceRecord, error) {
	var records []database.AttendanceRecord
	for rows.Next() {
		var rec database.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Kind, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance records: %w", err)
	}
	return records, nil
}
