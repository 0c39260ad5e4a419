package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/pgvector/pgvector-go"

	"github.com/kozaktomas/face-clock/internal/database"
)

// EmployeeRepository provides PostgreSQL-backed employee storage with an
// optional in-memory HNSW index for face matching.
type EmployeeRepository struct {
	pool        *Pool
	dim         int
	hnswIndex   *database.HNSWIndex
	hnswEnabled bool
	hnswMu      sync.RWMutex
}

// NewEmployeeRepository creates a new PostgreSQL employee repository. dim is
// the descriptor length every stored and probed embedding must have.
func NewEmployeeRepository(pool *Pool, dim int) *EmployeeRepository {
	return &EmployeeRepository{pool: pool, dim: dim}
}

// EnableHNSW loads every stored descriptor into an in-memory HNSW index.
// FindNearest uses the index from then on instead of pgvector queries.
func (r *EmployeeRepository) EnableHNSW(ctx context.Context) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, company_id, name, embedding, created_at
		FROM employees
		ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("query employees for index: %w", err)
	}
	defer rows.Close()

	employees, err := scanEmployees(rows)
	if err != nil {
		return err
	}

	idx := database.NewHNSWIndex()
	idx.BuildFromEmployees(employees)

	r.hnswMu.Lock()
	r.hnswIndex = idx
	r.hnswEnabled = true
	r.hnswMu.Unlock()
	return nil
}

// HNSWCount returns the number of descriptors in the in-memory index.
func (r *EmployeeRepository) HNSWCount() int {
	r.hnswMu.RLock()
	defer r.hnswMu.RUnlock()
	if r.hnswIndex == nil {
		return 0
	}
	return r.hnswIndex.Count()
}

// List returns all employees of a company, newest first, without embeddings.
func (r *EmployeeRepository) List(ctx context.Context, companyID int64) ([]database.Employee, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, company_id, name, created_at
		FROM employees
		WHERE company_id = $1
		ORDER BY id DESC
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	var employees []database.Employee
	for rows.Next() {
		var emp database.Employee
		if err := rows.Scan(&emp.ID, &emp.CompanyID, &emp.Name, &emp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return employees, nil
}

// ListDescriptors returns the company's full matching roster, ID ascending.
func (r *EmployeeRepository) ListDescriptors(ctx context.Context, companyID int64) ([]database.Descriptor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, embedding
		FROM employees
		WHERE company_id = $1
		ORDER BY id
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("query descriptors: %w", err)
	}
	defer rows.Close()

	var descriptors []database.Descriptor
	for rows.Next() {
		var d database.Descriptor
		var vec pgvector.Vector
		if err := rows.Scan(&d.ID, &d.Name, &vec); err != nil {
			return nil, fmt.Errorf("scan descriptor: %w", err)
		}
		d.Embedding = vec.Slice()
		descriptors = append(descriptors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate descriptors: %w", err)
	}
	return descriptors, nil
}

// Get returns one employee scoped to the company.
func (r *EmployeeRepository) Get(ctx context.Context, companyID, employeeID int64) (*database.Employee, error) {
	var emp database.Employee
	var vec pgvector.Vector
	err := r.pool.QueryRow(ctx, `
		SELECT id, company_id, name, embedding, created_at
		FROM employees
		WHERE id = $1 AND company_id = $2
	`, employeeID, companyID).Scan(&emp.ID, &emp.CompanyID, &emp.Name, &vec, &emp.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query employee: %w", err)
	}
	emp.Embedding = vec.Slice()
	return &emp, nil
}

// Count returns the number of employees registered under a company.
func (r *EmployeeRepository) Count(ctx context.Context, companyID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM employees WHERE company_id = $1", companyID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return count, nil
}

// FindNearest returns the company's closest registered employee within
// threshold, or nil on a miss. Uses the in-memory HNSW index if enabled,
// otherwise a pgvector L2 query with the employee ID as the deterministic
// tie-break.
func (r *EmployeeRepository) FindNearest(ctx context.Context, companyID int64, probe []float32, threshold float64) (*database.Employee, float64, error) {
	if len(probe) != r.dim {
		return nil, 0, database.Validationf("descriptor must have %d components, got %d", r.dim, len(probe))
	}

	r.hnswMu.RLock()
	idx := r.hnswIndex
	hnswEnabled := r.hnswEnabled && idx != nil
	r.hnswMu.RUnlock()

	if hnswEnabled {
		emp, dist := idx.SearchCompany(companyID, probe, threshold)
		if emp == nil {
			return nil, 0, nil
		}
		cp := *emp
		return &cp, dist, nil
	}

	var emp database.Employee
	var vec pgvector.Vector
	var dist float64
	err := r.pool.QueryRow(ctx, `
		SELECT id, company_id, name, embedding, created_at, embedding <-> $2 AS distance
		FROM employees
		WHERE company_id = $1
		ORDER BY embedding <-> $2, id
		LIMIT 1
	`, companyID, pgvector.NewVector(probe)).Scan(
		&emp.ID, &emp.CompanyID, &emp.Name, &vec, &emp.CreatedAt, &dist,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil // empty roster is a normal miss
	}
	if err != nil {
		return nil, 0, fmt.Errorf("query nearest employee: %w", err)
	}
	if dist >= threshold {
		return nil, 0, nil
	}
	emp.Embedding = vec.Slice()
	return &emp, dist, nil
}

// Register stores a new employee with its face descriptor.
func (r *EmployeeRepository) Register(ctx context.Context, companyID int64, name string, embedding []float32) (*database.Employee, error) {
	if name == "" {
		return nil, database.Validationf("name is required")
	}
	if len(embedding) != r.dim {
		return nil, database.Validationf("descriptor must have %d components, got %d", r.dim, len(embedding))
	}

	var emp database.Employee
	err := r.pool.QueryRow(ctx, `
		INSERT INTO employees (company_id, name, embedding)
		VALUES ($1, $2, $3)
		RETURNING id, company_id, name, created_at
	`, companyID, name, pgvector.NewVector(embedding)).Scan(
		&emp.ID, &emp.CompanyID, &emp.Name, &emp.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert employee: %w", err)
	}
	emp.Embedding = embedding

	r.hnswMu.RLock()
	idx := r.hnswIndex
	enabled := r.hnswEnabled && idx != nil
	r.hnswMu.RUnlock()
	if enabled {
		idx.Add(&emp)
	}
	return &emp, nil
}

// Delete removes an employee and all its attendance records in one
// transaction. Cross-tenant IDs answer with ErrNotFound.
func (r *EmployeeRepository) Delete(ctx context.Context, companyID, employeeID int64) error {
	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM attendance_records
		WHERE employee_id IN (SELECT id FROM employees WHERE id = $1 AND company_id = $2)
	`, employeeID, companyID); err != nil {
		return fmt.Errorf("delete attendance records: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		"DELETE FROM employees WHERE id = $1 AND company_id = $2",
		employeeID, companyID,
	)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return database.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit employee delete: %w", err)
	}

	r.hnswMu.RLock()
	idx := r.hnswIndex
	enabled := r.hnswEnabled && idx != nil
	r.hnswMu.RUnlock()
	if enabled {
		idx.Delete(employeeID)
	}
	return nil
}

// scanEmployees reads full employee rows including embeddings.
func scanEmployees(rows *sql.Rows) ([]database.Employee, error) {
	var employees []database.Employee
	for rows.Next() {
		var emp database.Employee
		var vec pgvector.Vector
		if err := rows.Scan(&emp.ID, &emp.CompanyID, &emp.Name, &vec, &emp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		emp.Embedding = vec.Slice()
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return employees, nil
}
