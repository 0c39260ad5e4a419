package postgres

import (
	"context"
	"fmt"

	"github.com/kozaktomas/face-clock/internal/database"
)

// CompanyRepository provides PostgreSQL-backed tenant provisioning. It is
// used by the super-admin CLI, never by the tenant-scoped web API.
type CompanyRepository struct {
	pool *Pool
}

// NewCompanyRepository creates a new PostgreSQL company repository.
func NewCompanyRepository(pool *Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// List returns all companies ordered by ID.
func (r *CompanyRepository) List(ctx context.Context) ([]database.Company, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, name, created_at FROM companies ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	var companies []database.Company
	for rows.Next() {
		var c database.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return companies, nil
}

// Create provisions a company and its first admin credential in one
// transaction, so a username collision leaves no orphan company behind.
func (r *CompanyRepository) Create(ctx context.Context, name, adminUsername, adminPasswordHash string) (*database.Company, error) {
	if name == "" {
		return nil, database.Validationf("company name is required")
	}
	if adminUsername == "" {
		return nil, database.Validationf("admin username is required")
	}

	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var c database.Company
	err = tx.QueryRowContext(ctx,
		"INSERT INTO companies (name) VALUES ($1) RETURNING id, name, created_at",
		name,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert company: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO admins (company_id, username, password_hash) VALUES ($1, $2, $3)",
		c.ID, adminUsername, adminPasswordHash,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, database.Validationf("username %q is already taken", adminUsername)
		}
		return nil, fmt.Errorf("insert admin: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit company create: %w", err)
	}
	return &c, nil
}

// Delete removes a company and everything under it: attendance records,
// employees, admins, then the company row, all-or-nothing.
func (r *CompanyRepository) Delete(ctx context.Context, companyID int64) error {
	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM attendance_records
		WHERE employee_id IN (SELECT id FROM employees WHERE company_id = $1)
	`, companyID); err != nil {
		return fmt.Errorf("delete attendance records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM employees WHERE company_id = $1", companyID); err != nil {
		return fmt.Errorf("delete employees: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM admins WHERE company_id = $1", companyID); err != nil {
		return fmt.Errorf("delete admins: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM companies WHERE id = $1", companyID)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return database.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit company delete: %w", err)
	}
	return nil
}
