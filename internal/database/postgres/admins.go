package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/kozaktomas/face-clock/internal/database"
)

// AdminRepository provides PostgreSQL-backed credential storage.
type AdminRepository struct {
	pool *Pool
}

// NewAdminRepository creates a new PostgreSQL admin repository.
func NewAdminRepository(pool *Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// GetByUsername resolves a credential by its globally unique username.
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*database.Admin, error) {
	var a database.Admin
	err := r.pool.QueryRow(ctx, `
		SELECT id, company_id, username, password_hash, created_at
		FROM admins
		WHERE username = $1
	`, username).Scan(&a.ID, &a.CompanyID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query admin: %w", err)
	}
	return &a, nil
}

// GetByCompany returns the first admin of a company.
func (r *AdminRepository) GetByCompany(ctx context.Context, companyID int64) (*database.Admin, error) {
	var a database.Admin
	err := r.pool.QueryRow(ctx, `
		SELECT id, company_id, username, password_hash, created_at
		FROM admins
		WHERE company_id = $1
		ORDER BY id
		LIMIT 1
	`, companyID).Scan(&a.ID, &a.CompanyID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query admin by company: %w", err)
	}
	return &a, nil
}

// UpdatePassword replaces an admin's password hash.
func (r *AdminRepository) UpdatePassword(ctx context.Context, adminID int64, passwordHash string) error {
	result, err := r.pool.Exec(ctx,
		"UPDATE admins SET password_hash = $1 WHERE id = $2",
		passwordHash, adminID,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return requireAffected(result.RowsAffected())
}

// UpdateUsername replaces an admin's login name.
func (r *AdminRepository) UpdateUsername(ctx context.Context, adminID int64, username string) error {
	if username == "" {
		return database.Validationf("username is required")
	}
	result, err := r.pool.Exec(ctx,
		"UPDATE admins SET username = $1 WHERE id = $2",
		username, adminID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return database.Validationf("username %q is already taken", username)
		}
		return fmt.Errorf("update username: %w", err)
	}
	return requireAffected(result.RowsAffected())
}

func requireAffected(affected int64, err error) error {
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
