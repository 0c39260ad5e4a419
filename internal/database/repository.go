package database

import (
	"context"
)

// EmployeeReader provides tenant-scoped read access to the employee roster.
// Every method takes an explicit company ID; implementations must filter
// storage access by it.
type EmployeeReader interface {
	// List returns all employees of a company ordered by ID descending
	// (newest first), without embeddings.
	List(ctx context.Context, companyID int64) ([]Employee, error)
	// ListDescriptors returns the company's full (id, name, embedding)
	// roster for matching, ordered by ID ascending.
	ListDescriptors(ctx context.Context, companyID int64) ([]Descriptor, error)
	// Get returns one employee, or ErrNotFound when the ID does not exist
	// under the given company.
	Get(ctx context.Context, companyID, employeeID int64) (*Employee, error)
	// FindNearest returns the employee whose stored descriptor is closest
	// to probe in Euclidean distance, together with that distance, provided
	// the distance is strictly below threshold. A miss is (nil, 0, nil),
	// not an error. Ties resolve to the lowest employee ID.
	FindNearest(ctx context.Context, companyID int64, probe []float32, threshold float64) (*Employee, float64, error)
	// Count returns the number of employees registered under a company.
	Count(ctx context.Context, companyID int64) (int, error)
}

// EmployeeWriter provides tenant-scoped write access to the employee roster.
type EmployeeWriter interface {
	EmployeeReader

	// Register stores a new employee with its face descriptor.
	Register(ctx context.Context, companyID int64, name string, embedding []float32) (*Employee, error)
	// Delete removes an employee and all its attendance records in one
	// transaction. Returns ErrNotFound when the employee does not exist
	// under the given company.
	Delete(ctx context.Context, companyID, employeeID int64) error
}

// AttendanceReader provides tenant-scoped read access to attendance records.
type AttendanceReader interface {
	// Recent returns the company's latest records joined with employee
	// names, newest first, capped at limit.
	Recent(ctx context.Context, companyID int64, limit int) ([]AttendanceRecord, error)
	// AllOrdered returns the company's entire history joined with employee
	// names, ordered by timestamp ascending. The aggregation in
	// internal/export depends on this ordering.
	AllOrdered(ctx context.Context, companyID int64) ([]AttendanceRecord, error)
}

// AttendanceWriter provides tenant-scoped write access to attendance records.
type AttendanceWriter interface {
	AttendanceReader

	// Record appends one event for an employee. The timestamp comes from
	// the database clock at insert time; a client-supplied timestamp is
	// never accepted. Returns ErrNotFound when the employee does not
	// belong to the given company.
	Record(ctx context.Context, companyID, employeeID int64, kind EventKind) (*AttendanceRecord, error)
}

// CompanyStore provides access to tenants themselves. Used by the
// provisioning CLI, not by the tenant-scoped web API.
type CompanyStore interface {
	List(ctx context.Context) ([]Company, error)
	// Create provisions a company together with its first admin credential
	// in a single transaction.
	Create(ctx context.Context, name, adminUsername, adminPasswordHash string) (*Company, error)
	// Delete removes a company and cascades over its records, employees
	// and admins in a single all-or-nothing transaction.
	Delete(ctx context.Context, companyID int64) error
}

// AdminStore provides access to login credentials.
type AdminStore interface {
	// GetByUsername resolves a credential by its globally unique username.
	// Returns ErrNotFound when no such admin exists.
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	// GetByCompany returns the first admin of a company, ErrNotFound when
	// the company has none.
	GetByCompany(ctx context.Context, companyID int64) (*Admin, error)
	// UpdatePassword replaces an admin's password hash.
	UpdatePassword(ctx context.Context, adminID int64, passwordHash string) error
	// UpdateUsername replaces an admin's login name. The global uniqueness
	// constraint surfaces as a ValidationError.
	UpdateUsername(ctx context.Context, adminID int64, username string) error
}
