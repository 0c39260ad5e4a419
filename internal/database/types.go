package database

import (
	"time"
)

// EventKind is the type of an attendance record.
type EventKind string

const (
	ClockIn  EventKind = "clock-in"
	ClockOut EventKind = "clock-out"
)

// Valid reports whether the kind is one of the two accepted values.
func (k EventKind) Valid() bool {
	return k == ClockIn || k == ClockOut
}

// Company is the tenant root. Every employee, admin and attendance record
// belongs to exactly one company.
type Company struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Employee represents a registered person identifiable by a face descriptor.
// Immutable after registration; deleted explicitly together with its records.
type Employee struct {
	ID        int64
	CompanyID int64
	Name      string
	Embedding []float32
	CreatedAt time.Time
}

// Descriptor is the roster entry used for face matching: the identifying
// subset of Employee that the matcher and the browser client consume.
type Descriptor struct {
	ID        int64
	Name      string
	Embedding []float32
}

// Admin is a company's login credential. Usernames are unique across all
// companies, not just within one.
type Admin struct {
	ID           int64
	CompanyID    int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// AttendanceRecord is a single clock-in or clock-out event. The timestamp is
// assigned by the server at write time and the row is never updated.
type AttendanceRecord struct {
	ID           int64
	EmployeeID   int64
	EmployeeName string // joined for history/export reads, empty on writes
	Kind         EventKind
	Timestamp    time.Time
}
